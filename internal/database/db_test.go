package database

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/hunt-assistant/internal/config"
	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.DatabaseConfig
		wantErr bool
	}{
		{name: "sqlite in memory", cfg: config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}},
		{name: "unknown driver", cfg: config.DatabaseConfig{Driver: "mysql", URL: "root@/hunt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := Connect(tt.cfg, logger.Nop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer func() { _ = Close(db) }()

			assert.True(t, db.Migrator().HasTable(&models.Journey{}))
			assert.True(t, db.Migrator().HasTable(&models.User{}))
			assert.NoError(t, Migrate(db), "migrating twice is a no-op")
		})
	}
}

func TestConnectRedisGivesUp(t *testing.T) {
	start := time.Now()
	_, err := ConnectRedis(context.Background(), RedisOptions{
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
	}, logger.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis unavailable at 127.0.0.1:1")
	assert.Less(t, time.Since(start), 5*time.Second)
}
