package store

import (
	"context"
	"testing"

	"github.com/justsurfingit/hunt-assistant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStoreCreateRejectsDuplicateEmail(t *testing.T) {
	s := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.User{Email: "Ada@Example.com", Name: "Ada"}))

	err := s.Create(ctx, &models.User{Email: " ada@example.com ", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	u, err := s.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.NotEmpty(t, u.ID)
}

func TestUserStoreFindMissing(t *testing.T) {
	s := NewUserStore(setupTestDB(t))

	_, err := s.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStoreFindOrCreateByGoogle(t *testing.T) {
	s := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	existing := &models.User{Email: "grace@example.com", Name: "Grace"}
	require.NoError(t, s.Create(ctx, existing))

	linked, err := s.FindOrCreateByGoogle(ctx, "google-123", "grace@example.com", "Grace H.")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.ID, "existing account is linked, not duplicated")

	again, err := s.FindOrCreateByGoogle(ctx, "google-123", "grace@example.com", "Grace H.")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, again.ID)

	fresh, err := s.FindOrCreateByGoogle(ctx, "google-456", "alan@example.com", "Alan")
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, fresh.ID)
	assert.Equal(t, "Alan", fresh.Name)
}
