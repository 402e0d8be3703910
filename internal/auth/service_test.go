package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/hunt-assistant/internal/config"
	"github.com/justsurfingit/hunt-assistant/internal/database"
	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return NewService(store.NewUserStore(db), NewMemorySessionStore(), time.Hour, logger.Nop())
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "anything"), "accounts without a password never match")
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.SignUp(ctx, "ada@example.com", "s3cret-pass", " Ada ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.NotEmpty(t, token)

	userID, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, _, err = svc.SignUp(ctx, "ADA@example.com", "another-pass", "Imposter")
	assert.ErrorIs(t, err, ErrEmailTaken)

	again, token2, err := svc.SignIn(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.NotEqual(t, token, token2, "each sign-in opens its own session")

	_, _, err = svc.SignIn(ctx, "ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.SignIn(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.SignOut(ctx, token))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSignInWithGoogle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.SignInWithGoogle(ctx, &GoogleProfile{Subject: "g-1", Email: "grace@example.com"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	user, token, err := svc.SignInWithGoogle(ctx, &GoogleProfile{
		Subject: "g-1", Email: "grace@example.com", Name: "Grace", EmailVerified: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.SignIn(ctx, "grace@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "google-only accounts have no password")

	current, err := svc.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", current.Email)
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	_, token, err := svc.SignUp(context.Background(), "ada@example.com", "s3cret-pass", "Ada")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", RequireSession(svc), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	tests := []struct {
		name     string
		prepare  func(*http.Request)
		wantCode int
	}{
		{name: "no credentials", prepare: func(*http.Request) {}, wantCode: http.StatusUnauthorized},
		{name: "bad bearer", prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, wantCode: http.StatusUnauthorized},
		{name: "bearer token", prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, wantCode: http.StatusOK},
		{name: "session cookie", prepare: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		}, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Not authenticated"}`, w.Body.String())
			} else {
				assert.NotEmpty(t, w.Body.String())
			}
		})
	}
}
