package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "hunt_session"

	ctxUserID = "auth.user_id"
	ctxToken  = "auth.token"
)

// RequireSession rejects requests without a valid session and stores the
// caller's user id on the context.
func RequireSession(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		userID, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxToken, token)
		c.Next()
	}
}

// UserID returns the authenticated caller. Empty outside RequireSession.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// Token returns the session token of the authenticated caller.
func Token(c *gin.Context) string {
	return c.GetString(ctxToken)
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
