package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/hunt-assistant/internal/auth"
	"github.com/justsurfingit/hunt-assistant/internal/dtos"
	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/store"
)

const (
	oauthStateCookie = "hunt_oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

type AuthHandler struct {
	auth         *auth.Service
	google       *auth.GoogleProvider
	cookieSecure bool
	appURL       string
	log          logger.Logger
}

func NewAuthHandler(svc *auth.Service, google *auth.GoogleProvider, cookieSecure bool, appURL string, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         svc,
		google:       google,
		cookieSecure: cookieSecure,
		appURL:       appURL,
		log:          log,
	}
}

type sessionResponse struct {
	User  dtos.UserResponse `json:"user"`
	Token string            `json:"token,omitempty"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dtos.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	user, token, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	auth.SetSessionCookie(c, token, h.auth.SessionTTL(), h.cookieSecure)
	c.JSON(http.StatusCreated, sessionResponse{User: dtos.NewUserResponse(user), Token: token})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dtos.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	user, token, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	auth.SetSessionCookie(c, token, h.auth.SessionTTL(), h.cookieSecure)
	c.JSON(http.StatusOK, sessionResponse{User: dtos.NewUserResponse(user), Token: token})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context(), auth.Token(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	auth.ClearSessionCookie(c, h.cookieSecure)
	c.Status(http.StatusNoContent)
}

// Session returns the signed-in user.
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context(), auth.UserID(c))
	if errors.Is(err, store.ErrNotFound) {
		// session outlived its account
		respondError(c, h.log, auth.ErrSessionNotFound)
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{User: dtos.NewUserResponse(user)})
}

// GoogleStart redirects to the Google consent screen.
func (h *AuthHandler) GoogleStart(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int(oauthStateTTL.Seconds()), "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.cookieSecure, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Error("google_exchange_failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Google sign-in failed"})
		return
	}

	_, token, err := h.auth.SignInWithGoogle(c.Request.Context(), profile)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	auth.SetSessionCookie(c, token, h.auth.SessionTTL(), h.cookieSecure)
	c.Redirect(http.StatusFound, h.appURL)
}
