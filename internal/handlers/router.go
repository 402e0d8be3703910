package handlers

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"github.com/justsurfingit/hunt-assistant/internal/auth"
	"github.com/justsurfingit/hunt-assistant/internal/config"
	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/services"
)

// Pinger is a dependency whose health /ready reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the HTTP layer needs.
type Deps struct {
	Config    *config.Config
	Logger    logger.Logger
	StartTime time.Time

	Auth      *auth.Service
	Google    *auth.GoogleProvider // nil when Google sign-in is not configured
	Journeys  *services.JourneyService
	Documents *services.DocumentService

	Checks map[string]Pinger // readiness probes by component name
}

const requestIDHeader = "X-Request-ID"

// NewRouter builds the gin engine with middleware and every /api/v1 route.
func NewRouter(d Deps) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.MaxMultipartMemory = d.Config.Server.MaxResumeBytes + 1<<20
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLog(d.Logger))
	r.Use(cors.New(corsConfig(d.Config.Server.AllowedOrigins)))
	r.Use(requestTimeout(d.Config.Server.RequestTimeout))

	health := NewHealthHandler(d.StartTime, d.Checks)
	authH := NewAuthHandler(d.Auth, d.Google, d.Config.Auth.CookieSecure, d.Config.Server.AppURL, d.Logger)
	journeys := NewJourneyHandler(d.Journeys, d.Documents, d.Config.Server.MaxResumeBytes, d.Logger)
	documents := NewDocumentHandler(d.Documents, d.Logger)

	requireSession := auth.RequireSession(d.Auth)

	api := r.Group("/api/v1")
	{
		api.GET("/health", health.Health)
		api.GET("/ready", health.Ready)

		a := api.Group("/auth")
		a.POST("/sign-up", authH.SignUp)
		a.POST("/sign-in", authH.SignIn)
		a.POST("/sign-out", requireSession, authH.SignOut)
		a.GET("/session", requireSession, authH.Session)
		a.GET("/google", authH.GoogleStart)
		a.GET("/google/callback", authH.GoogleCallback)

		// Journey routes
		j := api.Group("/journeys", requireSession)
		j.GET("", journeys.List)
		j.POST("", journeys.Create)
		j.GET("/:id", journeys.Get)
		j.PATCH("/:id", journeys.Update)
		j.DELETE("/:id", journeys.Delete)
		j.POST("/:id/insights", journeys.GenerateInsights)
		j.POST("/:id/cover-letter", journeys.GenerateCoverLetter)
		j.GET("/:id/cover-letter/export", journeys.ExportCoverLetter)

		api.POST("/insights/preview", requireSession, journeys.PreviewInsights)
		api.POST("/export-document", requireSession, documents.Export)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", requestIDHeader}
	cfg.ExposeHeaders = []string{"Content-Disposition", requestIDHeader}
	return cfg
}

var registerOnce sync.Once

// registerValidators makes validation errors name fields as clients send
// them and adds the notblank rule.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLog logs one line per request.
func requestLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		reqLog := log.With(logger.String("request_id", c.GetString("request_id")))
		reqLog.Info("http_request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Int("bytes", c.Writer.Size()),
			logger.Duration("duration", time.Since(start)),
			logger.String("remote_ip", c.ClientIP()),
		)
	}
}

// requestTimeout bounds the request context. AI calls inherit it.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
