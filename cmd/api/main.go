package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justsurfingit/hunt-assistant/internal/auth"
	"github.com/justsurfingit/hunt-assistant/internal/config"
	"github.com/justsurfingit/hunt-assistant/internal/database"
	"github.com/justsurfingit/hunt-assistant/internal/handlers"
	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/services"
	"github.com/justsurfingit/hunt-assistant/internal/store"
	"github.com/justsurfingit/hunt-assistant/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ hunt-assistant failed: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration and logging
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = lg.Sync() }()

	lg.Infof("🚀 Starting hunt-assistant %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	// 2. Database connection (migrates on connect)
	db, err := database.Connect(cfg.Database, lg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	journeyStore := store.NewJourneyStore(db)
	userStore := store.NewUserStore(db)

	// 3. Session backend: redis when configured, process memory otherwise
	var sessions auth.SessionStore
	checks := map[string]handlers.Pinger{"database": journeyStore}
	if cfg.Redis.Addr != "" {
		lg.Infof("Connecting to Redis at %s", cfg.Redis.Addr)
		client, err := database.ConnectRedis(ctx, database.RedisOptions{
			Addr:           cfg.Redis.Addr,
			Password:       cfg.Redis.Password,
			DB:             cfg.Redis.DB,
			ConnectTimeout: cfg.Redis.ConnectTimeout,
		}, lg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		sessions = auth.NewRedisSessionStore(client)
	} else {
		lg.Warn("HUNT_REDIS_ADDR not set, sessions are kept in memory")
		sessions = auth.NewMemorySessionStore()
	}

	// 4. Core services
	llm, err := services.NewLLMService(ctx, cfg.AI)
	if err != nil {
		return err
	}
	lg.Info("AI backend ready", logger.String("provider", llm.Provider), logger.String("model", llm.Model))

	authService := auth.NewService(userStore, sessions, cfg.Auth.SessionTTL, lg)
	checks["sessions"] = authService

	var google *auth.GoogleProvider
	if cfg.Auth.GoogleClientID != "" {
		google = auth.NewGoogleProvider(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.GoogleRedirectURL)
	} else {
		lg.Info("Google sign-in disabled (GOOGLE_CLIENT_ID not set)")
	}

	journeyService := services.NewJourneyService(journeyStore, services.NewResumeService(), llm, lg)

	// 5. Router
	router := handlers.NewRouter(handlers.Deps{
		Config:    cfg,
		Logger:    lg,
		StartTime: time.Now(),
		Auth:      authService,
		Google:    google,
		Journeys:  journeyService,
		Documents: services.NewDocumentService(),
		Checks:    checks,
	})

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// 6. Serve until a signal arrives
	errCh := make(chan error, 1)
	go func() {
		lg.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		lg.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	lg.Info("✅ Server stopped")
	return nil
}
