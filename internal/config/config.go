package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AI backend identifiers.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	LogLevel  string `yaml:"log_level"`  // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `yaml:"pretty_log"` // true => zap dev (color), false => zap prod (JSON)

	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	AI       AIConfig       `yaml:"ai"`
}

type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`      // ex: ":8080"
	ShutdownTimeout time.Duration `yaml:"-"`                // ex: 10s
	RequestTimeout  time.Duration `yaml:"-"`                // upper bound for one request, AI calls included
	AllowedOrigins  []string      `yaml:"allowed_origins"`  // CORS origins, empty = allow all
	AppURL          string        `yaml:"app_url"`          // where the browser lands after Google sign-in
	MaxResumeBytes  int64         `yaml:"max_resume_bytes"` // upload limit for résumé files
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "postgres" | "sqlite"
	URL    string `yaml:"-"`      // DSN, env only
}

type RedisConfig struct {
	Addr           string        `yaml:"addr"` // empty => in-memory sessions
	Password       string        `yaml:"-"`
	DB             int           `yaml:"db"`
	ConnectTimeout time.Duration `yaml:"-"` // total time spent retrying the first ping
}

type AuthConfig struct {
	SessionTTL         time.Duration `yaml:"-"`
	CookieSecure       bool          `yaml:"cookie_secure"`
	GoogleClientID     string        `yaml:"google_client_id"` // empty => Google sign-in disabled
	GoogleClientSecret string        `yaml:"-"`
	GoogleRedirectURL  string        `yaml:"google_redirect_url"`
}

type AIConfig struct {
	Provider     string `yaml:"provider"` // "groq" (primary) | "openai" (secondary) | "gemini"
	Model        string `yaml:"model"`    // optional override of the backend's default model
	GroqAPIKey   string `yaml:"-"`
	OpenAIAPIKey string `yaml:"-"`
	GeminiAPIKey string `yaml:"-"`
}

// APIKey returns the credential of the selected provider.
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.GroqAPIKey
	}
}

func defaults() *Config {
	return &Config{
		LogLevel:  "info",
		PrettyLog: false,
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  90 * time.Second,
			AppURL:          "http://localhost:3000",
			MaxResumeBytes:  5 << 20,
		},
		Database: DatabaseConfig{Driver: "postgres"},
		Redis:    RedisConfig{ConnectTimeout: 30 * time.Second},
		Auth:     AuthConfig{SessionTTL: 7 * 24 * time.Hour},
		AI:       AIConfig{Provider: ProviderGroq},
	}
}

// Load reads .env, then the optional YAML file named by HUNT_CONFIG_FILE, then
// environment variables. Later sources win. Missing required values panic.
func Load() *Config {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("HUNT_CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			panic(fmt.Sprintf("❌ FATAL: %v", err))
		}
	}

	applyEnv(cfg)

	provider, err := normalizeProvider(cfg.AI.Provider)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}
	cfg.AI.Provider = provider
	if cfg.AI.APIKey() == "" {
		panic(fmt.Sprintf("❌ FATAL: no API key configured for AI provider %q", provider))
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		panic(fmt.Sprintf("❌ FATAL: unsupported HUNT_DB_DRIVER %q", cfg.Database.Driver))
	}

	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.Database.URL = "***REDACTED***"
		cfgCopy.Redis.Password = "***REDACTED***"
		cfgCopy.Auth.GoogleClientSecret = "***REDACTED***"
		cfgCopy.AI.GroqAPIKey, cfgCopy.AI.OpenAIAPIKey, cfgCopy.AI.GeminiAPIKey = "***", "***", "***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.LogLevel = getenv("HUNT_LOG_LEVEL", cfg.LogLevel)
	cfg.PrettyLog = mustBool("HUNT_PRETTY_LOG", cfg.PrettyLog)

	// Server
	cfg.Server.ListenAddr = getenv("HUNT_LISTEN_ADDR", cfg.Server.ListenAddr)
	cfg.Server.ShutdownTimeout = mustDuration("HUNT_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.RequestTimeout = mustDuration("HUNT_REQUEST_TIMEOUT", cfg.Server.RequestTimeout)
	if origins := splitAndTrim(getenv("HUNT_ALLOWED_ORIGINS", "")); len(origins) > 0 {
		cfg.Server.AllowedOrigins = origins
	}
	cfg.Server.AppURL = getenv("HUNT_APP_URL", cfg.Server.AppURL)
	cfg.Server.MaxResumeBytes = int64(mustInt("HUNT_MAX_RESUME_BYTES", int(cfg.Server.MaxResumeBytes)))

	// Database
	cfg.Database.Driver = getenv("HUNT_DB_DRIVER", cfg.Database.Driver)
	cfg.Database.URL = requireEnv("HUNT_DATABASE_URL")

	// Redis
	cfg.Redis.Addr = getenv("HUNT_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getenv("HUNT_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = mustInt("HUNT_REDIS_DB", cfg.Redis.DB)
	cfg.Redis.ConnectTimeout = mustDuration("HUNT_REDIS_CONNECT_TIMEOUT", cfg.Redis.ConnectTimeout)

	// Auth
	cfg.Auth.SessionTTL = mustDuration("HUNT_SESSION_TTL", cfg.Auth.SessionTTL)
	cfg.Auth.CookieSecure = mustBool("HUNT_COOKIE_SECURE", cfg.Auth.CookieSecure)
	cfg.Auth.GoogleClientID = getenv("GOOGLE_CLIENT_ID", cfg.Auth.GoogleClientID)
	cfg.Auth.GoogleClientSecret = getenv("GOOGLE_CLIENT_SECRET", cfg.Auth.GoogleClientSecret)
	cfg.Auth.GoogleRedirectURL = getenv("GOOGLE_REDIRECT_URL", cfg.Auth.GoogleRedirectURL)

	// AI
	cfg.AI.Provider = getenv("HUNT_AI_PROVIDER", cfg.AI.Provider)
	cfg.AI.Model = getenv("HUNT_AI_MODEL", cfg.AI.Model)
	cfg.AI.GroqAPIKey = getenv("GROQ_API_KEY", cfg.AI.GroqAPIKey)
	cfg.AI.OpenAIAPIKey = getenv("OPENAI_API_KEY", cfg.AI.OpenAIAPIKey)
	cfg.AI.GeminiAPIKey = getenv("GEMINI_API_KEY", cfg.AI.GeminiAPIKey)
}

// normalizeProvider maps the primary/secondary aliases onto backend names.
func normalizeProvider(p string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "", "primary", ProviderGroq:
		return ProviderGroq, nil
	case "secondary", ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown AI provider %q", p)
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func mustInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(invalidEnv(key, v, err))
	}
	return i
}

func mustBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(invalidEnv(key, v, err))
	}
	return b
}

func mustDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(invalidEnv(key, v, err))
	}
	return d
}

func invalidEnv(key, value string, err error) string {
	return fmt.Sprintf("❌ FATAL: Invalid value %q for environment variable %s: %v", value, key, err)
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.Trim(strings.TrimSpace(part), `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
