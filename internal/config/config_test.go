package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{name: "variable set", key: "HUNT_TEST_VAR", value: "v", shouldSet: true},
		{name: "variable not set", key: "HUNT_TEST_VAR_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			if got := requireEnv(tt.key); !tt.wantPanic && got != tt.value {
				t.Errorf("requireEnv() = %v, want %v", got, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		def       time.Duration
		want      time.Duration
		wantPanic bool
	}{
		{name: "valid", value: "45s", def: time.Second, want: 45 * time.Second},
		{name: "empty falls back", value: "", def: 2 * time.Minute, want: 2 * time.Minute},
		{name: "missing unit", value: "90", def: time.Second, wantPanic: true},
		{name: "not a duration", value: "soon", def: time.Second, wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HUNT_TEST_DURATION", tt.value)

			if tt.wantPanic {
				defer func() {
					r := recover()
					if r == nil {
						t.Fatalf("mustDuration(%q) should have panicked", tt.value)
					}
					if msg, _ := r.(string); !strings.HasPrefix(msg, "❌ FATAL:") || !strings.Contains(msg, "HUNT_TEST_DURATION") {
						t.Errorf("panic message = %v", r)
					}
				}()
			}

			if got := mustDuration("HUNT_TEST_DURATION", tt.def); !tt.wantPanic && got != tt.want {
				t.Errorf("mustDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustBoolAndInt(t *testing.T) {
	t.Setenv("HUNT_TEST_BOOL", "true")
	t.Setenv("HUNT_TEST_INT", "3")
	if !mustBool("HUNT_TEST_BOOL", false) {
		t.Errorf("mustBool() = false, want true")
	}
	if got := mustInt("HUNT_TEST_INT", 0); got != 3 {
		t.Errorf("mustInt() = %d, want 3", got)
	}

	tests := []struct {
		name  string
		key   string
		value string
		call  func(key string)
	}{
		{name: "bool", key: "HUNT_TEST_BOOL", value: "yes please", call: func(k string) { mustBool(k, false) }},
		{name: "int", key: "HUNT_TEST_INT", value: "five", call: func(k string) { mustInt(k, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s=%q should have panicked", tt.key, tt.value)
				}
			}()
			tt.call(tt.key)
		})
	}
}

func TestLoadPanicsOnMalformedEnv(t *testing.T) {
	t.Setenv("HUNT_DATABASE_URL", "file:hunt.db")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("HUNT_REQUEST_TIMEOUT", "90")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked on HUNT_REQUEST_TIMEOUT=90")
		}
	}()
	Load()
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "a", want: []string{"a"}},
		{in: ` "http://a" , 'http://b',, `, want: []string{"http://a", "http://b"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := splitAndTrim(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitAndTrim(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ProviderGroq},
		{in: "primary", want: ProviderGroq},
		{in: "GROQ", want: ProviderGroq},
		{in: "secondary", want: ProviderOpenAI},
		{in: "openai", want: ProviderOpenAI},
		{in: "gemini", want: ProviderGemini},
		{in: "mistral", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeProvider(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeProvider(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("normalizeProvider(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hunt.yaml")
	yamlDoc := []byte(`
log_level: warn
server:
  listen_addr: ":9000"
  allowed_origins: ["https://app.example.com"]
database:
  driver: sqlite
ai:
  provider: secondary
`)
	if err := os.WriteFile(path, yamlDoc, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HUNT_CONFIG_FILE", path)
	t.Setenv("HUNT_DATABASE_URL", "file:hunt.db")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("HUNT_LISTEN_ADDR", ":9100")

	cfg := Load()

	if cfg.Server.ListenAddr != ":9100" {
		t.Errorf("env should override file, got %q", cfg.Server.ListenAddr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.AI.Provider != ProviderOpenAI || cfg.AI.APIKey() != "sk-test" {
		t.Errorf("AI = %+v, want openai with key", cfg.AI)
	}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, []string{"https://app.example.com"}) {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.MaxResumeBytes != 5<<20 {
		t.Errorf("MaxResumeBytes = %d, want default 5MB", cfg.Server.MaxResumeBytes)
	}
}

func TestLoadPanicsWithoutProviderKey(t *testing.T) {
	t.Setenv("HUNT_DATABASE_URL", "file:hunt.db")
	t.Setenv("HUNT_AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without GEMINI_API_KEY")
		}
	}()
	Load()
}
