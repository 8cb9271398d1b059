package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
server:
  http_port: 5000
agent:
  server_endpoint: "http://localhost:5000"
  poll_interval: 10s
  buffer_size: 20
  compress: false
  source:
    type: devtools
    endpoint: "http://127.0.0.1:9333/json/list"
    include_urls: true
    auth:
      mode: bearer
      token_env: DEVTOOLS_TOKEN
  server_auth:
    mode: apikey
    key_env: TABTAMER_KEY
    header: x-tabtamer-key
`
	cfg := loadFromString(t, yaml)
	a := cfg.Agent

	if a.ServerEndpoint != "http://localhost:5000" {
		t.Errorf("server_endpoint: got %q", a.ServerEndpoint)
	}
	if a.PollInterval != 10*time.Second {
		t.Errorf("poll_interval: got %v", a.PollInterval)
	}
	if a.BufferSize != 20 {
		t.Errorf("buffer_size: got %d", a.BufferSize)
	}
	if a.Compression() {
		t.Error("compress: explicitly false but Compression() is true")
	}
	if a.Source.Endpoint != "http://127.0.0.1:9333/json/list" || !a.Source.IncludeURLs {
		t.Errorf("source: got %+v", a.Source)
	}
	if a.Source.Auth.Mode != "bearer" {
		t.Errorf("source auth mode: got %q", a.Source.Auth.Mode)
	}
	if a.ServerAuth.EffectiveHeader() != "x-tabtamer-key" {
		t.Errorf("server auth header: got %q", a.ServerAuth.EffectiveHeader())
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, "agent:\n  server_endpoint: \"http://localhost:5000\"\n")
	a := cfg.Agent

	if a.PollInterval != DefaultPollInterval {
		t.Errorf("default poll_interval: got %v, want %v", a.PollInterval, DefaultPollInterval)
	}
	if a.BufferSize != DefaultBufferSize {
		t.Errorf("default buffer_size: got %d, want %d", a.BufferSize, DefaultBufferSize)
	}
	if !a.Compression() {
		t.Error("compression should default to on")
	}
	if a.Source.Type != DefaultSourceType || a.Source.Endpoint != DefaultSourceEndpoint {
		t.Errorf("default source: got %+v", a.Source)
	}
	if a.Source.IncludeURLs {
		t.Error("include_urls should default to false")
	}
	if a.ServerAuth.EffectiveHeader() != "x-api-key" {
		t.Errorf("default header: got %q", a.ServerAuth.EffectiveHeader())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing endpoint", "agent:\n  poll_interval: 5s\n", "server_endpoint"},
		{"zero poll", "agent:\n  server_endpoint: x\n  poll_interval: 0s\n", "poll_interval"},
		{"negative buffer", "agent:\n  server_endpoint: x\n  buffer_size: -1\n", "buffer_size"},
		{"unknown source", "agent:\n  server_endpoint: x\n  source:\n    type: firefox\n", "source.type"},
		{"empty source endpoint", "agent:\n  server_endpoint: x\n  source:\n    endpoint: \"\"\n", "source.endpoint"},
		{"unknown source auth", "agent:\n  server_endpoint: x\n  source:\n    auth:\n      mode: magictoken\n", "source.auth.mode"},
		{"unknown server auth", "agent:\n  server_endpoint: x\n  server_auth:\n    mode: mtls\n", "server_auth.mode"},
		{"bad yaml", "agent: [\n", "parse yaml"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadStringErr(t, tc.yaml)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.HasPrefix(err.Error(), "agent config:") {
				t.Errorf("error prefix: got %q", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_SourceAuthModes(t *testing.T) {
	for _, mode := range []string{"apikey", "bearer", "basic", "none", ""} {
		t.Run("mode="+mode, func(t *testing.T) {
			yaml := "agent:\n  server_endpoint: x\n  source:\n    auth:\n      mode: \"" + mode + "\"\n"
			cfg := loadFromString(t, yaml)
			if cfg.Agent.Source.Auth.Mode != mode {
				t.Errorf("auth mode: got %q, want %q", cfg.Agent.Source.Auth.Mode, mode)
			}
		})
	}
}

func TestAuthConfig_Secrets(t *testing.T) {
	t.Setenv("TEST_API_KEY", "supersecret")
	t.Setenv("TEST_BEARER_TOKEN", "mytoken")
	t.Setenv("TEST_PASSWORD", "hunter2")

	a := AuthConfig{KeyEnv: "TEST_API_KEY", TokenEnv: "TEST_BEARER_TOKEN", PasswordEnv: "TEST_PASSWORD"}
	if got := a.Key(); got != "supersecret" {
		t.Errorf("Key(): got %q", got)
	}
	if got := a.Token(); got != "mytoken" {
		t.Errorf("Token(): got %q", got)
	}
	if got := a.Password(); got != "hunter2" {
		t.Errorf("Password(): got %q", got)
	}
	if got := (AuthConfig{}).Key(); got != "" {
		t.Errorf("Key() with no KeyEnv: got %q, want empty", got)
	}
}

func TestServerAuthConfig_Key(t *testing.T) {
	t.Setenv("TABTAMER_KEY", "k1")

	if got := (ServerAuthConfig{Mode: "apikey", KeyEnv: "TABTAMER_KEY"}).Key(); got != "k1" {
		t.Errorf("apikey mode: got %q, want k1", got)
	}
	if got := (ServerAuthConfig{Mode: "none", KeyEnv: "TABTAMER_KEY"}).Key(); got != "" {
		t.Errorf("none mode: got %q, want empty", got)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("agent:\n  server_endpoint: a\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, path, func(c *Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("agent:\n  server_endpoint: b\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for done := false; !done; {
		select {
		case c := <-got:
			done = c.Agent.ServerEndpoint == "b"
		case <-deadline:
			t.Fatal("no reload with server_endpoint b observed")
		}
	}

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}

// loadFromString writes yaml to a temp file and calls Load, failing on error.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return cfg
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}
