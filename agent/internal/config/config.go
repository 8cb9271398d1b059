package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPollInterval   = 60 * time.Second
	DefaultBufferSize     = 100
	DefaultSourceType     = "devtools"
	DefaultSourceEndpoint = "http://localhost:9222/json/list"
)

// Config holds the agent-side configuration parsed from the `agent:` section
// of config.yaml. The `server:` key in the same file is ignored.
type Config struct {
	Agent AgentConfig `yaml:"agent"`
}

// AgentConfig holds all agent-side settings.
type AgentConfig struct {
	// ServerEndpoint is the base URL of tabtamer-server, e.g. http://localhost:5000.
	ServerEndpoint string `yaml:"server_endpoint"`

	// PollInterval controls how often the open tabs are listed and shipped.
	PollInterval time.Duration `yaml:"poll_interval"`

	// BufferSize is the maximum number of tab batches held in memory when
	// the server is unreachable.
	BufferSize int `yaml:"buffer_size"`

	// Compress gzips request bodies sent to the server.
	Compress *bool `yaml:"compress"`

	// Source describes where open tabs are read from.
	Source Source `yaml:"source"`

	// ServerAuth configures how the agent authenticates to tabtamer-server.
	ServerAuth ServerAuthConfig `yaml:"server_auth"`
}

// Compression reports whether request bodies should be gzipped.
// It is on unless the config explicitly sets compress: false.
func (a AgentConfig) Compression() bool {
	return a.Compress == nil || *a.Compress
}

// Source describes the browser endpoint the agent polls.
type Source struct {
	// Type is the source kind. Only devtools is supported.
	Type string `yaml:"type"`

	// Endpoint is the full URL of the DevTools target list.
	Endpoint string `yaml:"endpoint"`

	// IncludeURLs sends tab URLs alongside titles.
	IncludeURLs bool `yaml:"include_urls"`

	// Auth configures how the agent authenticates to the source, e.g. when
	// the debugging port sits behind a reverse proxy.
	Auth AuthConfig `yaml:"auth"`

	// TLS holds optional TLS dial options.
	TLS TLSConfig `yaml:"tls"`
}

// AuthConfig specifies the authentication mode for a source.
type AuthConfig struct {
	// Mode is one of: apikey | bearer | basic | none.
	Mode string `yaml:"mode"`

	// API key fields, used when Mode == "apikey".
	Header string `yaml:"header"`
	KeyEnv string `yaml:"key_env"`

	// TokenEnv names the variable holding the bearer token.
	TokenEnv string `yaml:"token_env"`

	// Basic auth fields. Username is safe to store in config.
	Username    string `yaml:"username"`
	PasswordEnv string `yaml:"password_env"`
}

// Key returns the API key value resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string { return env(a.KeyEnv) }

// Token returns the bearer token value resolved from the environment.
func (a AuthConfig) Token() string { return env(a.TokenEnv) }

// Password returns the basic-auth password resolved from the environment.
func (a AuthConfig) Password() string { return env(a.PasswordEnv) }

// TLSConfig holds source TLS dial options.
type TLSConfig struct {
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// ServerAuthConfig configures how the agent authenticates to the server.
type ServerAuthConfig struct {
	// Mode is one of: apikey | none.
	Mode   string `yaml:"mode"`
	KeyEnv string `yaml:"key_env"`

	// Header defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the server API key resolved from the environment, or empty
// when Mode is not apikey.
func (a ServerAuthConfig) Key() string {
	if a.Mode != "apikey" {
		return ""
	}
	return env(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a ServerAuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

func env(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("agent config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("agent config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("agent config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Agent: AgentConfig{
			PollInterval: DefaultPollInterval,
			BufferSize:   DefaultBufferSize,
			Source: Source{
				Type:     DefaultSourceType,
				Endpoint: DefaultSourceEndpoint,
			},
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	a := cfg.Agent
	if a.ServerEndpoint == "" {
		return fmt.Errorf("agent.server_endpoint is required")
	}
	if a.PollInterval <= 0 {
		return fmt.Errorf("agent.poll_interval must be positive")
	}
	if a.BufferSize <= 0 {
		return fmt.Errorf("agent.buffer_size must be positive")
	}
	if a.Source.Type != "devtools" {
		return fmt.Errorf("agent.source.type %q unknown: want devtools", a.Source.Type)
	}
	if a.Source.Endpoint == "" {
		return fmt.Errorf("agent.source.endpoint is required")
	}
	switch a.Source.Auth.Mode {
	case "apikey", "bearer", "basic", "none", "":
	default:
		return fmt.Errorf("agent.source.auth.mode %q unknown", a.Source.Auth.Mode)
	}
	switch a.ServerAuth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("agent.server_auth.mode %q unknown: want apikey|none", a.ServerAuth.Mode)
	}
	return nil
}
