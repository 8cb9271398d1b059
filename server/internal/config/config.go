package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort       = 5000
	DefaultHubInterval    = 5 * time.Second
	DefaultChartWidth     = 10.0
	DefaultChartHeight    = 5.0
	DefaultAdvisorURL     = "https://generativelanguage.googleapis.com"
	DefaultAdvisorModel   = "gemini-1.5-pro"
	DefaultAdvisorKeyEnv  = "GEMINI_API_KEY"
	DefaultAdvisorTimeout = 20 * time.Second
)

// Config holds the server-side configuration parsed from the `server:` section
// of config.yaml. The `agent:` key in the same file is ignored.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the dashboard, API and WebSocket hub listen on.
	HTTPPort int `yaml:"http_port"`

	// Auth configures how write routes (ingest, reset) authenticate clients.
	Auth AuthConfig `yaml:"auth"`

	CORS    CORSConfig    `yaml:"cors"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Hub     HubConfig     `yaml:"hub"`
	Chart   ChartConfig   `yaml:"chart"`
	Advisor AdvisorConfig `yaml:"advisor"`
}

// AuthConfig controls client authentication on the server side.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	// Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header to read the key from.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LedgerConfig controls the usage ledger.
type LedgerConfig struct {
	// ResetInterval clears all counts once this much time has passed since the
	// previous reset. Zero keeps counts for the lifetime of the process.
	ResetInterval time.Duration `yaml:"reset_interval"`
}

// HubConfig controls WebSocket pushes.
type HubConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// ChartConfig is the rendered chart size in inches.
type ChartConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// AdvisorConfig configures the Gemini text-generation call.
type AdvisorConfig struct {
	Enabled bool `yaml:"enabled"`

	// Endpoint is the API base URL, without the /v1 path.
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`

	// APIKeyEnv is the name of the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`

	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// APIKey returns the advisor API key resolved from the environment.
func (a AdvisorConfig) APIKey() string {
	if a.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(a.APIKeyEnv)
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			CORS:     CORSConfig{AllowedOrigins: []string{"*"}},
			Hub:      HubConfig{Interval: DefaultHubInterval},
			Chart: ChartConfig{
				Width:  DefaultChartWidth,
				Height: DefaultChartHeight,
			},
			Advisor: AdvisorConfig{
				Enabled:   true,
				Endpoint:  DefaultAdvisorURL,
				Model:     DefaultAdvisorModel,
				APIKeyEnv: DefaultAdvisorKeyEnv,
				Timeout:   DefaultAdvisorTimeout,
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	switch s.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", s.Auth.Mode)
	}
	if s.Ledger.ResetInterval < 0 {
		return fmt.Errorf("server.ledger.reset_interval must not be negative")
	}
	if s.Hub.Interval <= 0 {
		return fmt.Errorf("server.hub.interval must be positive")
	}
	if s.Chart.Width <= 0 || s.Chart.Height <= 0 {
		return fmt.Errorf("server.chart width and height must be positive")
	}
	if s.Advisor.Enabled {
		if s.Advisor.Endpoint == "" || s.Advisor.Model == "" {
			return fmt.Errorf("server.advisor: endpoint and model are required when enabled")
		}
		if s.Advisor.Timeout <= 0 {
			return fmt.Errorf("server.advisor.timeout must be positive")
		}
	}
	if s.Advisor.MaxRetries < 0 {
		return fmt.Errorf("server.advisor.max_retries must not be negative")
	}
	return nil
}
