// Package config provides unified configuration for the searelay server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. .env file in the working directory (never overrides the environment)
//  3. YAML config file (discovered or explicitly specified)
//  4. Environment variable overrides
//  5. File reference resolution (_file suffix fields)
//  6. Validation
//
// The resulting Config is treated as immutable and passed explicitly to the
// components that need it.
package config

import "time"

// Config holds all configuration for the searelay server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Relay         RelayConfig         `yaml:"relay"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 3001
	AllowedOrigin   string        `yaml:"allowed_origin"`   // default: http://localhost:3000
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 0 (none)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 1 MiB
}

// UpstreamConfig holds completion provider settings.
type UpstreamConfig struct {
	APIKey      string        `yaml:"api_key"`      // required
	APIKeyFile  string        `yaml:"api_key_file"` // _file variant for api_key
	BaseURL     string        `yaml:"base_url"`     // optional, SDK default when empty
	Model       string        `yaml:"model"`        // default: gpt-3.5-turbo
	MaxTokens   int           `yaml:"max_tokens"`   // default: 1000
	Temperature float64       `yaml:"temperature"`  // default: 0.7
	Timeout     time.Duration `yaml:"timeout"`      // default: 0 (SDK default)
}

// RelayConfig holds prompt augmentation settings.
type RelayConfig struct {
	Language     string `yaml:"language"`      // default: Korean
	SystemPrompt string `yaml:"system_prompt"` // optional override of the built-in persona
}

// AuthConfig holds inbound authentication settings.
type AuthConfig struct {
	Type              string         `yaml:"type"`                // "none" or "apikey", default: "none"
	APIKeys           []APIKeyConfig `yaml:"api_keys"`            // entries for type=apikey
	RequestsPerMinute int            `yaml:"requests_per_minute"` // 0 disables rate limiting
}

// APIKeyConfig describes a single inbound API key entry.
type APIKeyConfig struct {
	Key     string `yaml:"key" json:"key"`
	KeyFile string `yaml:"key_file" json:"key_file"` // _file variant for key
	Subject string `yaml:"subject" json:"subject"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LoggingConfig holds log level and debug categories.
type LoggingConfig struct {
	Level string `yaml:"level"` // default: INFO
	Debug string `yaml:"debug"` // comma-separated categories
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            3001,
			AllowedOrigin:   "http://localhost:3000",
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodySize:     1 << 20,
		},
		Upstream: UpstreamConfig{
			Model:       "gpt-3.5-turbo",
			MaxTokens:   1000,
			Temperature: 0.7,
		},
		Relay: RelayConfig{
			Language: "Korean",
		},
		Auth: AuthConfig{
			Type: "none",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}
