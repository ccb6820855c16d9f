package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is returned by Validate when no upstream key is configured.
var ErrMissingAPIKey = errors.New("upstream.api_key is required (set OPENAI_API_KEY)")

// APIKeyPrefix is the conventional prefix of OpenAI secret keys.
const APIKeyPrefix = "sk-"

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Upstream.APIKey) == "" {
		errs = append(errs, ErrMissingAPIKey)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Server.AllowedOrigin == "" {
		errs = append(errs, fmt.Errorf("server.allowed_origin is required"))
	}

	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}

	if c.Upstream.Model == "" {
		errs = append(errs, fmt.Errorf("upstream.model is required"))
	}

	if c.Upstream.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("upstream.max_tokens must be >= 0, got %d", c.Upstream.MaxTokens))
	}

	if c.Upstream.Temperature < 0 || c.Upstream.Temperature > 2 {
		errs = append(errs, fmt.Errorf("upstream.temperature must be between 0 and 2, got %v", c.Upstream.Temperature))
	}

	switch c.Auth.Type {
	case "none":
	case "apikey":
		if len(c.Auth.APIKeys) == 0 {
			errs = append(errs, fmt.Errorf("auth.api_keys must not be empty when auth.type is \"apikey\""))
		}
		for i, k := range c.Auth.APIKeys {
			if k.Key == "" {
				errs = append(errs, fmt.Errorf("auth.api_keys[%d].key or key_file is required", i))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\" or \"apikey\", got %q", c.Auth.Type))
	}

	if c.Auth.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("auth.requests_per_minute must be >= 0, got %d", c.Auth.RequestsPerMinute))
	}

	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}

	return errors.Join(errs...)
}

// Warnings returns non-fatal findings about a valid configuration.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Upstream.APIKey != "" && !strings.HasPrefix(c.Upstream.APIKey, APIKeyPrefix) {
		warnings = append(warnings, fmt.Sprintf(
			"upstream API key does not use the usual OpenAI format (%s...); verify it at https://platform.openai.com/account/api-keys",
			APIKeyPrefix))
	}
	return warnings
}
