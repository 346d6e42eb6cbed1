package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all environment backed configuration for the provider registry service.
type Config struct {
	// HTTP Server
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"prompt-assistant-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8787"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	EnableSwagger   bool          `env:"ENABLE_SWAGGER" envDefault:"true"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Tracing
	EnableTracing bool   `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Provider storage
	ProvidersFile string `env:"PROVIDERS_FILE" envDefault:"data/providers.json"`

	// Model listing
	ModelCacheMaxAge    time.Duration `env:"MODEL_CACHE_MAX_AGE" envDefault:"5m"`
	UpstreamHTTPTimeout time.Duration `env:"UPSTREAM_HTTP_TIMEOUT" envDefault:"30s"`

	// SECRET_REDACTION controls how credentials in provider config are returned: redacted, hashed or plain.
	SecretRedaction string `env:"SECRET_REDACTION" envDefault:"redacted"`

	// Upstream credentials used when a request carries no key of its own.
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	CopilotToken    string `env:"COPILOT_TOKEN"`
}

// Load parses environment variables into Config.
//
// Configuration Loading Order (highest to lowest priority):
// 1. Environment variables
// 2. .env file (if present, loaded by cmd/server)
// 3. Default values from struct tags
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if strings.TrimSpace(c.ProvidersFile) == "" {
		return fmt.Errorf("PROVIDERS_FILE is required")
	}
	if c.ModelCacheMaxAge < 0 {
		return fmt.Errorf("MODEL_CACHE_MAX_AGE must not be negative")
	}
	switch c.SecretRedaction {
	case "redacted", "hashed", "plain":
	default:
		return fmt.Errorf("SECRET_REDACTION must be one of redacted, hashed, plain")
	}
	if c.EnableTracing && strings.TrimSpace(c.OTLPEndpoint) == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when ENABLE_TRACING is true")
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UpstreamKeys returns the fallback credentials keyed by upstream type.
func (c *Config) UpstreamKeys() map[string]string {
	return map[string]string{
		"openai":    c.OpenAIAPIKey,
		"gemini":    c.GeminiAPIKey,
		"anthropic": c.AnthropicAPIKey,
		"copilot":   c.CopilotToken,
	}
}
