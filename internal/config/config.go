// Package config loads runtime settings for the gosymsum binaries from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Transport selects how the MCP server talks to its client.
type Transport string

const (
	// TransportStdio serves MCP over standard input/output.
	TransportStdio Transport = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP Transport = "http"
)

// Config holds every GOSYMSUM_* setting.
type Config struct {
	Transport      Transport     `env:"GOSYMSUM_TRANSPORT" envDefault:"stdio"`
	HTTPAddr       string        `env:"GOSYMSUM_HTTP_ADDR" envDefault:"localhost:8080"`
	LogLevel       string        `env:"GOSYMSUM_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"GOSYMSUM_LOG_FORMAT" envDefault:"text"`
	RequestTimeout time.Duration `env:"GOSYMSUM_REQUEST_TIMEOUT" envDefault:"10s"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown transports, log formats and non-positive timeouts.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("transport %q not supported", c.Transport)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q not supported", c.LogFormat)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
