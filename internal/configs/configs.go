/*
Package configs is responsible for loading and parsing the application's configuration settings.

Configuration comes from operating system environment variables, optionally seeded from a
local .env file in development. Parsing is struct-tag driven via envconfig.
*/
package configs

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// Environment selects runtime behavior such as log format and origin checks.
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Port is the TCP port the HTTP server listens on.
	Port int `envconfig:"PORT" default:"8080"`

	// AllowedOrigins is the comma-separated list of origins permitted for CORS
	// and WebSocket upgrades outside development.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads and parses the application configuration from environment variables.
// A .env file, if present in the working directory, is loaded first; its absence is not
// an error. It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	// .env is a development convenience; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment configuration: %w", err)
	}

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	return cfg, nil
}
