// Package config loads proplink settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/proplink/internal/property"
)

// Config holds settings shared by the CLI commands. Flags override it.
type Config struct {
	// MaxDepth is the propagation depth guard; <= 0 disables it.
	MaxDepth int `env:"PROPLINK_MAX_DEPTH" envDefault:"1000"`

	// ChangeLog turns the session change log on at startup.
	ChangeLog bool `env:"PROPLINK_CHANGELOG" envDefault:"true"`

	// DBPath is the SQLite store; empty means batches are not persisted.
	DBPath string `env:"PROPLINK_DB"`

	// Verbose enables debug logging.
	Verbose bool `env:"PROPLINK_VERBOSE"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SessionOptions converts the configuration to session options.
func (c Config) SessionOptions() []property.SessionOption {
	return []property.SessionOption{
		property.WithMaxDepth(c.MaxDepth),
		property.WithLogging(c.ChangeLog),
	}
}
