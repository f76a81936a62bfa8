// Package config loads the settings shared by every command from the
// environment. Commands layer their own flags on top.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds environment-backed defaults.
type Config struct {
	DBPath      string `env:"ECLIPSE_COMBAT_DB"`
	CatalogFile string `env:"ECLIPSE_COMBAT_CATALOG"`
	Trials      uint64 `env:"ECLIPSE_COMBAT_TRIALS" envDefault:"10000"`
	Workers     int    `env:"ECLIPSE_COMBAT_WORKERS" envDefault:"0"`
	LogLevel    string `env:"ECLIPSE_COMBAT_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"ECLIPSE_COMBAT_LOG_FORMAT" envDefault:"console"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the shared configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values after flags have been applied.
func (c Config) Validate() error {
	if c.Trials == 0 {
		return errors.New("trials must be positive")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.DBPath != "" && c.CatalogFile != "" {
		return errors.New("use either a catalog database or a catalog file, not both")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (valid: console, json)", c.LogFormat)
	}
	return nil
}
