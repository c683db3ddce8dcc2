// Package config loads love settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/love/internal/engine"
)

// Config holds the settings shared by every love command. CLI flags default
// to these values and override them.
type Config struct {
	// DB is the SQLite database path.
	DB string `env:"LOVE_DB" envDefault:"love.db"`

	// ConflictPolicy is accumulate, replace, or reject.
	ConflictPolicy string `env:"LOVE_CONFLICT_POLICY" envDefault:"accumulate"`

	// BusyRetries bounds how often a transaction is replayed after
	// SQLITE_BUSY or SQLITE_LOCKED.
	BusyRetries uint64 `env:"LOVE_BUSY_RETRIES" envDefault:"5"`

	// RecountTimeout bounds a whole recount run. Zero means no limit.
	RecountTimeout time.Duration `env:"LOVE_RECOUNT_TIMEOUT" envDefault:"0s"`

	// MetricsTextfile, when set, receives Prometheus metrics after a recount.
	MetricsTextfile string `env:"LOVE_METRICS_TEXTFILE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates Config from the environment.
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

// Defaults returns the configuration with every envDefault applied and the
// process environment ignored.
func Defaults() Config {
	var cfg Config
	// Parsing against an empty environment cannot fail: every default is
	// well-formed.
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// Validate checks values that env parsing alone cannot.
func (c Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("LOVE_DB must not be empty")
	}
	if _, err := engine.ParseConflictPolicy(c.ConflictPolicy); err != nil {
		return fmt.Errorf("LOVE_CONFLICT_POLICY: %w", err)
	}
	if c.RecountTimeout < 0 {
		return fmt.Errorf("LOVE_RECOUNT_TIMEOUT must not be negative, got %s", c.RecountTimeout)
	}
	return nil
}
