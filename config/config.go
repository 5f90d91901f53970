// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting the CLI reads from SEATRESERVE_* variables.
// Command-line flags override these values.
type Config struct {
	Dataset     string        `env:"SEATRESERVE_DATASET"`
	URL         string        `env:"SEATRESERVE_URL"`
	RevealDelay time.Duration `env:"SEATRESERVE_REVEAL_DELAY" envDefault:"200ms"`
	LogFile     string        `env:"SEATRESERVE_LOG_FILE"`
	Mouse       bool          `env:"SEATRESERVE_MOUSE" envDefault:"true"`
	NoCache     bool          `env:"SEATRESERVE_NO_CACHE"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.RevealDelay < 0 {
		return Config{}, fmt.Errorf("reveal delay must not be negative: %s", cfg.RevealDelay)
	}
	return cfg, nil
}

// Source is the label used for caches and history: the URL, the dataset
// path or the bundled dataset, in that order of precedence.
func (c Config) Source(bundled string) string {
	switch {
	case c.URL != "":
		return c.URL
	case c.Dataset != "":
		return c.Dataset
	default:
		return bundled
	}
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
