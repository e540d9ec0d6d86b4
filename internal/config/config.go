// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds everything cmd/server needs to start.
type Config struct {
	Addr      string `env:"CYPHER_ADDR" envDefault:":8080"`
	DBPath    string `env:"CYPHER_DB_PATH"`    // empty keeps records in memory
	WorldPath string `env:"CYPHER_WORLD_PATH"` // optional YAML seed
	LogLevel  string `env:"CYPHER_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"CYPHER_LOG_FORMAT" envDefault:"json"`
	GMName    string `env:"CYPHER_GM_NAME" envDefault:"GM"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the server configuration.
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

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, "CYPHER_ADDR must not be empty")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("CYPHER_LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	if strings.TrimSpace(c.GMName) == "" {
		errs = append(errs, "CYPHER_GM_NAME must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Persistent reports whether records go to a database file.
func (c Config) Persistent() bool {
	return c.DBPath != ""
}
