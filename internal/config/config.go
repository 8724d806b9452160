// Package config loads vestd configuration from a YAML file with
// environment-variable overrides. Flags beat env, env beats file,
// file beats defaults; the CLI layers the flag step on top.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the vestd runtime configuration.
type Config struct {
	// Database is the path to the SQLite ledger database.
	Database string `yaml:"database"`

	// Admin is the administrator account for the static access
	// policy. Empty means no caller passes the administrator check.
	Admin string `yaml:"admin"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: "vestd.db",
		LogLevel: "info",
	}
}

// Load reads the config file at path (skipped when path is empty or
// the file does not exist) and applies VESTD_* env overrides on top
// of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file is fine; env and flags may carry everything.
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VESTD_DATABASE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("VESTD_ADMIN"); v != "" {
		cfg.Admin = v
	}
	if v := os.Getenv("VESTD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func (c Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log_level %q (want debug|info|warn|error)", c.LogLevel)
	}
}
