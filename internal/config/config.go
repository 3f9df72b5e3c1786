// Package config resolves runtime settings from an optional YAML file and
// PLANGRAPH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings.
type Config struct {
	DBPath          string `yaml:"db_path"`
	LogLevel        string `yaml:"log_level"`  // debug|info|warn|error
	LogFormat       string `yaml:"log_format"` // text|json
	LogUseCases     bool   `yaml:"log_use_cases"`
	MetricsTextfile string `yaml:"metrics_textfile"`
	// DateFormat is the Go layout used to print dates in tables.
	DateFormat string `yaml:"date_format"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		DBPath:     filepath.Join(homeDir(), ".plangraph", "plangraph.db"),
		LogLevel:   "warn",
		LogFormat:  "text",
		DateFormat: "2006-01-02",
	}
}

// DefaultPath returns the config file location: PLANGRAPH_CONFIG when set,
// otherwise ~/.plangraph/config.yaml.
func DefaultPath() string {
	if v := os.Getenv("PLANGRAPH_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(homeDir(), ".plangraph", "config.yaml")
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PLANGRAPH_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PLANGRAPH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PLANGRAPH_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("PLANGRAPH_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogUseCases = b
		}
	}
	if v := os.Getenv("PLANGRAPH_METRICS_TEXTFILE"); v != "" {
		cfg.MetricsTextfile = v
	}
	if v := os.Getenv("PLANGRAPH_DATE_FORMAT"); v != "" {
		cfg.DateFormat = v
	}
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format must be text or json, got %q", c.LogFormat)
	}
	if c.DateFormat == "" {
		return fmt.Errorf("config: date_format is required")
	}
	return nil
}

// SlogLevel converts LogLevel to a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
