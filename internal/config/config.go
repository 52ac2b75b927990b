// Package config loads run configuration for the fuzz harness.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is one harness invocation's fixed parameters.
type Config struct {
	// Trials is the default trial count per check. Checks with their own
	// count keep it.
	Trials int `yaml:"trials"`

	// Workers is the worker pool size. Zero means one worker per CPU.
	Workers int `yaml:"workers"`

	// Checks names the catalogue checks to run. Empty means all.
	Checks []string `yaml:"checks,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Artifacts configures the failure sinks.
	Artifacts Artifacts `yaml:"artifacts"`
}

// Artifacts selects where failure artifacts are persisted. Both sinks are
// optional; failures are always logged.
type Artifacts struct {
	// Dir receives one JSON file per artifact.
	Dir string `yaml:"dir,omitempty"`

	// Database is the path of the SQLite artifact store.
	Database string `yaml:"database,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Trials:   1000,
		LogLevel: "info",
	}
}

// Load reads a YAML configuration file. Unknown fields are rejected so a
// typoed key fails loudly instead of silently running with defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration's invariants.
func (c *Config) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a config log level to slog.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
