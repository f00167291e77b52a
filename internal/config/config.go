// Package config loads the servable command configuration from an optional
// YAML file overridden by SERVABLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/delaneyj/servable/reference"
	"gopkg.in/yaml.v3"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the servable command configuration.
type Config struct {
	// PrefsPath is the preference file. Relative paths are resolved against
	// BaseDir; empty selects a per-backend default file name.
	PrefsPath   string        `yaml:"prefs_path,omitempty" env:"SERVABLE_PREFS_PATH"`
	BaseDir     string        `yaml:"base_dir,omitempty" env:"SERVABLE_BASE_DIR"`
	Backend     string        `yaml:"backend,omitempty" env:"SERVABLE_BACKEND"`
	ResolverTTL time.Duration `yaml:"resolver_ttl,omitempty" env:"SERVABLE_RESOLVER_TTL"`
	LogLevel    string        `yaml:"log_level,omitempty" env:"SERVABLE_LOG_LEVEL"`
	LogFormat   string        `yaml:"log_format,omitempty" env:"SERVABLE_LOG_FORMAT"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	base := "."
	if dir, err := os.UserConfigDir(); err == nil {
		base = filepath.Join(dir, "servable")
	}
	return &Config{
		BaseDir:     base,
		Backend:     BackendJSON,
		ResolverTTL: reference.DefaultTTL,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load applies the YAML file at path, when path is not empty, and then the
// environment on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendJSON, BackendSQLite, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.ResolverTTL < 0 {
		errs = append(errs, fmt.Errorf("resolver ttl must not be negative, got %s", c.ResolverTTL))
	}
	return errors.Join(errs...)
}

// PrefsFile is the resolved preference file for the configured backend.
func (c *Config) PrefsFile() string {
	path := strings.TrimSpace(c.PrefsPath)
	if path == "" {
		path = "prefs.json"
		if c.Backend == BackendSQLite {
			path = "prefs.db"
		}
	}
	if filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}
