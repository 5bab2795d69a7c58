// Package config loads newsmeme settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends accepted by server.store.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the root configuration shared by the client commands and serve.
type Config struct {
	// BaseURL resolves relative action URLs and redirect targets.
	BaseURL string `yaml:"base_url"`

	// User is sent as the X-User header on every action.
	User string `yaml:"user"`

	Timeout time.Duration `yaml:"timeout"`

	// TransportFailureMessage, when set, is shown on failed round trips.
	TransportFailureMessage string `yaml:"transport_failure_message"`

	LogLevel string `yaml:"log_level"`

	Server ServerConfig `yaml:"server"`
}

type ServerConfig struct {
	Addr   string       `yaml:"addr"`
	Store  string       `yaml:"store"`
	Seed   bool         `yaml:"seed"`
	Redis  RedisConfig  `yaml:"redis"`
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Moderators may delete any post or comment.
	Moderators []string `yaml:"moderators"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{Server: ServerConfig{Seed: true}}
	applyDefaults(&cfg)
	return cfg
}

// Load reads path, expands ${ENV} references and applies defaults.
// Keys missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	cfg.Server.Store = strings.ToLower(strings.TrimSpace(cfg.Server.Store))
	if cfg.Server.Store == "" {
		cfg.Server.Store = StoreMemory
	}
	if cfg.Server.Redis.Addr == "" {
		cfg.Server.Redis.Addr = "localhost:6379"
	}
	if cfg.Server.Redis.Prefix == "" {
		cfg.Server.Redis.Prefix = "newsmeme:"
	}
	if cfg.Server.SQLite.Path == "" {
		cfg.Server.SQLite.Path = "newsmeme.db"
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	switch c.Server.Store {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("server.store: unknown backend %q", c.Server.Store))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout: must not be negative"))
	}
	return errors.Join(errs...)
}
