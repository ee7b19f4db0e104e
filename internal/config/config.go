// Package config holds process configuration. Values are layered: built-in
// defaults, then an optional YAML file, then MOMENTUM_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type DatabaseConfig struct {
	// Path is the SQLite file; ":memory:" keeps everything in process.
	Path string `yaml:"path"`
}

// NATSConfig configures the broker used for notifications and the issue order
// bucket. An empty URL keeps both local: notifications are logged and the
// order bucket lives in the SQLite database.
type NATSConfig struct {
	URL           string        `yaml:"url"`
	OrderBucket   string        `yaml:"order_bucket"`
	NotifySubject string        `yaml:"notify_subject"`
	Timeout       time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // auto, json or text
}

type MetricsConfig struct {
	// Textfile, when set, receives the metric registry in Prometheus text
	// format when the process exits.
	Textfile string `yaml:"textfile"`
}

func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: defaultDBPath()},
		NATS: NATSConfig{
			OrderBucket:   "momentum-issue-order",
			NotifySubject: "momentum.notify",
			Timeout:       5 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "auto"},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".momentum", "momentum.db")
	}
	return filepath.Join(home, ".momentum", "momentum.db")
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"auto": true, "json": true, "text": true}
)

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.NATS.URL != "" {
		if c.NATS.OrderBucket == "" {
			return fmt.Errorf("nats.order_bucket is required when nats.url is set")
		}
		if c.NATS.NotifySubject == "" {
			return fmt.Errorf("nats.notify_subject is required when nats.url is set")
		}
	}
	if c.NATS.Timeout <= 0 {
		return fmt.Errorf("nats.timeout must be positive")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		return fmt.Errorf("log.format %q must be one of auto, json, text", c.Log.Format)
	}
	return nil
}

// LoadFromFile reads a YAML file on top of an empty config; Merge applies it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Merge overlays every non-zero field of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Database.Path != "" {
		c.Database.Path = other.Database.Path
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.OrderBucket != "" {
		c.NATS.OrderBucket = other.NATS.OrderBucket
	}
	if other.NATS.NotifySubject != "" {
		c.NATS.NotifySubject = other.NATS.NotifySubject
	}
	if other.NATS.Timeout != 0 {
		c.NATS.Timeout = other.NATS.Timeout
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}

	if other.Metrics.Textfile != "" {
		c.Metrics.Textfile = other.Metrics.Textfile
	}
}

// ApplyEnv overrides fields from MOMENTUM_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("MOMENTUM_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("MOMENTUM_NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv("MOMENTUM_NATS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.NATS.Timeout = d
		}
	}
	if v := os.Getenv("MOMENTUM_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MOMENTUM_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("MOMENTUM_METRICS_FILE"); v != "" {
		c.Metrics.Textfile = v
	}
}
