// Package common provides shared utilities for ledgerd
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for ledgerd
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Lock        LockConfig    `toml:"lock"`
	Sweep       SweepConfig   `toml:"sweep"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"` // requests per second, 0 disables limiting
}

// StorageConfig holds the ledger database path.
type StorageConfig struct {
	Path string `toml:"path"`
}

// LockConfig selects the lock manager backend. When RedisAddr is empty the
// in-process manager is used; otherwise leases are held in Redis.
type LockConfig struct {
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// SweepConfig holds pending-transaction sweep scheduling.
type SweepConfig struct {
	Interval string `toml:"interval"` // duration string, default "24h"
}

// GetInterval parses and returns the sweep interval duration.
func (c *SweepConfig) GetInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			RateLimit: 0,
		},
		Storage: StorageConfig{
			Path: "data/ledger",
		},
		Sweep: SweepConfig{
			Interval: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LEDGERD_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("LEDGERD_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("LEDGERD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("LEDGERD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("LEDGERD_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Join(path, "ledger")
	}

	if addr := os.Getenv("LEDGERD_REDIS_ADDR"); addr != "" {
		config.Lock.RedisAddr = addr
	}

	if iv := os.Getenv("LEDGERD_SWEEP_INTERVAL"); iv != "" {
		config.Sweep.Interval = iv
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
