// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and RATING_* environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/okian/rating/internal/adapters/storage"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// StorageDriver selects the player table backend: file or redis.
	StorageDriver string `koanf:"storage_driver"`

	// DataPath is the players file used by the file driver.
	DataPath string `koanf:"data_path"`

	// FileMode is the octal permission of the players file, e.g. "0644".
	FileMode string `koanf:"file_mode"`

	// Redis connection used by the redis driver.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisKey      string `koanf:"redis_key"`

	// RankIndex serves /rating from an incrementally maintained index.
	RankIndex bool `koanf:"rank_index"`

	// MaxBodyBytes caps the size of a request body.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":8000",
		StorageDriver: storage.DriverFile,
		DataPath:      "players.json",
		FileMode:      "0644",
		RedisAddr:     "localhost:6379",
		RedisKey:      "rating:players",
		MaxBodyBytes:  1 << 20,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q must be text or json", ErrInvalidConfig, c.LogFormat)
	}
	switch c.StorageDriver {
	case storage.DriverFile:
		if strings.TrimSpace(c.DataPath) == "" {
			return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
		}
		if _, err := c.Mode(); err != nil {
			return err
		}
	case storage.DriverRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("%w: redis_addr must not be empty", ErrInvalidConfig)
		}
		if c.RedisDB < 0 {
			return fmt.Errorf("%w: redis_db must not be negative", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}

// Mode parses FileMode. An empty value yields zero, meaning the backend default.
func (c *Config) Mode() (fs.FileMode, error) {
	if c.FileMode == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(c.FileMode, 8, 32)
	if err != nil || v > 0o777 {
		return 0, fmt.Errorf("%w: file_mode %q is not an octal permission", ErrInvalidConfig, c.FileMode)
	}
	return fs.FileMode(v), nil
}

// Storage converts the storage settings for storage.Open.
func (c *Config) Storage() storage.Config {
	mode, _ := c.Mode()
	return storage.Config{
		Driver:        c.StorageDriver,
		Path:          c.DataPath,
		FileMode:      mode,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisKey:      c.RedisKey,
	}
}
