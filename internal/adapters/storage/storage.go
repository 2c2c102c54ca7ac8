// Package storage provides durable single-blob backends for the player table.
//
// A backend stores exactly one blob. Write replaces it atomically: readers
// observe either the previous or the new contents, never a partial write.
package storage

import (
	"context"
	"fmt"
	"os"
)

// Driver names accepted by Open.
const (
	DriverFile  = "file"
	DriverRedis = "redis"
)

// Backend reads and replaces a single blob.
type Backend interface {
	// Read returns the current blob, or ErrNotExist if none was written.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the blob atomically.
	Write(ctx context.Context, data []byte) error
	// Close releases any held resources.
	Close() error
	// String describes the location for logs.
	String() string
}

// Config selects and parameterizes a backend.
type Config struct {
	Driver        string
	Path          string
	FileMode      os.FileMode
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
}

// Open constructs the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Driver {
	case "", DriverFile:
		opts := []FileOption{WithCreateDir(true)}
		if cfg.FileMode != 0 {
			opts = append(opts, WithFileMode(cfg.FileMode))
		}
		b, err := NewFileBackend(cfg.Path, opts...)
		if err != nil {
			return nil, err
		}
		return b, nil
	case DriverRedis:
		b, err := DialRedis(ctx, cfg.RedisAddr, cfg.RedisKey,
			WithPassword(cfg.RedisPassword),
			WithDB(cfg.RedisDB),
		)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
