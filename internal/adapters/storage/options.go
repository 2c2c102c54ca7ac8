package storage

import "os"

// FileOption configures a FileBackend.
type FileOption func(*FileBackend)

// WithFileMode sets the permission bits of the data file.
func WithFileMode(mode os.FileMode) FileOption {
	return func(b *FileBackend) {
		if mode != 0 {
			b.mode = mode
		}
	}
}

// WithCreateDir makes the backend create the parent directory on open.
func WithCreateDir(create bool) FileOption {
	return func(b *FileBackend) {
		b.createDir = create
	}
}

// RedisOption configures a RedisBackend.
type RedisOption func(*redisOptions)

type redisOptions struct {
	password string
	db       int
}

// WithPassword sets the Redis AUTH password.
func WithPassword(password string) RedisOption {
	return func(o *redisOptions) {
		o.password = password
	}
}

// WithDB selects the Redis logical database.
func WithDB(db int) RedisOption {
	return func(o *redisOptions) {
		if db >= 0 {
			o.db = db
		}
	}
}
