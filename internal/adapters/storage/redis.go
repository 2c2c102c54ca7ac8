package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "rating:players"

// RedisBackend keeps the blob under a single Redis key. SET replaces the
// value atomically, so readers never observe a partial table.
type RedisBackend struct {
	client *redis.Client
	key    string
	owned  bool
}

// NewRedisBackend wraps an existing client. The caller keeps ownership of
// the client; Close does not close it.
func NewRedisBackend(client *redis.Client, key string) *RedisBackend {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisBackend{client: client, key: key}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, key string, opts ...RedisOption) (*RedisBackend, error) {
	if addr == "" {
		return nil, errors.New("storage: empty redis address")
	}
	var o redisOptions
	for _, opt := range opts {
		opt(&o)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: o.password,
		DB:       o.db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage: ping redis %s: %w", addr, err)
	}
	b := NewRedisBackend(client, key)
	b.owned = true
	return b, nil
}

func (b *RedisBackend) String() string {
	return fmt.Sprintf("redis://%s/%s", b.client.Options().Addr, b.key)
}

// Read returns the stored blob or ErrNotExist when the key is absent.
func (b *RedisBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("storage: get %s: %w", b.key, err)
	}
	return data, nil
}

// Write replaces the stored blob.
func (b *RedisBackend) Write(ctx context.Context, data []byte) error {
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("storage: set %s: %w", b.key, err)
	}
	return nil
}

// Close closes the client when the backend dialed it.
func (b *RedisBackend) Close() error {
	if !b.owned {
		return nil
	}
	if err := b.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
