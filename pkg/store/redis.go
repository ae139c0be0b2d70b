package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the part of *redis.Client the driver uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisDriver keeps each collection under <prefix><collection> as a plain string key.
type RedisDriver struct {
	client RedisClient
	prefix string
}

// NewRedisDriver wraps an already connected client.
func NewRedisDriver(client RedisClient, prefix string) *RedisDriver {
	return &RedisDriver{client: client, prefix: prefix}
}

// Name implements Driver.
func (d *RedisDriver) Name() string { return "redis" }

// Key returns the redis key holding a collection.
func (d *RedisDriver) Key(collection string) string {
	return d.prefix + collection
}

// Read implements Driver.
func (d *RedisDriver) Read(ctx context.Context, collection string) ([]byte, error) {
	raw, err := d.client.Get(ctx, d.Key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return raw, err
}

// Write implements Driver.
func (d *RedisDriver) Write(ctx context.Context, collection string, payload []byte) error {
	return d.client.Set(ctx, d.Key(collection), payload, 0).Err()
}

// Close implements Driver.
func (d *RedisDriver) Close() error {
	return d.client.Close()
}
