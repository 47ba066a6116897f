// Package cache provides the Redis cache access layer.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent or unreadable.
var ErrCacheMiss = errors.New("cache miss")

// Default TTLs.
const (
	DefaultSetTTL  = 10 * time.Minute
	DefaultAuthTTL = 5 * time.Minute
)

// Options tunes cache entry lifetimes. Zero values fall back to the defaults.
type Options struct {
	SetTTL  time.Duration
	AuthTTL time.Duration
}

// Cache provides Redis cache access methods.
type Cache struct {
	client  *redis.Client
	setTTL  time.Duration
	authTTL time.Duration
}

// New creates a new Cache with a Redis client.
func New(ctx context.Context, redisURL string, opts Options) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewWithClient(client, opts), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, opts Options) *Cache {
	c := &Cache{client: client, setTTL: opts.SetTTL, authTTL: opts.AuthTTL}
	if c.setTTL <= 0 {
		c.setTTL = DefaultSetTTL
	}
	if c.authTTL <= 0 {
		c.authTTL = DefaultAuthTTL
	}
	return c
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client.
// Use sparingly - prefer adding methods to Cache.
func (c *Cache) Client() *redis.Client {
	return c.client
}
