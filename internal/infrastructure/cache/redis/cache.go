// Package redis backs the session descriptor store with Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultConnectTimeout = 5 * time.Second

// Config locates the Redis server and sets expiry defaults.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int

	// DefaultTTL applies to Set calls made with a zero ttl.
	DefaultTTL     time.Duration
	// ConnectTimeout bounds the initial ping; 0 means five seconds.
	ConnectTimeout time.Duration
}

func (c Config) addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Cache is a byte-oriented key store on top of go-redis.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache dials Redis and fails unless the server answers a ping.
func NewCache(ctx context.Context, cfg Config) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := rdb.Ping(probeCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis at %s unreachable: %w", cfg.addr(), err)
	}

	return &Cache{rdb: rdb, ttl: cfg.DefaultTTL}, nil
}

// Get returns the stored bytes, or nil without error for a missing key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, opError("get", key, err)
	}
	return raw, nil
}

// Set writes value under key. A zero ttl falls back to the configured default.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	return opError("set", key, c.rdb.Set(ctx, key, value, ttl).Err())
}

// Delete drops key and reports whether it existed.
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, opError("del", key, err)
	}
	return n == 1, nil
}

// Ping probes the server.
func (c *Cache) Ping(ctx context.Context) error {
	return opError("ping", "", c.rdb.Ping(ctx).Err())
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return opError("close", "", c.rdb.Close())
}

func opError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if key == "" {
		return fmt.Errorf("redis %s: %w", op, err)
	}
	return fmt.Errorf("redis %s %q: %w", op, key, err)
}
