// Package cache abstracts the key store that keeps the active session
// descriptor across gateway restarts.
package cache

import (
	"context"
	"time"
)

// Type selects the persistence backend.
type Type string

const (
	// TypeNone keeps sessions in memory only.
	TypeNone Type = "none"
	// TypeRedis persists the sealed descriptor in Redis.
	TypeRedis Type = "redis"
)

// Cache stores opaque byte values with expiry.
type Cache interface {
	// Get returns nil, nil for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set uses the backend default expiry when ttl is 0.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete reports whether a value was removed.
	Delete(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}
