package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/unifiedui/mongo-viewer/internal/core/cache"
	"github.com/unifiedui/mongo-viewer/internal/pkg/encryption"
)

const (
	// ActiveSessionKey is the cache key of the persisted descriptor.
	ActiveSessionKey = "mongoviewer:session:active"

	// DefaultSessionTTL is how long a persisted descriptor survives.
	DefaultSessionTTL = 24 * time.Hour
)

// Store persists the descriptor of the active session across restarts.
type Store interface {
	// Save stores the descriptor, replacing any previous one.
	Save(ctx context.Context, descriptor string) error
	// Load returns the stored descriptor, or "" when none is stored.
	Load(ctx context.Context) (string, error)
	// Clear removes the stored descriptor.
	Clear(ctx context.Context) error
}

// StoreConfig holds the configuration for a cache-backed store.
type StoreConfig struct {
	Cache     cache.Cache
	Encryptor encryption.Encryptor
	TTL       time.Duration
}

// CacheStore keeps the descriptor sealed in a cache.
type CacheStore struct {
	cache     cache.Cache
	encryptor encryption.Encryptor
	ttl       time.Duration
}

// NewCacheStore creates a new cache-backed store.
func NewCacheStore(cfg *StoreConfig) (*CacheStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if cfg.Encryptor == nil {
		return nil, fmt.Errorf("encryptor is required")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &CacheStore{
		cache:     cfg.Cache,
		encryptor: cfg.Encryptor,
		ttl:       ttl,
	}, nil
}

// Save seals and stores the descriptor.
func (s *CacheStore) Save(ctx context.Context, descriptor string) error {
	sealed, err := s.encryptor.Seal([]byte(descriptor), ActiveSessionKey)
	if err != nil {
		return fmt.Errorf("failed to seal descriptor: %w", err)
	}

	if err := s.cache.Set(ctx, ActiveSessionKey, []byte(sealed), s.ttl); err != nil {
		return fmt.Errorf("failed to store descriptor: %w", err)
	}
	return nil
}

// Load returns the stored descriptor.
// An entry that no longer opens (for example after a key change) is dropped.
func (s *CacheStore) Load(ctx context.Context) (string, error) {
	sealed, err := s.cache.Get(ctx, ActiveSessionKey)
	if err != nil {
		return "", fmt.Errorf("failed to read descriptor: %w", err)
	}
	if sealed == nil {
		return "", nil
	}

	descriptor, err := s.encryptor.Open(string(sealed), ActiveSessionKey)
	if err != nil {
		log.Warn().Err(err).Msg("dropping unreadable session descriptor")
		_, _ = s.cache.Delete(ctx, ActiveSessionKey)
		return "", nil
	}

	return string(descriptor), nil
}

// Clear removes the stored descriptor.
func (s *CacheStore) Clear(ctx context.Context) error {
	if _, err := s.cache.Delete(ctx, ActiveSessionKey); err != nil {
		return fmt.Errorf("failed to clear descriptor: %w", err)
	}
	return nil
}
