// Package cache stores encoded search results keyed by catalog and query.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Store is a byte cache with store-defined expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Lookup decodes a cached JSON value into out. Decode failures count as a miss.
func Lookup(ctx context.Context, s Store, key string, out any) bool {
	if s == nil {
		return false
	}
	data, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Default().Debug("discarding undecodable cache entry", slog.String("key", key))
		return false
	}
	return true
}

// Save encodes v as JSON and stores it. A nil store is a no-op.
func Save(ctx context.Context, s Store, key string, v any) {
	if s == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.Set(ctx, key, data)
}

// New returns the store selected by the settings: nil when ttl is zero,
// a Redis store when redisAddr is set, otherwise an in-process store.
func New(ttl time.Duration, redisAddr, redisPassword string, logger *slog.Logger) Store {
	if ttl <= 0 {
		return nil
	}
	if redisAddr != "" {
		return NewRedis(redisAddr, redisPassword, ttl, logger)
	}
	return NewMemory(ttl)
}
