package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "picksomething:search:"

// Redis is a Store shared between processes. Redis errors are logged and
// treated as misses so a broken cache never fails a search.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis connects lazily to the Redis server at addr.
func NewRedis(addr, password string, ttl time.Duration, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
		ttl:    ttl,
		logger: logger,
	}
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}
	return data, true
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, keyPrefix+key, value, r.ttl).Err(); err != nil {
		r.logger.Warn("redis cache write failed", slog.String("error", err.Error()))
	}
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
