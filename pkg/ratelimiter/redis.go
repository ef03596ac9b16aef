package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rate:"

// Redis is a fixed-window limiter with counters shared across instances.
// INCR is atomic server-side, so concurrent requests through different app
// instances still count correctly.
type Redis struct {
	client *redis.Client
	cfg    Config

	now func() time.Time
}

// RedisOption configures a Redis limiter.
type RedisOption func(*Redis)

// WithRedisClock injects a clock for tests.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(r *Redis) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRedis creates a Redis-backed limiter. Invalid config values fall back to
// the defaults.
func NewRedis(client *redis.Client, cfg Config, opts ...RedisOption) *Redis {
	if client == nil {
		panic("ratelimiter: redis client is required")
	}
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}

	r := &Redis{client: client, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Allow consumes one unit of quota for the key. Store failures return
// ErrStoreUnavailable; the caller chooses the failure mode.
func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := redisKeyPrefix + key

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, err)
	}

	// First hit in a window starts its expiry clock.
	if count == 1 {
		if err := r.client.PExpire(ctx, redisKey, r.cfg.Window).Err(); err != nil {
			return Result{}, errors.Join(ErrStoreUnavailable, err)
		}
	}

	now := r.now()
	resetAt := now.Add(r.cfg.Window)
	if ttl, err := r.client.PTTL(ctx, redisKey).Result(); err == nil && ttl > 0 {
		resetAt = now.Add(ttl)
	}

	return Result{
		Limit:     r.cfg.Limit,
		Remaining: r.cfg.Limit - int(count),
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for a key.
func (r *Redis) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
