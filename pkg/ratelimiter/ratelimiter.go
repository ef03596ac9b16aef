package ratelimiter

import (
	"context"
	"time"
)

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	// Allow consumes one unit of quota for the key and reports the outcome.
	Allow(ctx context.Context, key string) (Result, error)
}

// Config holds the fixed-window parameters.
type Config struct {
	// Limit is the number of requests allowed per window.
	Limit int `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	// Window is the counting interval.
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// DefaultConfig returns 100 requests per minute.
func DefaultConfig() Config {
	return Config{Limit: 100, Window: time.Minute}
}

// Validate checks the config for usable values.
func (c Config) Validate() error {
	if c.Limit <= 0 || c.Window <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Result describes the outcome of one Allow call.
type Result struct {
	// Limit is the configured per-window quota.
	Limit int
	// Remaining is the quota left in the current window. Negative once the
	// limit is exhausted.
	Remaining int
	// ResetAt is when the current window ends and the quota replenishes.
	ResetAt time.Time
}

// Allowed reports whether the request may proceed.
func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long the caller should wait before retrying.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if d := r.ResetAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
