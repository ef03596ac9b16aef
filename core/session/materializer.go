package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionkit/core/token"
)

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 25 * time.Millisecond
)

// Materializer decodes incoming token blobs into Records with a bounded,
// synchronous retry around transient decode failures.
type Materializer struct {
	codec       token.Codec
	maxAttempts int
	backoff     time.Duration
	now         func() time.Time
	sleep       func(context.Context, time.Duration) error
	logger      *slog.Logger
}

// MaterializerOption configures a Materializer.
type MaterializerOption func(*Materializer)

// WithMaxAttempts bounds the decode retry count (minimum 1).
func WithMaxAttempts(n int) MaterializerOption {
	return func(m *Materializer) {
		if n >= 1 {
			m.maxAttempts = n
		}
	}
}

// WithRetryBackoff sets the base backoff between decode attempts. Attempt k
// waits k times this duration, keeping the total added latency small and
// fixed.
func WithRetryBackoff(d time.Duration) MaterializerOption {
	return func(m *Materializer) {
		if d >= 0 {
			m.backoff = d
		}
	}
}

// WithMaterializerClock injects a clock for tests.
func WithMaterializerClock(now func() time.Time) MaterializerOption {
	return func(m *Materializer) {
		if now != nil {
			m.now = now
		}
	}
}

// WithMaterializerLogger sets the logger for decode diagnostics.
func WithMaterializerLogger(logger *slog.Logger) MaterializerOption {
	return func(m *Materializer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMaterializer creates a Materializer around the given codec.
func NewMaterializer(codec token.Codec, opts ...MaterializerOption) *Materializer {
	if codec == nil {
		panic("session: codec is required")
	}

	m := &Materializer{
		codec:       codec,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultRetryBackoff,
		now:         time.Now,
		sleep:       sleepCtx,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Materialize turns a raw token blob into a Record. Expired tokens fail
// immediately; other decode failures are retried with a short increasing
// backoff before the token is declared unusable. Exhausting the budget
// degrades to "no session" instead of blocking the request.
func (m *Materializer) Materialize(ctx context.Context, raw string) (Record, error) {
	if raw == "" {
		return Record{}, ErrNoToken
	}

	var lastErr error

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		claims, err := m.codec.Decode(raw)
		if err == nil {
			now := m.now()
			if !claims.ExpiresAt.After(now) {
				return Record{}, ErrExpired
			}
			if attempt > 1 {
				m.logger.DebugContext(ctx, "token decode recovered", "attempt", attempt)
			}
			return newRecord(claims, now), nil
		}

		if errors.Is(err, token.ErrTokenExpired) {
			return Record{}, errors.Join(ErrExpired, err)
		}

		lastErr = err
		m.logger.WarnContext(ctx, "token decode failed",
			"attempt", attempt, "max_attempts", m.maxAttempts, "error", err)

		if attempt < m.maxAttempts {
			if err := m.sleep(ctx, time.Duration(attempt)*m.backoff); err != nil {
				return Record{}, errors.Join(ErrTokenUnusable, err)
			}
		}
	}

	return Record{}, errors.Join(ErrTokenUnusable, lastErr)
}

// sleepCtx waits for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
