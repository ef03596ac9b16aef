package ratelimiter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Memory is a process-local fixed-window limiter. Counters live in a
// sync.Map keyed by client key; the hot path is a single atomic add, with a
// pointer CAS when a window rolls over.
type Memory struct {
	cfg     Config
	entries sync.Map // key string -> *entry

	now func() time.Time
}

type entry struct {
	win atomic.Pointer[window]
}

type window struct {
	start time.Time
	count atomic.Int64
}

// MemoryOption configures a Memory limiter.
type MemoryOption func(*Memory)

// WithMemoryClock injects a clock for tests.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an in-memory limiter. Invalid config values fall back to
// the defaults.
func NewMemory(cfg Config, opts ...MemoryOption) *Memory {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}

	m := &Memory{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allow consumes one unit of quota for the key. It never returns an error;
// the signature satisfies RateLimiter.
func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	now := m.now()

	v, _ := m.entries.LoadOrStore(key, newEntry(now))
	e := v.(*entry)

	w := e.win.Load()
	if now.Sub(w.start) >= m.cfg.Window {
		fresh := &window{start: now}
		// Exactly one roller wins; losers count against the winner's window.
		if e.win.CompareAndSwap(w, fresh) {
			w = fresh
		} else {
			w = e.win.Load()
		}
	}

	count := w.count.Add(1)
	return Result{
		Limit:     m.cfg.Limit,
		Remaining: m.cfg.Limit - int(count),
		ResetAt:   w.start.Add(m.cfg.Window),
	}, nil
}

// Start runs a periodic sweep that drops entries idle for two full windows.
// It blocks until ctx is cancelled. Optional: without it the map grows with
// the number of distinct keys seen, which is often acceptable.
func (m *Memory) Start(ctx context.Context) error {
	interval := m.cfg.Window
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.sweep()
		}
	}
}

// Size returns the number of tracked keys.
func (m *Memory) Size() int {
	n := 0
	m.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (m *Memory) sweep() {
	cutoff := m.now().Add(-2 * m.cfg.Window)
	m.entries.Range(func(key, v any) bool {
		if v.(*entry).win.Load().start.Before(cutoff) {
			m.entries.Delete(key)
		}
		return true
	})
}

func newEntry(now time.Time) *entry {
	e := &entry{}
	e.win.Store(&window{start: now})
	return e
}
