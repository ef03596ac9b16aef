package redirect

import (
	"sync"
	"time"
)

const (
	defaultCooldown   = 3 * time.Second
	defaultMaxTracked = 32
)

// Guard tracks recent redirect attempts and refuses repeats inside a short
// cooldown window. It is process-local and safe for concurrent use.
type Guard struct {
	mu       sync.Mutex
	attempts map[attemptKey]time.Time

	cooldown   time.Duration
	maxTracked int
	now        func() time.Time
}

type attemptKey struct {
	target  string
	context string
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithCooldown sets the window during which a repeat (target, context) pair
// is refused.
func WithCooldown(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.cooldown = d
		}
	}
}

// WithMaxTracked bounds the attempt history size (minimum 1).
func WithMaxTracked(n int) GuardOption {
	return func(g *Guard) {
		if n >= 1 {
			g.maxTracked = n
		}
	}
}

// WithGuardClock injects a clock for tests.
func WithGuardClock(now func() time.Time) GuardOption {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGuard creates a Guard with a 3 second cooldown and room for 32 tracked
// attempts.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{
		attempts:   make(map[attemptKey]time.Time),
		cooldown:   defaultCooldown,
		maxTracked: defaultMaxTracked,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// CanRedirect reports whether a redirect to target in the given context is
// allowed right now. An allowed call records the attempt, so an immediate
// identical retry is refused until the cooldown elapses.
func (g *Guard) CanRedirect(target, context string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	key := attemptKey{target: target, context: context}

	if last, ok := g.attempts[key]; ok && now.Sub(last) < g.cooldown {
		return false
	}

	g.pruneLocked(now)
	g.attempts[key] = now
	return true
}

// ClearAll resets the attempt history. Called after a successful
// authentication transition.
func (g *Guard) ClearAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	clear(g.attempts)
}

// Size returns the number of tracked attempts.
func (g *Guard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.attempts)
}

// pruneLocked drops expired entries, then evicts the oldest until there is
// room for one more.
func (g *Guard) pruneLocked(now time.Time) {
	for key, last := range g.attempts {
		if now.Sub(last) >= g.cooldown {
			delete(g.attempts, key)
		}
	}

	for len(g.attempts) >= g.maxTracked {
		var oldestKey attemptKey
		var oldest time.Time
		first := true
		for key, last := range g.attempts {
			if first || last.Before(oldest) {
				oldestKey, oldest = key, last
				first = false
			}
		}
		delete(g.attempts, oldestKey)
	}
}
