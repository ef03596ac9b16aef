package monitor

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// EventType classifies an authentication lifecycle event.
type EventType string

const (
	EventLogin    EventType = "login"
	EventLogout   EventType = "logout"
	EventError    EventType = "error"
	EventConflict EventType = "conflict"
)

// Event is a single ephemeral auth lifecycle record. All identity fields are
// optional; an event with only a type and timestamp is valid.
type Event struct {
	Type      EventType
	UserID    string
	SessionID string
	DeviceID  string
	Error     string
	Timestamp time.Time
}

// Stats aggregates events within a trailing window.
type Stats struct {
	Total         int
	ByType        map[EventType]int
	UniqueUsers   int
	UniqueDevices int
}

const (
	defaultCapacity       = 50
	defaultStatsWindow    = 30 * time.Minute
	defaultBurstWindow    = 30 * time.Second
	defaultBurstThreshold = 10
)

// Monitor is a fixed-capacity FIFO ring of Events. Appends are O(1) under a
// short mutex; the buffer never allocates after construction.
type Monitor struct {
	mu   sync.Mutex
	buf  []Event
	head int
	size int

	burstThreshold int
	burstWindow    time.Duration

	now     func() time.Time
	verbose bool
	logger  *slog.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithCapacity sets the ring capacity (minimum 1).
func WithCapacity(n int) Option {
	return func(m *Monitor) {
		if n >= 1 {
			m.buf = make([]Event, n)
		}
	}
}

// WithBurstThreshold sets the error count that triggers a synthesized
// conflict event.
func WithBurstThreshold(n int) Option {
	return func(m *Monitor) {
		if n >= 1 {
			m.burstThreshold = n
		}
	}
}

// WithBurstWindow sets the trailing window for error burst detection.
func WithBurstWindow(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.burstWindow = d
		}
	}
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// WithVerbose enables per-event log emission. The ring behaves identically
// either way.
func WithVerbose(verbose bool) Option {
	return func(m *Monitor) {
		m.verbose = verbose
	}
}

// WithLogger sets the logger used for verbose emission.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Monitor with the default capacity of 50 events.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		buf:            make([]Event, defaultCapacity),
		burstThreshold: defaultBurstThreshold,
		burstWindow:    defaultBurstWindow,
		now:            time.Now,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// LogEvent appends an event, evicting the oldest entry once the ring is full.
// A zero Timestamp is stamped with the current time. When the trailing error
// count reaches the burst threshold exactly, one conflict event is appended
// alongside it; subsequent errors above the threshold do not repeat it.
func (m *Monitor) LogEvent(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = m.now()
	}

	m.append(e)

	if m.verbose {
		m.logger.Debug("auth event",
			"type", string(e.Type), "user_id", e.UserID,
			"session_id", e.SessionID, "device_id", e.DeviceID,
			"error", e.Error)
	}

	if e.Type == EventError && m.errorCountLocked(e.Timestamp) == m.burstThreshold {
		m.append(Event{
			Type:      EventConflict,
			UserID:    e.UserID,
			Error:     "error burst detected",
			Timestamp: e.Timestamp,
		})
		m.logger.Warn("auth error burst",
			"threshold", m.burstThreshold, "window", m.burstWindow)
	}
}

// Stats aggregates events within the trailing window. A non-positive window
// falls back to the default of 30 minutes.
func (m *Monitor) Stats(window time.Duration) Stats {
	if window <= 0 {
		window = defaultStatsWindow
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-window)
	stats := Stats{ByType: make(map[EventType]int)}
	users := make(map[string]struct{})
	devices := make(map[string]struct{})

	for i := 0; i < m.size; i++ {
		e := m.buf[(m.head+i)%len(m.buf)]
		if e.Timestamp.Before(cutoff) {
			continue
		}
		stats.Total++
		stats.ByType[e.Type]++
		if e.UserID != "" {
			users[e.UserID] = struct{}{}
		}
		if e.DeviceID != "" {
			devices[e.DeviceID] = struct{}{}
		}
	}

	stats.UniqueUsers = len(users)
	stats.UniqueDevices = len(devices)
	return stats
}

// Events returns a copy of the buffered events, oldest first.
func (m *Monitor) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, m.size)
	for i := 0; i < m.size; i++ {
		out[i] = m.buf[(m.head+i)%len(m.buf)]
	}
	return out
}

// Size returns the current number of buffered events.
func (m *Monitor) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// Clear drops all buffered events.
func (m *Monitor) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.head = 0
	m.size = 0
}

func (m *Monitor) append(e Event) {
	if m.size < len(m.buf) {
		m.buf[(m.head+m.size)%len(m.buf)] = e
		m.size++
		return
	}
	m.buf[m.head] = e
	m.head = (m.head + 1) % len(m.buf)
}

func (m *Monitor) errorCountLocked(now time.Time) int {
	cutoff := now.Add(-m.burstWindow)
	count := 0
	for i := 0; i < m.size; i++ {
		e := m.buf[(m.head+i)%len(m.buf)]
		if e.Type == EventError && !e.Timestamp.Before(cutoff) {
			count++
		}
	}
	return count
}
