package monitor_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/core/monitor"
)

func TestMonitor_FIFOEviction(t *testing.T) {
	t.Parallel()

	const capacity = 50
	const overflow = 7

	mon := monitor.New(monitor.WithCapacity(capacity))

	for i := 0; i < capacity+overflow; i++ {
		mon.LogEvent(monitor.Event{
			Type:   monitor.EventLogin,
			UserID: fmt.Sprintf("user-%03d", i),
		})
	}

	require.Equal(t, capacity, mon.Size())

	events := mon.Events()
	require.Len(t, events, capacity)

	// The overflow oldest entries are gone; the survivors are in order.
	assert.Equal(t, fmt.Sprintf("user-%03d", overflow), events[0].UserID)
	assert.Equal(t, fmt.Sprintf("user-%03d", capacity+overflow-1), events[capacity-1].UserID)
}

func TestMonitor_Stats(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	now := base
	mon := monitor.New(monitor.WithClock(func() time.Time { return now }))

	script := []monitor.Event{
		{Type: monitor.EventLogin, UserID: "u1", DeviceID: "dev_1", Timestamp: base.Add(-40 * time.Minute)},
		{Type: monitor.EventLogin, UserID: "u1", DeviceID: "dev_2", Timestamp: base.Add(-20 * time.Minute)},
		{Type: monitor.EventLogin, UserID: "u2", DeviceID: "dev_3", Timestamp: base.Add(-10 * time.Minute)},
		{Type: monitor.EventLogout, UserID: "u1", DeviceID: "dev_2", Timestamp: base.Add(-5 * time.Minute)},
		{Type: monitor.EventError, Timestamp: base.Add(-time.Minute)},
	}
	for _, e := range script {
		mon.LogEvent(e)
	}

	stats := mon.Stats(30 * time.Minute)

	// The 40-minute-old login is outside the window.
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ByType[monitor.EventLogin])
	assert.Equal(t, 1, stats.ByType[monitor.EventLogout])
	assert.Equal(t, 1, stats.ByType[monitor.EventError])
	assert.Equal(t, 2, stats.UniqueUsers)
	assert.Equal(t, 2, stats.UniqueDevices)
}

func TestMonitor_ErrorBurstSynthesizesOneConflict(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mon := monitor.New(monitor.WithClock(func() time.Time { return base }))

	for i := 0; i < 15; i++ {
		mon.LogEvent(monitor.Event{
			Type:      monitor.EventError,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	conflicts := 0
	for _, e := range mon.Events() {
		if e.Type == monitor.EventConflict {
			conflicts++
		}
	}
	assert.Equal(t, 1, conflicts, "threshold crossing fires exactly once")
}

func TestMonitor_ErrorBurstRespectsWindow(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mon := monitor.New(monitor.WithClock(func() time.Time { return base }))

	// Nine errors, then a long gap, then nine more. Neither run reaches the
	// threshold within the 30s window.
	for i := 0; i < 9; i++ {
		mon.LogEvent(monitor.Event{Type: monitor.EventError, Timestamp: base.Add(time.Duration(i) * time.Second)})
	}
	for i := 0; i < 9; i++ {
		mon.LogEvent(monitor.Event{Type: monitor.EventError, Timestamp: base.Add(2*time.Minute + time.Duration(i)*time.Second)})
	}

	for _, e := range mon.Events() {
		assert.NotEqual(t, monitor.EventConflict, e.Type)
	}
}

func TestMonitor_Clear(t *testing.T) {
	t.Parallel()

	mon := monitor.New()
	mon.LogEvent(monitor.Event{Type: monitor.EventLogin, UserID: "u1"})
	mon.LogEvent(monitor.Event{Type: monitor.EventLogout, UserID: "u1"})
	require.Equal(t, 2, mon.Size())

	mon.Clear()
	assert.Zero(t, mon.Size())
	assert.Empty(t, mon.Events())
	assert.Zero(t, mon.Stats(0).Total)
}

func TestMonitor_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	mon := monitor.New(monitor.WithCapacity(100))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				mon.LogEvent(monitor.Event{
					Type:   monitor.EventLogin,
					UserID: fmt.Sprintf("user-%d", n),
				})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, mon.Size())
}
