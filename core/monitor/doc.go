// Package monitor keeps a small, process-local ring buffer of authentication
// lifecycle events and derives aggregate statistics from it.
//
// The buffer is bounded and evicts oldest-first, so it can be written on every
// request without growing. It is a diagnostic aid, not an audit log: events
// live only in memory and only until capacity pushes them out.
//
// Usage:
//
//	mon := monitor.New()
//	mon.LogEvent(monitor.Event{Type: monitor.EventLogin, UserID: id.UserID})
//
//	stats := mon.Stats(30 * time.Minute)
//
// A sustained burst of error events synthesizes a single conflict event, which
// surfaces in stats as an early signal of decode storms or misbehaving
// clients.
package monitor
