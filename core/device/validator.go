package device

import (
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/sessionkit/core/appenv"
	"github.com/dmitrymomot/sessionkit/core/monitor"
	"github.com/dmitrymomot/sessionkit/core/session"
	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
)

const (
	defaultMaxSessionAge  = 30 * 24 * time.Hour
	defaultLoginBurst     = 5
	defaultLoginWindow    = 5 * time.Minute
	defaultMaxFingerprint = 256
)

// Validator runs the advisory device checks for established sessions.
type Validator struct {
	env appenv.Env
	mon *monitor.Monitor

	maxSessionAge time.Duration
	loginBurst    int
	loginWindow   time.Duration

	mu     sync.Mutex
	logins map[string][]time.Time

	now    func() time.Time
	logger *slog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithMaxSessionAge sets the absolute age ceiling measured from the original
// login.
func WithMaxSessionAge(d time.Duration) ValidatorOption {
	return func(v *Validator) {
		if d > 0 {
			v.maxSessionAge = d
		}
	}
}

// WithLoginBurst sets the per-fingerprint login count within the window that
// flags a soft conflict.
func WithLoginBurst(count int, window time.Duration) ValidatorOption {
	return func(v *Validator) {
		if count >= 1 {
			v.loginBurst = count
		}
		if window > 0 {
			v.loginWindow = window
		}
	}
}

// WithValidatorClock injects a clock for tests.
func WithValidatorClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithValidatorLogger sets the logger for advisory diagnostics.
func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator creates a Validator reporting conflicts to mon.
func NewValidator(env appenv.Env, mon *monitor.Monitor, opts ...ValidatorOption) *Validator {
	if mon == nil {
		panic("device: monitor is required")
	}

	v := &Validator{
		env:           env,
		mon:           mon,
		maxSessionAge: defaultMaxSessionAge,
		loginBurst:    defaultLoginBurst,
		loginWindow:   defaultLoginWindow,
		logins:        make(map[string][]time.Time),
		now:           time.Now,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// ValidateAge enforces the absolute age ceiling. Refreshes extend a token's
// expiry but never its login time, so this check cannot be outrun.
func (v *Validator) ValidateAge(rec session.Record) error {
	if rec.Age(v.now()) > v.maxSessionAge {
		v.logger.Info("session past absolute age ceiling",
			"session_id", rec.SessionID, "age", rec.Age(v.now()).String())
		return ErrSessionTooOld
	}
	return nil
}

// Observe runs the soft checks against the request. It never returns an
// error and never blocks access; anomalies go to the monitor as conflict
// events.
func (v *Validator) Observe(r *http.Request, rec session.Record) {
	if v.hasDualEnvironmentCookies(r) {
		v.mon.LogEvent(monitor.Event{
			Type:      monitor.EventConflict,
			UserID:    rec.UserID,
			SessionID: rec.SessionID,
			DeviceID:  rec.DeviceID,
			Error:     "session cookies from two environments",
		})
		v.logger.Warn("dual environment session cookies",
			"session_id", rec.SessionID)
	}
}

// RecordLogin notes a successful login for the device fingerprint and flags a
// conflict when logins from one fingerprint arrive unusually fast.
func (v *Validator) RecordLogin(fp fingerprint.Fingerprint, userID string) {
	if fp.IsZero() {
		return
	}
	hash := fp.Hash()
	now := v.now()

	v.mu.Lock()
	recent := appendWithin(v.logins[hash], now, v.loginWindow)
	v.logins[hash] = recent
	if len(v.logins) > defaultMaxFingerprint {
		v.evictStaleLocked(now)
	}
	count := len(recent)
	v.mu.Unlock()

	if count == v.loginBurst {
		v.mon.LogEvent(monitor.Event{
			Type:   monitor.EventConflict,
			UserID: userID,
			Error:  "login burst from one fingerprint",
		})
		v.logger.Warn("login burst from one fingerprint",
			"count", count, "window", v.loginWindow.String())
	}
}

// hasDualEnvironmentCookies reports whether both this environment's session
// cookie and its counterpart from the other environment are present. That
// happens when a host serves both deployments and confuses decode paths.
func (v *Validator) hasDualEnvironmentCookies(r *http.Request) bool {
	_, errOwn := r.Cookie(v.env.SessionCookieName())
	_, errPeer := r.Cookie(v.env.PeerSessionCookieName())
	return errOwn == nil && errPeer == nil
}

// appendWithin appends now and drops timestamps outside the window.
func appendWithin(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	kept := stamps[:0]
	for _, ts := range stamps {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	return append(kept, now)
}

// evictStaleLocked drops fingerprints whose entire history is outside the
// window, keeping the map bounded.
func (v *Validator) evictStaleLocked(now time.Time) {
	cutoff := now.Add(-v.loginWindow)
	for hash, stamps := range v.logins {
		if len(stamps) == 0 || stamps[len(stamps)-1].Before(cutoff) {
			delete(v.logins, hash)
		}
	}
}
