package sessiontransport

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/sessionkit/core/appenv"
	"github.com/dmitrymomot/sessionkit/core/cookie"
	"github.com/dmitrymomot/sessionkit/core/identity"
	"github.com/dmitrymomot/sessionkit/core/monitor"
	"github.com/dmitrymomot/sessionkit/core/session"
	"github.com/dmitrymomot/sessionkit/core/token"
)

// auxCookieMaxAge bounds the lifetime of the callback-URL and anti-forgery
// cookies. Minutes, not days: they only need to survive one login flow.
const auxCookieMaxAge = 10 * 60

// Cookie is the HTTP cookie session transport.
type Cookie struct {
	env     appenv.Env
	cookies *cookie.Manager
	issuer  *token.Issuer
	codec   token.Codec
	mat     *session.Materializer
	mon     *monitor.Monitor

	now    func() time.Time
	logger *slog.Logger
}

// CookieOption configures the transport.
type CookieOption func(*Cookie)

// WithTransportLogger sets the logger for transport diagnostics.
func WithTransportLogger(logger *slog.Logger) CookieOption {
	return func(c *Cookie) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransportClock injects a clock for tests.
func WithTransportClock(now func() time.Time) CookieOption {
	return func(c *Cookie) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCookie creates the cookie transport.
func NewCookie(
	env appenv.Env,
	cookies *cookie.Manager,
	issuer *token.Issuer,
	codec token.Codec,
	mat *session.Materializer,
	mon *monitor.Monitor,
	opts ...CookieOption,
) *Cookie {
	if cookies == nil || issuer == nil || codec == nil || mat == nil || mon == nil {
		panic("sessiontransport: all dependencies are required")
	}

	c := &Cookie{
		env:     env,
		cookies: cookies,
		issuer:  issuer,
		codec:   codec,
		mat:     mat,
		mon:     mon,
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Load materializes the session carried by the request. A missing cookie
// yields session.ErrNoToken. A token that turns out expired or unusable is
// cleared from the response before the error is returned, so the caller only
// has to treat any error as "no session".
func (c *Cookie) Load(ctx context.Context, w http.ResponseWriter, r *http.Request) (session.Record, error) {
	raw, err := c.cookies.GetSigned(r, c.env.SessionCookieName())
	if err != nil {
		if errors.Is(err, cookie.ErrCookieNotFound) {
			return session.Record{}, session.ErrNoToken
		}
		// Signature or format failure. The cookie cannot recover; drop it.
		c.ClearSession(w)
		c.mon.LogEvent(monitor.Event{Type: monitor.EventError, Error: err.Error()})
		return session.Record{}, errors.Join(session.ErrTokenUnusable, err)
	}

	rec, err := c.mat.Materialize(ctx, raw)
	if err != nil {
		if session.ShouldClearCookie(err) {
			c.ClearSession(w)
		}
		if errors.Is(err, session.ErrTokenUnusable) {
			c.mon.LogEvent(monitor.Event{Type: monitor.EventError, Error: err.Error()})
		}
		return session.Record{}, err
	}

	return rec, nil
}

// Authenticate issues a fresh token for the identity and sets the session
// cookie. Called once per successful credential verification.
func (c *Cookie) Authenticate(w http.ResponseWriter, id identity.Identity) (session.Record, error) {
	claims, err := c.issuer.Issue(id)
	if err != nil {
		return session.Record{}, err
	}

	if err := c.writeToken(w, claims); err != nil {
		return session.Record{}, err
	}

	c.mon.LogEvent(monitor.Event{
		Type:      monitor.EventLogin,
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		DeviceID:  claims.DeviceID,
	})
	c.logger.Info("session issued",
		"user_id", claims.UserID, "session_id", claims.SessionID)

	return recordFromClaims(claims, c.now()), nil
}

// Refresh extends the session's expiry at the update-age boundary. Session
// and device identity are preserved.
func (c *Cookie) Refresh(w http.ResponseWriter, rec session.Record) (session.Record, error) {
	claims := c.issuer.Refresh(rec.Claims())

	if err := c.writeToken(w, claims); err != nil {
		return session.Record{}, err
	}

	c.logger.Debug("session refreshed",
		"session_id", claims.SessionID, "expires_at", claims.ExpiresAt)

	return recordFromClaims(claims, c.now()), nil
}

// Logout clears every auth cookie and records the event.
func (c *Cookie) Logout(w http.ResponseWriter, rec session.Record) {
	for _, name := range c.env.AllCookieNames() {
		c.cookies.Delete(w, name)
	}

	c.mon.LogEvent(monitor.Event{
		Type:      monitor.EventLogout,
		UserID:    rec.UserID,
		SessionID: rec.SessionID,
		DeviceID:  rec.DeviceID,
	})
	c.logger.Info("session terminated", "session_id", rec.SessionID)
}

// ClearSession expires the session cookie for this environment and its peer.
// Clearing both ends the cross-environment collision where a stale cookie
// from another deployment keeps failing to decode.
func (c *Cookie) ClearSession(w http.ResponseWriter) {
	c.cookies.Delete(w, c.env.SessionCookieName())
	c.cookies.Delete(w, c.env.PeerSessionCookieName())
}

// SetCallbackURL remembers where to send the user after login. Only
// same-origin paths are accepted.
func (c *Cookie) SetCallbackURL(w http.ResponseWriter, target string) error {
	if !safeCallback(target) {
		return ErrInvalidCallback
	}
	return c.cookies.SetSigned(w, c.env.CallbackCookieName(), target,
		cookie.WithMaxAge(auxCookieMaxAge),
		cookie.WithSecure(c.env.IsProduction()))
}

// CallbackURL returns the stored post-login destination, or empty when none
// is set or it fails validation.
func (c *Cookie) CallbackURL(r *http.Request) string {
	target, err := c.cookies.GetSigned(r, c.env.CallbackCookieName())
	if err != nil || !safeCallback(target) {
		return ""
	}
	return target
}

// ClearCallback removes the callback-URL cookie.
func (c *Cookie) ClearCallback(w http.ResponseWriter) {
	c.cookies.Delete(w, c.env.CallbackCookieName())
}

// IssueCSRF generates an anti-forgery token and mirrors it into a short-lived
// cookie. The returned value goes into the login form.
func (c *Cookie) IssueCSRF(w http.ResponseWriter) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	tok := base64.RawURLEncoding.EncodeToString(buf)

	err := c.cookies.SetSigned(w, c.env.CSRFCookieName(), tok,
		cookie.WithMaxAge(auxCookieMaxAge),
		cookie.WithSecure(c.env.IsProduction()))
	if err != nil {
		return "", err
	}
	return tok, nil
}

// VerifyCSRF checks a submitted anti-forgery token against the cookie.
func (c *Cookie) VerifyCSRF(r *http.Request, submitted string) error {
	stored, err := c.cookies.GetSigned(r, c.env.CSRFCookieName())
	if err != nil {
		return errors.Join(ErrCSRFMismatch, err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) != 1 {
		return ErrCSRFMismatch
	}
	return nil
}

// writeToken encodes claims and sets the session cookie with a max-age
// matching the token's remaining lifetime.
func (c *Cookie) writeToken(w http.ResponseWriter, claims token.Claims) error {
	raw, err := c.codec.Encode(claims)
	if err != nil {
		return err
	}

	maxAge := int(claims.ExpiresIn(c.now()).Seconds())
	if maxAge <= 0 {
		return session.ErrExpired
	}

	return c.cookies.SetSigned(w, c.env.SessionCookieName(), raw,
		cookie.WithMaxAge(maxAge),
		cookie.WithSecure(c.env.IsProduction()))
}

// safeCallback accepts only absolute paths within this origin. Anything with
// a scheme, host, or scheme-relative prefix is an open-redirect vector.
func safeCallback(target string) bool {
	return strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//")
}

// recordFromClaims mirrors freshly written claims into a Record without a
// decode round trip.
func recordFromClaims(c token.Claims, now time.Time) session.Record {
	return session.Record{
		UserID:             c.UserID,
		Role:               c.Role,
		RegistrationStatus: c.RegistrationStatus,
		SessionID:          c.SessionID,
		DeviceID:           c.DeviceID,
		LoginTime:          c.LoginTime,
		IssuedAt:           c.IssuedAt,
		ExpiresAt:          c.ExpiresAt,
		LastValidated:      now,
	}
}
