package token

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"github.com/dmitrymomot/sessionkit/core/identity"
)

const (
	// randomIDLength chars over a 36-symbol alphabet ≈ 62 bits of entropy.
	randomIDLength = 12
	randomAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	userPrefixLength = 8
)

// Issuer mints Claims with unique session/device identifiers.
type Issuer struct {
	maxAge    time.Duration
	updateAge time.Duration
	now       func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithClock injects a clock. Used by tests for deterministic timestamps.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer creates an Issuer. maxAge is the full session lifetime set on
// each (re-)issued token; updateAge is the refresh cadence.
func NewIssuer(maxAge, updateAge time.Duration, opts ...IssuerOption) *Issuer {
	if maxAge <= 0 {
		maxAge = DefaultConfig().MaxAge
	}
	if updateAge <= 0 {
		updateAge = DefaultConfig().UpdateAge
	}

	i := &Issuer{
		maxAge:    maxAge,
		updateAge: updateAge,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// MaxAge returns the configured session lifetime.
func (i *Issuer) MaxAge() time.Duration {
	return i.maxAge
}

// UpdateAge returns the configured refresh cadence.
func (i *Issuer) UpdateAge() time.Duration {
	return i.updateAge
}

// Issue creates Claims for a fresh login. The sessionID embeds a short
// userID prefix for log correlation; neither identifier ever contains the
// email or registration ID.
func (i *Issuer) Issue(id identity.Identity) (Claims, error) {
	if id.UserID == "" {
		return Claims{}, ErrMissingIdentity
	}

	now := i.now()
	stamp := strconv.FormatInt(now.UnixMilli(), 10)

	random, err := randomString(randomIDLength)
	if err != nil {
		return Claims{}, err
	}

	prefix := id.UserID
	if len(prefix) > userPrefixLength {
		prefix = prefix[:userPrefixLength]
	}

	return Claims{
		UserID:             id.UserID,
		Role:               id.Role,
		RegistrationStatus: id.RegistrationStatus,
		SessionID:          prefix + "_" + stamp + "_" + random,
		DeviceID:           "dev_" + stamp + "_" + random,
		LoginTime:          now,
		IssuedAt:           now,
		ExpiresAt:          now.Add(i.maxAge),
	}, nil
}

// Refresh extends the expiry of existing Claims without touching the
// session's identity: sessionID, deviceID, and login time survive.
func (i *Issuer) Refresh(c Claims) Claims {
	now := i.now()
	c.IssuedAt = now
	c.ExpiresAt = now.Add(i.maxAge)
	return c
}

// randomString draws n characters from randomAlphabet using crypto/rand.
func randomString(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(randomAlphabet)))

	for idx := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Join(ErrEntropyFailure, err)
		}
		out[idx] = randomAlphabet[v.Int64()]
	}

	return string(out), nil
}
