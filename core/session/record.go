package session

import (
	"time"

	"github.com/dmitrymomot/sessionkit/core/token"
)

// Record is the materialized, request-scoped view of a valid session token.
// It is read-only to consumers; mutating a copy has no effect on the token.
type Record struct {
	UserID             string
	Role               string
	RegistrationStatus string

	SessionID string
	DeviceID  string

	LoginTime time.Time
	IssuedAt  time.Time
	ExpiresAt time.Time

	// LastValidated is the time this record was materialized.
	LastValidated time.Time
}

// Age returns the absolute session age measured from the original login,
// unaffected by refreshes.
func (r Record) Age(now time.Time) time.Duration {
	return now.Sub(r.LoginTime)
}

// RefreshDue reports whether the backing token has reached the update-age
// boundary.
func (r Record) RefreshDue(now time.Time, updateAge time.Duration) bool {
	if updateAge <= 0 {
		return false
	}
	return now.Sub(r.IssuedAt) >= updateAge
}

// Claims converts the record back to token claims, used when re-encoding at
// the refresh boundary.
func (r Record) Claims() token.Claims {
	return token.Claims{
		UserID:             r.UserID,
		Role:               r.Role,
		RegistrationStatus: r.RegistrationStatus,
		SessionID:          r.SessionID,
		DeviceID:           r.DeviceID,
		LoginTime:          r.LoginTime,
		IssuedAt:           r.IssuedAt,
		ExpiresAt:          r.ExpiresAt,
	}
}

// newRecord builds a Record from decoded claims.
func newRecord(c token.Claims, now time.Time) Record {
	return Record{
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
