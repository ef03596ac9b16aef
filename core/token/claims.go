package token

import "time"

// Claims is the decoded content of a session token. The raw email address and
// registration ID are deliberately absent: the only user-identifying material
// on the wire is the userID and its short prefix inside SessionID.
type Claims struct {
	UserID             string
	Role               string
	RegistrationStatus string

	SessionID string
	DeviceID  string

	LoginTime time.Time
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ExpiresIn returns the remaining lifetime relative to now.
func (c Claims) ExpiresIn(now time.Time) time.Duration {
	return c.ExpiresAt.Sub(now)
}

// Age returns the absolute session age relative to now, measured from the
// original login, unaffected by refreshes.
func (c Claims) Age(now time.Time) time.Duration {
	return now.Sub(c.LoginTime)
}

// RefreshDue reports whether the token has reached the update-age boundary
// and should be re-encoded with an extended expiry.
func (c Claims) RefreshDue(now time.Time, updateAge time.Duration) bool {
	if updateAge <= 0 {
		return false
	}
	return now.Sub(c.IssuedAt) >= updateAge
}
