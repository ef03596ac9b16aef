package session

import (
	"errors"

	"github.com/dmitrymomot/sessionkit/core/token"
)

var (
	// ErrNoToken is returned when the request carries no session token.
	ErrNoToken = errors.New("session: no token")

	// ErrTokenUnusable is returned when the token could not be decoded within
	// the retry budget. The cookie should be cleared.
	ErrTokenUnusable = errors.New("session: token unusable")

	// ErrExpired is returned for a token past its expiry. The cookie should
	// be cleared.
	ErrExpired = errors.New("session: expired")
)

// ShouldClearCookie reports whether the materialization outcome calls for
// removing the session cookie from the client.
func ShouldClearCookie(err error) bool {
	return errors.Is(err, ErrTokenUnusable) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, token.ErrTokenExpired)
}
