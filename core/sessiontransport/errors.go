package sessiontransport

import "errors"

var (
	// ErrInvalidCallback is returned for a callback URL that is absolute or
	// otherwise unsafe to redirect to.
	ErrInvalidCallback = errors.New("sessiontransport: invalid callback url")

	// ErrCSRFMismatch is returned when the submitted anti-forgery token does
	// not match the cookie.
	ErrCSRFMismatch = errors.New("sessiontransport: csrf token mismatch")
)
