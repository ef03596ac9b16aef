package identity

import "errors"

var (
	// ErrInvalidCredentials is returned for every authentication failure the
	// caller is allowed to see: unknown email, inactive account, or password
	// mismatch. The underlying cause is never disclosed.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")

	// ErrStoreUnavailable is returned when the user store cannot be reached.
	// Authentication fails closed; no partial identity is ever returned.
	ErrStoreUnavailable = errors.New("identity: user store unavailable")

	// ErrUserNotFound is returned by UserStore implementations when no record
	// matches the email. The verifier translates it to ErrInvalidCredentials.
	ErrUserNotFound = errors.New("identity: user not found")

	// ErrHashFailed is returned when password hashing fails.
	ErrHashFailed = errors.New("identity: password hashing failed")
)
