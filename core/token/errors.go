package token

import "errors"

var (
	// ErrTokenExpired is returned when the token's expiry has passed.
	// Terminal: retrying the decode cannot help.
	ErrTokenExpired = errors.New("token: expired")

	// ErrTokenInvalid is returned when the token fails to parse or verify.
	// Possibly transient across a key rotation window; callers may retry.
	ErrTokenInvalid = errors.New("token: invalid")

	// ErrNoSecret is returned when a codec is constructed without secrets.
	ErrNoSecret = errors.New("token: no signing secret provided")

	// ErrSecretTooShort is returned for secrets under 32 bytes.
	ErrSecretTooShort = errors.New("token: signing secret must be at least 32 bytes")

	// ErrMissingIdentity is returned when issuing a token for an empty user ID.
	ErrMissingIdentity = errors.New("token: identity user ID is required")

	// ErrEntropyFailure is returned when crypto/rand fails.
	ErrEntropyFailure = errors.New("token: failed to read random bytes")
)
