package ratelimiter

import "errors"

var (
	// ErrInvalidConfig indicates a non-positive limit or window.
	ErrInvalidConfig = errors.New("ratelimiter: invalid configuration")

	// ErrStoreUnavailable indicates the backing store could not be reached.
	// Callers decide whether to fail open or closed.
	ErrStoreUnavailable = errors.New("ratelimiter: store unavailable")
)
