package cookie

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSecret indicates no signing secret was provided.
	ErrNoSecret = errors.New("cookie: no secret provided")

	// ErrSecretTooShort indicates a secret below the minimum length.
	ErrSecretTooShort = errors.New("cookie: secret must be at least 32 characters long")

	// ErrInvalidSignature indicates signature verification failed against
	// every configured secret, suggesting tampering or a fully rotated-out
	// key.
	ErrInvalidSignature = errors.New("cookie: signature verification failed")

	// ErrCookieNotFound indicates the requested cookie is absent from the
	// request.
	ErrCookieNotFound = errors.New("cookie: not found in request")

	// ErrInvalidFormat indicates a signed value that does not parse.
	ErrInvalidFormat = errors.New("cookie: invalid format")
)

// ErrCookieTooLarge indicates the serialized cookie exceeds the size cap.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie: %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}
