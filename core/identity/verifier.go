package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
)

// burnHash is a valid bcrypt hash that matches no issued password. Failing
// lookup paths compare against it so that unknown-email, inactive-account,
// and wrong-password outcomes all cost one hash comparison.
const burnHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Verifier authenticates email+password pairs against a UserStore.
type Verifier struct {
	store  UserStore
	hasher PasswordHasher
	logger *slog.Logger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithHasher overrides the default bcrypt hasher.
func WithHasher(h PasswordHasher) VerifierOption {
	return func(v *Verifier) {
		if h != nil {
			v.hasher = h
		}
	}
}

// WithLogger sets the logger for internal diagnostics. Failure causes are
// logged here and nowhere else.
func WithLogger(logger *slog.Logger) VerifierOption {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewVerifier creates a credential verifier backed by the given store.
func NewVerifier(store UserStore, opts ...VerifierOption) *Verifier {
	if store == nil {
		panic("identity: user store is required")
	}

	v := &Verifier{
		store:  store,
		hasher: NewBcryptHasher(0),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Verify authenticates the credentials and returns the minimal Identity on
// success. All expected failures map to ErrInvalidCredentials or
// ErrStoreUnavailable; no other error crosses this boundary.
func (v *Verifier) Verify(ctx context.Context, email, password string) (Identity, error) {
	if email == "" || password == "" {
		v.burn(password)
		return Identity{}, ErrInvalidCredentials
	}

	rec, err := v.store.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			v.logger.DebugContext(ctx, "login for unknown email")
			v.burn(password)
			return Identity{}, ErrInvalidCredentials
		}
		v.logger.ErrorContext(ctx, "user store lookup failed", "error", err)
		return Identity{}, errors.Join(ErrStoreUnavailable, err)
	}

	if !rec.IsActive {
		v.logger.DebugContext(ctx, "login for inactive account")
		v.burn(password)
		return Identity{}, ErrInvalidCredentials
	}

	if err := v.hasher.Compare(rec.PasswordHash, password); err != nil {
		v.logger.DebugContext(ctx, "password mismatch")
		return Identity{}, ErrInvalidCredentials
	}

	return Identity{
		UserID:             rec.ID,
		Role:               rec.Role,
		RegistrationID:     rec.RegistrationID,
		RegistrationStatus: rec.RegistrationStatus,
	}, nil
}

// burn performs a hash comparison that is guaranteed to fail, equalizing the
// cost of failure paths that never reach a real stored hash.
func (v *Verifier) burn(password string) {
	_ = v.hasher.Compare(burnHash, password)
}

// NormalizeEmail trims whitespace and applies Unicode case folding so that
// lookups are case-insensitive regardless of the stored form.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
