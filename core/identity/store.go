package identity

import "context"

// Identity is the authoritative set of user attributes carried into a session.
// It is immutable for the lifetime of a token.
type Identity struct {
	UserID             string
	Role               string
	RegistrationID     string
	RegistrationStatus string
}

// UserRecord is the account row returned by a UserStore lookup.
type UserRecord struct {
	ID                 string
	Email              string
	PasswordHash       string
	Role               string
	RegistrationID     string
	RegistrationStatus string
	IsActive           bool
}

// UserStore looks up account records by normalized email.
// Implementations return ErrUserNotFound when no record matches and must
// handle concurrent access safely.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (UserRecord, error)
}
