package identity

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher compares plaintext passwords against stored hashes.
// Compare must run in time independent of where the inputs differ.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher is the default PasswordHasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher. Costs below the bcrypt minimum
// fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

// Hash generates a bcrypt hash of the password.
func (h BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrHashFailed
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Join(ErrHashFailed, err)
	}
	return string(out), nil
}

// Compare validates the cleartext password against the stored hash.
func (h BcryptHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
