// Package identity verifies user credentials against a pluggable user store
// and produces the minimal Identity embedded in session tokens.
//
// Verification is deliberately uniform: an unknown email, an inactive account,
// and a wrong password all yield ErrInvalidCredentials, and every failing path
// pays the cost of one password-hash comparison so callers cannot distinguish
// them by timing. A store outage fails closed with ErrStoreUnavailable.
//
// Basic usage:
//
//	verifier := identity.NewVerifier(userStore)
//
//	id, err := verifier.Verify(ctx, email, password)
//	switch {
//	case errors.Is(err, identity.ErrInvalidCredentials):
//		// generic "invalid email or password" response
//	case errors.Is(err, identity.ErrStoreUnavailable):
//		// 503, try again later
//	case err == nil:
//		// proceed to token issuance with id
//	}
package identity
