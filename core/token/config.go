package token

import "time"

// Config provides environment-based configuration for token issuance and
// encoding.
type Config struct {
	// Secrets is a comma-separated list of signing secrets. The first entry
	// signs new tokens; every entry verifies, which keeps sessions alive
	// across a key rotation.
	Secrets string `env:"SESSION_TOKEN_SECRETS,required"`

	// MaxAge is the session lifetime applied at issue and refresh.
	MaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"168h"` // 7 days

	// UpdateAge is the refresh cadence: a token older than this gets its
	// expiry extended on the next request.
	UpdateAge time.Duration `env:"SESSION_UPDATE_AGE" envDefault:"6h"`

	// Leeway tolerates small clock skew between instances when validating
	// temporal claims.
	Leeway time.Duration `env:"SESSION_TOKEN_LEEWAY" envDefault:"30s"`
}

// DefaultConfig returns a Config with the tuned lifetime defaults.
// Note: Secrets must be provided explicitly.
func DefaultConfig() Config {
	return Config{
		MaxAge:    7 * 24 * time.Hour,
		UpdateAge: 6 * time.Hour,
		Leeway:    30 * time.Second,
	}
}

// NewIssuerFromConfig creates an Issuer from configuration.
func NewIssuerFromConfig(cfg Config, opts ...IssuerOption) *Issuer {
	return NewIssuer(cfg.MaxAge, cfg.UpdateAge, opts...)
}

// NewJWTCodecFromConfig creates the production JWT codec from configuration.
func NewJWTCodecFromConfig(cfg Config) (*JWTCodec, error) {
	return NewJWTCodec(splitSecrets(cfg.Secrets), JWTWithLeeway(cfg.Leeway))
}
