package appenv

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Environment names recognized by Config.Environment.
const (
	Development = "development"
	Production  = "production"
)

// ErrInvalidEnvironment is returned when Config.Environment is neither
// "development" nor "production".
var ErrInvalidEnvironment = errors.New("appenv: invalid environment name")

// Config provides environment-based configuration for the Env value object.
type Config struct {
	// Environment selects cookie naming and secure-cookie behavior.
	Environment string `env:"APP_ENV" envDefault:"development"`

	// CookieNamePrefix namespaces the auth cookies per application.
	CookieNamePrefix string `env:"AUTH_COOKIE_PREFIX" envDefault:"app"`

	// Diagnostics enables verbose auth event emission and the stats endpoint.
	Diagnostics bool `env:"AUTH_DIAGNOSTICS" envDefault:"false"`
}

// DefaultConfig returns a Config with development defaults.
func DefaultConfig() Config {
	return Config{
		Environment:      Development,
		CookieNamePrefix: "app",
	}
}

// Env is the immutable environment value object threaded through the
// authentication components.
type Env struct {
	production   bool
	cookiePrefix string
	diagnostics  bool
}

// New validates cfg and builds an Env.
func New(cfg Config) (Env, error) {
	switch cfg.Environment {
	case Development, Production:
	default:
		return Env{}, ErrInvalidEnvironment
	}

	prefix := cfg.CookieNamePrefix
	if prefix == "" {
		prefix = "app"
	}

	return Env{
		production:   cfg.Environment == Production,
		cookiePrefix: prefix,
		diagnostics:  cfg.Diagnostics,
	}, nil
}

// Load reads .env files (if present) and the process environment.
func Load() (Env, error) {
	// Missing .env files are fine; explicit environment wins either way.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Env{}, err
	}

	return New(cfg)
}

// IsProduction reports whether the application runs in production mode.
func (e Env) IsProduction() bool {
	return e.production
}

// DiagnosticsEnabled reports whether verbose auth diagnostics are on.
func (e Env) DiagnosticsEnabled() bool {
	return e.diagnostics
}

// SessionCookieName returns the primary session cookie name. Production uses
// the __Secure- prefix so the cookie is rejected over plain HTTP.
func (e Env) SessionCookieName() string {
	if e.production {
		return "__Secure-" + e.cookiePrefix + ".session-token"
	}
	return e.cookiePrefix + ".session-token"
}

// CallbackCookieName returns the short-lived callback-URL cookie name.
func (e Env) CallbackCookieName() string {
	if e.production {
		return "__Secure-" + e.cookiePrefix + ".callback-url"
	}
	return e.cookiePrefix + ".callback-url"
}

// CSRFCookieName returns the anti-forgery token cookie name. Production uses
// the __Host- prefix which additionally pins Path=/ and forbids Domain.
func (e Env) CSRFCookieName() string {
	if e.production {
		return "__Host-" + e.cookiePrefix + ".csrf-token"
	}
	return e.cookiePrefix + ".csrf-token"
}

// AllCookieNames lists both environment variants of every auth cookie.
// Used when clearing a browser that may hold cookies from a previous
// deployment environment.
func (e Env) AllCookieNames() []string {
	return []string{
		e.cookiePrefix + ".session-token",
		e.cookiePrefix + ".callback-url",
		e.cookiePrefix + ".csrf-token",
		"__Secure-" + e.cookiePrefix + ".session-token",
		"__Secure-" + e.cookiePrefix + ".callback-url",
		"__Host-" + e.cookiePrefix + ".csrf-token",
	}
}

// PeerSessionCookieName returns the session cookie name of the opposite
// environment. Presence of both names in one request indicates a
// cross-environment cookie collision.
func (e Env) PeerSessionCookieName() string {
	if e.production {
		return e.cookiePrefix + ".session-token"
	}
	return "__Secure-" + e.cookiePrefix + ".session-token"
}
