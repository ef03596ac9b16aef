package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/sessionkit/core/device"
	"github.com/dmitrymomot/sessionkit/core/redirect"
	"github.com/dmitrymomot/sessionkit/core/session"
	"github.com/dmitrymomot/sessionkit/core/sessiontransport"
	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/ratelimiter"
)

// IPBlocker is the consumed IP-reputation capability. Policy lives elsewhere;
// the gateway only acts on the verdict.
type IPBlocker interface {
	IsBlocked(ctx context.Context, ip string) bool
	ReportSuspicious(ctx context.Context, ip string)
}

// RequestValidator is the consumed request-shape capability. A non-nil error
// rejects the request with 400.
type RequestValidator interface {
	Validate(r *http.Request) error
}

// GatewayConfig wires the gateway's collaborators and route policy.
type GatewayConfig struct {
	// Transport is required; everything else degrades gracefully when absent.
	Transport *sessiontransport.Cookie

	Validator *device.Validator
	Guard     *redirect.Guard

	Blocker          IPBlocker
	RequestValidator RequestValidator
	Limiter          ratelimiter.RateLimiter

	// UpdateAge is the token refresh cadence. Zero disables refresh.
	UpdateAge time.Duration

	// LoginPath receives unauthenticated visitors of protected paths.
	LoginPath string
	// LandingPath receives authenticated visitors of the login path.
	LandingPath string
	// APIPrefix marks rate-limited paths.
	APIPrefix string
	// ProtectedPrefixes lists paths requiring a session.
	ProtectedPrefixes []string

	Logger *slog.Logger
}

const (
	defaultLoginPath   = "/login"
	defaultLandingPath = "/dashboard"
	defaultAPIPrefix   = "/api"
)

// Gateway builds the request pipeline middleware.
func Gateway(cfg GatewayConfig) func(http.Handler) http.Handler {
	if cfg.Transport == nil {
		panic("middleware: transport is required")
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = defaultLoginPath
	}
	if cfg.LandingPath == "" {
		cfg.LandingPath = defaultLandingPath
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = defaultAPIPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientip.GetIP(r)

			if cfg.Blocker != nil && cfg.Blocker.IsBlocked(r.Context(), ip) {
				cfg.Logger.Warn("blocked ip rejected", "ip", ip, "path", r.URL.Path)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			if cfg.RequestValidator != nil {
				if err := cfg.RequestValidator.Validate(r); err != nil {
					if cfg.Blocker != nil {
						cfg.Blocker.ReportSuspicious(r.Context(), ip)
					}
					cfg.Logger.Warn("malformed request rejected",
						"ip", ip, "path", r.URL.Path, "error", err)
					http.Error(w, "Bad Request", http.StatusBadRequest)
					return
				}
			}

			if cfg.Limiter != nil && strings.HasPrefix(r.URL.Path, cfg.APIPrefix) {
				if !allowRate(cfg, w, r, ip) {
					return
				}
			}

			rec, state := resolveSession(cfg, w, r)
			r = r.WithContext(withSession(r.Context(), rec, state))

			if isProtected(cfg, r.URL.Path) && !state.Authenticated() {
				if redirectToLogin(cfg, w, r) {
					return
				}
				// Guard refused: serve the current response instead of
				// looping through the login page again.
			}

			if r.URL.Path == cfg.LoginPath && state.Authenticated() {
				if redirectToLanding(cfg, w, r) {
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allowRate applies the limiter and writes quota headers. Returns false when
// the request was already answered with 429. Limiter store failures fail
// open: availability beats strict quota.
func allowRate(cfg GatewayConfig, w http.ResponseWriter, r *http.Request, ip string) bool {
	result, err := cfg.Limiter.Allow(r.Context(), ip)
	if err != nil {
		cfg.Logger.Error("rate limiter unavailable", "ip", ip, "error", err)
		return true
	}

	now := time.Now()
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(result.Remaining, 0)))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

	if !result.Allowed() {
		retryAfter := int(result.RetryAfter(now).Seconds()) + 1
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return false
	}
	return true
}

// resolveSession loads, age-checks, observes, and refreshes the session. Any
// failure leaves the request anonymous; the transport has already arranged
// cookie cleanup where needed.
func resolveSession(cfg GatewayConfig, w http.ResponseWriter, r *http.Request) (session.Record, session.State) {
	rec, err := cfg.Transport.Load(r.Context(), w, r)
	if err != nil {
		if !errors.Is(err, session.ErrNoToken) {
			cfg.Logger.Debug("session unavailable", "error", err)
		}
		return session.Record{}, session.Unauthenticated
	}

	if cfg.Validator != nil {
		if err := cfg.Validator.ValidateAge(rec); err != nil {
			cfg.Logger.Info("session past age ceiling, signing out",
				"session_id", rec.SessionID)
			cfg.Transport.Logout(w, rec)
			return session.Record{}, session.Unauthenticated
		}
		cfg.Validator.Observe(r, rec)
	}

	if cfg.UpdateAge > 0 && rec.RefreshDue(time.Now(), cfg.UpdateAge) {
		refreshed, err := cfg.Transport.Refresh(w, rec)
		if err != nil {
			// Keep the current session; refresh retries on the next request.
			cfg.Logger.Error("session refresh failed",
				"session_id", rec.SessionID, "error", err)
			return rec, session.AuthenticatedStable
		}
		return refreshed, session.AuthenticatedRefreshing
	}

	return rec, session.AuthenticatedStable
}

func isProtected(cfg GatewayConfig, path string) bool {
	for _, prefix := range cfg.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// redirectToLogin sends an anonymous visitor of a protected path to the login
// page, remembering where they wanted to go. Returns false when the guard
// refuses (loop risk), in which case the caller serves the request as-is.
func redirectToLogin(cfg GatewayConfig, w http.ResponseWriter, r *http.Request) bool {
	target := r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	if cfg.Guard != nil && !cfg.Guard.CanRedirect(cfg.LoginPath, "protected:"+r.URL.Path) {
		cfg.Logger.Warn("login redirect suppressed", "path", r.URL.Path)
		return false
	}

	if err := cfg.Transport.SetCallbackURL(w, target); err != nil {
		cfg.Logger.Debug("callback url rejected", "target", target, "error", err)
	}

	http.Redirect(w, r, cfg.LoginPath+"?callbackUrl="+url.QueryEscape(target), http.StatusFound)
	return true
}

// redirectToLanding sends an already-authenticated visitor of the login page
// onward, honoring a stored callback URL. A successful authenticated arrival
// also resets the guard so stale history cannot throttle future navigation.
// Returns false when the guard refuses, letting the login page render.
func redirectToLanding(cfg GatewayConfig, w http.ResponseWriter, r *http.Request) bool {
	target := cfg.Transport.CallbackURL(r)
	if target == "" {
		target = cfg.LandingPath
	}

	if cfg.Guard != nil {
		if !cfg.Guard.CanRedirect(target, "login-page") {
			cfg.Logger.Warn("landing redirect suppressed", "target", target)
			return false
		}
		cfg.Guard.ClearAll()
	}

	cfg.Transport.ClearCallback(w)
	http.Redirect(w, r, target, http.StatusFound)
	return true
}
