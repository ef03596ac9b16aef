package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/core/appenv"
	"github.com/dmitrymomot/sessionkit/core/cookie"
	"github.com/dmitrymomot/sessionkit/core/device"
	"github.com/dmitrymomot/sessionkit/core/identity"
	"github.com/dmitrymomot/sessionkit/core/monitor"
	"github.com/dmitrymomot/sessionkit/core/redirect"
	"github.com/dmitrymomot/sessionkit/core/session"
	"github.com/dmitrymomot/sessionkit/core/sessiontransport"
	"github.com/dmitrymomot/sessionkit/core/token"
	"github.com/dmitrymomot/sessionkit/middleware"
	"github.com/dmitrymomot/sessionkit/pkg/ratelimiter"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubBlocker struct {
	blocked  map[string]bool
	reported []string
}

func (b *stubBlocker) IsBlocked(_ context.Context, ip string) bool {
	return b.blocked[ip]
}

func (b *stubBlocker) ReportSuspicious(_ context.Context, ip string) {
	b.reported = append(b.reported, ip)
}

type stubValidator struct {
	err error
}

func (v *stubValidator) Validate(*http.Request) error {
	return v.err
}

type fixture struct {
	env       appenv.Env
	transport *sessiontransport.Cookie
	mon       *monitor.Monitor
	cfg       middleware.GatewayConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	env, err := appenv.New(appenv.Config{
		Environment:      "development",
		CookieNamePrefix: "app",
	})
	require.NoError(t, err)

	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	codec, err := token.NewJWTCodec([]string{testSecret})
	require.NoError(t, err)

	mon := monitor.New()
	transport := sessiontransport.NewCookie(
		env,
		cookies,
		token.NewIssuer(7*24*time.Hour, 6*time.Hour),
		codec,
		session.NewMaterializer(codec),
		mon,
	)

	return &fixture{
		env:       env,
		transport: transport,
		mon:       mon,
		cfg: middleware.GatewayConfig{
			Transport:         transport,
			Validator:         device.NewValidator(env, mon),
			Guard:             redirect.NewGuard(),
			ProtectedPrefixes: []string{"/dashboard", "/schedule"},
		},
	}
}

// handler returns the gateway wrapping a handler that records the session it
// sees and answers 200 "ok".
func (fx *fixture) handler(t *testing.T) (http.Handler, *session.Record, *session.State) {
	t.Helper()

	var rec session.Record
	var state session.State
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, state = middleware.SessionFromRequest(r)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return middleware.Gateway(fx.cfg)(inner), &rec, &state
}

// login authenticates and returns a request factory carrying the session
// cookie.
func (fx *fixture) login(t *testing.T) func(path string) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	_, err := fx.transport.Authenticate(w, identity.Identity{
		UserID: "64f1aa02c9e77a0012ab34cd",
		Role:   "delegate",
	})
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	return func(path string) *http.Request {
		r := httptest.NewRequest("GET", path, nil)
		for _, c := range cookies {
			r.AddCookie(c)
		}
		return r
	}
}

func TestGateway_IPBlock(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	blocker := &stubBlocker{blocked: map[string]bool{"203.0.113.7": true}}
	fx.cfg.Blocker = blocker
	h, _, _ := fx.handler(t)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)

	// Another IP passes.
	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateway_RequestValidation(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	blocker := &stubBlocker{}
	fx.cfg.Blocker = blocker
	fx.cfg.RequestValidator = &stubValidator{err: errors.New("oversized header")}
	h, _, _ := fx.handler(t)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"198.51.100.1"}, blocker.reported)
}

func TestGateway_RateLimit(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.cfg.Limiter = ratelimiter.NewMemory(ratelimiter.Config{Limit: 100, Window: time.Minute})
	h, _, _ := fx.handler(t)

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest("GET", "/api/registrations", nil)
		r.RemoteAddr = "203.0.113.7:4000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	for i := 0; i < 100; i++ {
		w := send()
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
		assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
	}

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// Non-API paths are never limited.
	r := httptest.NewRequest("GET", "/about", nil)
	r.RemoteAddr = "203.0.113.7:4000"
	pw := httptest.NewRecorder()
	h.ServeHTTP(pw, r)
	assert.Equal(t, http.StatusOK, pw.Code)
}

func TestGateway_ProtectedRedirect(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	h, _, _ := fx.handler(t)

	r := httptest.NewRequest("GET", "/dashboard?tab=talks", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fdashboard%3Ftab%3Dtalks", w.Header().Get("Location"))

	// Callback cookie was set for the login flow.
	var callback bool
	for _, c := range w.Result().Cookies() {
		if c.Name == fx.env.CallbackCookieName() {
			callback = true
		}
	}
	assert.True(t, callback)
}

func TestGateway_ProtectedRedirect_GuardBreaksLoop(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	h, _, state := fx.handler(t)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest("GET", "/dashboard", nil))
	require.Equal(t, http.StatusFound, first.Code)

	// Immediate repeat hits the cooldown: the request is served through
	// instead of redirecting again.
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest("GET", "/dashboard", nil))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, session.Unauthenticated, *state)
}

func TestGateway_LoginRedirectsAuthenticated(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	h, _, _ := fx.handler(t)
	request := fx.login(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request("/login"))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestGateway_LoginHonorsCallback(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	h, _, _ := fx.handler(t)
	request := fx.login(t)

	// Stage the callback cookie the way a prior protected-path visit would.
	cw := httptest.NewRecorder()
	require.NoError(t, fx.transport.SetCallbackURL(cw, "/schedule?day=2"))

	r := request("/login")
	for _, c := range cw.Result().Cookies() {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/schedule?day=2", w.Header().Get("Location"))
}

func TestGateway_SessionInContext(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	h, rec, state := fx.handler(t)
	request := fx.login(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request("/dashboard"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "64f1aa02c9e77a0012ab34cd", rec.UserID)
	assert.Equal(t, session.AuthenticatedStable, *state)
}

func TestGateway_AnonymousContext(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	h, rec, state := fx.handler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/about", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, rec.SessionID)
	assert.Equal(t, session.Unauthenticated, *state)
}

func TestGateway_RefreshAtUpdateAge(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.cfg.UpdateAge = 6 * time.Hour
	h, rec, state := fx.handler(t)

	// Issue a token 7 hours ago so the update-age boundary has passed.
	past := time.Now().Add(-7 * time.Hour)
	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	codec, err := token.NewJWTCodec([]string{testSecret})
	require.NoError(t, err)
	backdated := sessiontransport.NewCookie(
		fx.env, cookies,
		token.NewIssuer(7*24*time.Hour, 6*time.Hour, token.WithClock(func() time.Time { return past })),
		codec,
		session.NewMaterializer(codec),
		monitor.New(),
		sessiontransport.WithTransportClock(func() time.Time { return past }),
	)

	aw := httptest.NewRecorder()
	issued, err := backdated.Authenticate(aw, identity.Identity{UserID: "64f1aa02c9e77a0012ab34cd"})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range aw.Result().Cookies() {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.AuthenticatedRefreshing, *state)
	assert.Equal(t, issued.SessionID, rec.SessionID, "refresh preserves session identity")
	assert.Equal(t, issued.DeviceID, rec.DeviceID)
	assert.True(t, rec.ExpiresAt.After(issued.ExpiresAt), "expiry extended")

	// A fresh session cookie went out with the response.
	var refreshedCookie bool
	for _, c := range w.Result().Cookies() {
		if c.Name == fx.env.SessionCookieName() && c.MaxAge > 0 {
			refreshedCookie = true
		}
	}
	assert.True(t, refreshedCookie)
}

func TestGateway_AgeCeilingSignsOut(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.cfg.Validator = device.NewValidator(fx.env, fx.mon,
		device.WithMaxSessionAge(24*time.Hour))
	h, _, state := fx.handler(t)

	// Login 48 hours ago; token still within its 7-day lifetime.
	past := time.Now().Add(-48 * time.Hour)
	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	codec, err := token.NewJWTCodec([]string{testSecret})
	require.NoError(t, err)
	backdated := sessiontransport.NewCookie(
		fx.env, cookies,
		token.NewIssuer(7*24*time.Hour, 6*time.Hour, token.WithClock(func() time.Time { return past })),
		codec,
		session.NewMaterializer(codec),
		monitor.New(),
		sessiontransport.WithTransportClock(func() time.Time { return past }),
	)

	aw := httptest.NewRecorder()
	_, err = backdated.Authenticate(aw, identity.Identity{UserID: "64f1aa02c9e77a0012ab34cd"})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/about", nil)
	for _, c := range aw.Result().Cookies() {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.Unauthenticated, *state)

	// The sign-out cleared the session cookie.
	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == fx.env.SessionCookieName() && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestGateway_ExpiredTokenServesAnonymous(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	h, _, state := fx.handler(t)

	// A token that expired yesterday.
	past := time.Now().Add(-48 * time.Hour)
	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	codec, err := token.NewJWTCodec([]string{testSecret})
	require.NoError(t, err)
	backdated := sessiontransport.NewCookie(
		fx.env, cookies,
		token.NewIssuer(24*time.Hour, 6*time.Hour, token.WithClock(func() time.Time { return past })),
		codec,
		session.NewMaterializer(codec),
		monitor.New(),
		sessiontransport.WithTransportClock(func() time.Time { return past }),
	)

	aw := httptest.NewRecorder()
	_, err = backdated.Authenticate(aw, identity.Identity{UserID: "64f1aa02c9e77a0012ab34cd"})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/about", nil)
	for _, c := range aw.Result().Cookies() {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	// No failure escapes; the request is served anonymously with a
	// cookie-clear instruction.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.Unauthenticated, *state)

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == fx.env.SessionCookieName() && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestStatsHandler(t *testing.T) {
	t.Parallel()

	t.Run("disabled without diagnostics", func(t *testing.T) {
		t.Parallel()

		env, err := appenv.New(appenv.Config{Environment: "development"})
		require.NoError(t, err)

		h := middleware.StatsHandler(monitor.New(), env)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/debug/auth-stats", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("aggregates when enabled", func(t *testing.T) {
		t.Parallel()

		env, err := appenv.New(appenv.Config{Environment: "development", Diagnostics: true})
		require.NoError(t, err)

		mon := monitor.New()
		mon.LogEvent(monitor.Event{Type: monitor.EventLogin, UserID: "u1", DeviceID: "d1"})
		mon.LogEvent(monitor.Event{Type: monitor.EventError})

		h := middleware.StatsHandler(mon, env)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/debug/auth-stats", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), `"total":2`)
		assert.Contains(t, w.Body.String(), `"unique_users":1`)
	})
}
