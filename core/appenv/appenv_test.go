package appenv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/core/appenv"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("development defaults", func(t *testing.T) {
		t.Parallel()

		env, err := appenv.New(appenv.DefaultConfig())
		require.NoError(t, err)

		assert.False(t, env.IsProduction())
		assert.False(t, env.DiagnosticsEnabled())
		assert.Equal(t, "app.session-token", env.SessionCookieName())
		assert.Equal(t, "app.callback-url", env.CallbackCookieName())
		assert.Equal(t, "app.csrf-token", env.CSRFCookieName())
	})

	t.Run("production cookie prefixes", func(t *testing.T) {
		t.Parallel()

		env, err := appenv.New(appenv.Config{
			Environment:      appenv.Production,
			CookieNamePrefix: "conf",
		})
		require.NoError(t, err)

		assert.True(t, env.IsProduction())
		assert.Equal(t, "__Secure-conf.session-token", env.SessionCookieName())
		assert.Equal(t, "__Secure-conf.callback-url", env.CallbackCookieName())
		assert.Equal(t, "__Host-conf.csrf-token", env.CSRFCookieName())
	})

	t.Run("rejects unknown environment", func(t *testing.T) {
		t.Parallel()

		_, err := appenv.New(appenv.Config{Environment: "staging"})
		require.ErrorIs(t, err, appenv.ErrInvalidEnvironment)
	})

	t.Run("empty prefix falls back to default", func(t *testing.T) {
		t.Parallel()

		env, err := appenv.New(appenv.Config{Environment: appenv.Development})
		require.NoError(t, err)
		assert.Equal(t, "app.session-token", env.SessionCookieName())
	})
}

func TestEnv_PeerSessionCookieName(t *testing.T) {
	t.Parallel()

	dev, err := appenv.New(appenv.Config{Environment: appenv.Development, CookieNamePrefix: "conf"})
	require.NoError(t, err)
	prod, err := appenv.New(appenv.Config{Environment: appenv.Production, CookieNamePrefix: "conf"})
	require.NoError(t, err)

	assert.Equal(t, prod.SessionCookieName(), dev.PeerSessionCookieName())
	assert.Equal(t, dev.SessionCookieName(), prod.PeerSessionCookieName())
}

func TestEnv_AllCookieNames(t *testing.T) {
	t.Parallel()

	env, err := appenv.New(appenv.Config{Environment: appenv.Development, CookieNamePrefix: "conf"})
	require.NoError(t, err)

	names := env.AllCookieNames()
	assert.Len(t, names, 6)
	assert.Contains(t, names, "conf.session-token")
	assert.Contains(t, names, "__Secure-conf.session-token")
	assert.Contains(t, names, "__Host-conf.csrf-token")
}
