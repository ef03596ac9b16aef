package fingerprint_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
	r.Header.Set("X-Device-Screen", "1920x1080")
	r.Header.Set("X-Device-Timezone", "Europe/Berlin")
	r.Header.Set("Accept-Language", "de-DE;q=0.9, en;q=0.8")

	fp := fingerprint.FromRequest(r)

	assert.Equal(t, "Mozilla/5.0 (X11; Linux x86_64)", fp.UserAgent)
	assert.Equal(t, "1920x1080", fp.Screen)
	assert.Equal(t, "Europe/Berlin", fp.Timezone)
	assert.Equal(t, "de-DE", fp.Language)
}

func TestFromRequest_TruncatesLongUserAgent(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", strings.Repeat("a", 500))

	fp := fingerprint.FromRequest(r)
	assert.Len(t, fp.UserAgent, 120)
}

func TestFromRequest_MissingHeaders(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Del("User-Agent")

	fp := fingerprint.FromRequest(r)
	assert.True(t, fp.IsZero())
}

func TestHash(t *testing.T) {
	t.Parallel()

	t.Run("versioned format", func(t *testing.T) {
		t.Parallel()

		fp := fingerprint.Fingerprint{UserAgent: "agent", Screen: "800x600"}
		hash := fp.Hash()

		assert.True(t, strings.HasPrefix(hash, "v1:"))
		assert.Len(t, hash, 35)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		fp := fingerprint.Fingerprint{UserAgent: "agent", Timezone: "UTC"}
		assert.Equal(t, fp.Hash(), fp.Hash())
	})

	t.Run("distinct hints produce distinct hashes", func(t *testing.T) {
		t.Parallel()

		a := fingerprint.Fingerprint{UserAgent: "agent", Screen: "1920x1080"}
		b := fingerprint.Fingerprint{UserAgent: "agent", Screen: "800x600"}
		require.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("components do not shift across a boundary", func(t *testing.T) {
		t.Parallel()

		a := fingerprint.Fingerprint{UserAgent: "ab", Screen: "c"}
		b := fingerprint.Fingerprint{UserAgent: "a", Screen: "bc"}
		assert.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("empty fingerprint still hashes", func(t *testing.T) {
		t.Parallel()

		var fp fingerprint.Fingerprint
		assert.True(t, strings.HasPrefix(fp.Hash(), "v1:"))
	})
}
