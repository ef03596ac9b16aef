package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

const (
	hashVersion = "v1:"
	// 16 bytes (128 bits) of SHA-256 output balances uniqueness against
	// storage size for a diagnostics-only identifier.
	hashLen = 16

	// maxUserAgentLen caps the User-Agent contribution; anything beyond this
	// is version noise that churns the hash without adding signal.
	maxUserAgentLen = 120

	headerScreen   = "X-Device-Screen"
	headerTimezone = "X-Device-Timezone"
)

// Fingerprint holds the client-observed device hints.
type Fingerprint struct {
	UserAgent string
	Screen    string
	Timezone  string
	Language  string
}

// FromRequest collects device hints from the request headers. Missing headers
// leave the corresponding field empty.
func FromRequest(r *http.Request) Fingerprint {
	ua := r.UserAgent()
	if len(ua) > maxUserAgentLen {
		ua = ua[:maxUserAgentLen]
	}

	return Fingerprint{
		UserAgent: ua,
		Screen:    r.Header.Get(headerScreen),
		Timezone:  r.Header.Get(headerTimezone),
		Language:  primaryLanguage(r.Header.Get("Accept-Language")),
	}
}

// Hash returns the versioned fingerprint hash in the form "v1:<hex>". Empty
// components are filtered so a missing header does not shift the others.
func (f Fingerprint) Hash() string {
	components := make([]string, 0, 4)
	for _, c := range []string{f.UserAgent, f.Screen, f.Timezone, f.Language} {
		if c != "" {
			components = append(components, c)
		}
	}

	// Pipe delimiter prevents ["ab","c"] and ["a","bc"] from colliding.
	sum := sha256.Sum256([]byte(strings.Join(components, "|")))
	return hashVersion + hex.EncodeToString(sum[:hashLen])
}

// IsZero reports whether no hints were observed at all.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// primaryLanguage extracts the first language tag from an Accept-Language
// header, dropping quality weights.
func primaryLanguage(header string) string {
	if header == "" {
		return ""
	}
	first := header
	if idx := strings.IndexByte(header, ','); idx >= 0 {
		first = header[:idx]
	}
	if idx := strings.IndexByte(first, ';'); idx >= 0 {
		first = first[:idx]
	}
	return strings.TrimSpace(first)
}
