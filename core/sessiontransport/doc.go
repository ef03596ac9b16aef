// Package sessiontransport binds the session lifecycle to HTTP cookies.
//
// The Cookie transport is the single place where tokens cross the wire. It
// composes the token issuer and codec, the materializer, the cookie manager,
// and the event monitor:
//
//	transport := sessiontransport.NewCookie(env, cookies, issuer, codec, mat, mon)
//
//	// on login
//	rec, err := transport.Authenticate(w, id)
//
//	// on every request
//	rec, err := transport.Load(r.Context(), w, r)
//
// Load degrades gracefully: an expired, malformed, or missing token yields
// session.ErrNoToken (or a clear-cookie variant that Load already acted on),
// never a panic or an opaque failure. Two short-lived auxiliary cookies are
// managed here as well, one for the post-login callback URL and one for the
// login form's anti-forgery token.
package sessiontransport
