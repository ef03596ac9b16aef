// Package session materializes incoming token blobs into request-scoped,
// read-only session records.
//
// Decoding tolerates transient failures (key rotation windows, cross-
// environment cookie collisions, clock skew) with a small bounded retry
// before giving up. A token that is expired, malformed, or persistently
// undecodable yields no session rather than an error the caller has to
// interpret twice; ShouldClearCookie reports whether the stale cookie should
// be removed from the browser.
//
//	rec, err := mat.Materialize(ctx, rawCookie)
//	switch {
//	case err == nil:
//		// authenticated request, rec is valid
//	case session.ShouldClearCookie(err):
//		// no session; instruct the browser to drop the cookie
//	default:
//		// no session, nothing to clear (e.g. no token presented)
//	}
package session
