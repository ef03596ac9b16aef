// Package cookie manages the HTTP cookies that carry session state.
//
// The Manager writes cookies with locked-down defaults: Path "/", HttpOnly,
// SameSite Lax, and never an explicit Domain attribute, which keeps cookies
// from leaking across sibling hosts. Values can optionally be signed with
// HMAC-SHA256; verification is constant-time and tries every configured
// secret, so secrets can be rotated by prepending a new one.
//
//	manager, err := cookie.New(secrets, cookie.WithSecure(true))
//	if err != nil {
//		return err
//	}
//
//	err = manager.SetSigned(w, "app.callback-url", "/dashboard",
//		cookie.WithMaxAge(600))
//
// Oversized cookies are rejected before they hit the wire; browsers silently
// drop cookies past 4KB, which otherwise surfaces as an unreproducible login
// loop.
package cookie
