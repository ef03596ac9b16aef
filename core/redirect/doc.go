// Package redirect guards against redirect loops between route gating and the
// login page.
//
// The guard keeps a small bounded history of recent (target, context)
// attempts. A repeat attempt for the same pair inside the cooldown window is
// refused, which turns a would-be infinite redirect chain into a single
// served response. History is cleared on successful authentication so
// legitimate navigation is never throttled by stale entries.
//
//	guard := redirect.NewGuard()
//	if guard.CanRedirect("/dashboard", "login-success") {
//		http.Redirect(w, r, "/dashboard", http.StatusFound)
//	}
package redirect
