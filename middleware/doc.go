// Package middleware provides the per-request gateway that orchestrates the
// session subsystem.
//
// The Gateway runs a fixed pipeline: IP reputation check, request shape
// validation, per-IP rate limiting for API paths, then session handling with
// route protection. Decisions depend only on the incoming request, so the
// pipeline is idempotent: running it twice for the same request state yields
// the same outcome.
//
//	gw := middleware.Gateway(middleware.GatewayConfig{
//		Transport: transport,
//		Validator: validator,
//		Guard:     guard,
//		Limiter:   limiter,
//	})
//	handler := gw(mux)
//
// Handlers read the session from the request context:
//
//	rec, state := middleware.SessionFromRequest(r)
//	if !state.Authenticated() {
//		// anonymous
//	}
package middleware
