// Package sessionkit is the session identity and device isolation layer for
// the conference registration platform.
//
// It replaces a scattered mix of auth rewrites with one composable set of
// packages:
//
//   - core/identity: credential verification against the user store, with
//     uniform failure semantics
//   - core/token: session token issuance, refresh, and the signed JWT codec
//   - core/session: materializing incoming tokens into request-scoped records
//   - core/device: advisory device checks and the absolute session age ceiling
//   - core/monitor: bounded in-process ring buffer of auth lifecycle events
//   - core/redirect: loop guard between route gating and the login page
//   - core/cookie, core/sessiontransport: the HTTP cookie surface
//   - core/appenv: environment detection and cookie naming
//   - middleware: the per-request gateway pipeline
//   - pkg/clientip, pkg/fingerprint, pkg/ratelimiter: supporting utilities
//   - integration/database/mongo, integration/database/redis: backing stores
//
// Wiring lives with the application; every component is constructed
// explicitly and carries no global state except where the design calls for a
// process-local singleton (event monitor, redirect guard).
package sessionkit
