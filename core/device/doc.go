// Package device performs advisory checks on established sessions.
//
// The one hard rule is the absolute age ceiling: a session older than the
// configured maximum since its original login is invalid regardless of how
// many refreshes extended it, and the caller should sign the user out.
//
// Everything else is soft. Observed anomalies, such as session cookies from
// two deployment environments on one request or a burst of logins from a
// single device fingerprint, are reported to the session event monitor and
// never deny a request. Strict per-device binding is deliberately absent; in
// practice it locks legitimate users out whenever a browser update or network
// change shifts their fingerprint.
package device
