// Package fingerprint summarizes client-observed device hints into a compact,
// versioned hash.
//
// A fingerprint is built from the User-Agent plus optional client hints
// (screen dimensions, timezone, preferred language) and hashed into a
// "v1:<hex>" string. It is a diagnostic signal for spotting unusual login
// patterns, never an access-control gate: hints are trivially spoofable and
// legitimately unstable across app updates and network changes.
package fingerprint
