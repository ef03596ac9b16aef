// Package token mints and encodes the signed session tokens transported in
// the session cookie.
//
// Every issuance generates a fresh sessionID/deviceID pair:
//
//	sessionID: <first 8 chars of userID>_<unix-ms>_<random>
//	deviceID:  dev_<unix-ms>_<random>
//
// The random component carries ~62 bits of entropy from crypto/rand, so
// concurrent issuances never collide, even many for the same user.
// Refreshing a token extends its expiry but preserves sessionID, deviceID,
// and login time: a session keeps its identity for its whole life.
//
// Encoding is behind the Codec interface so tests can substitute a
// deterministic implementation. The production codec is a JWT (HS256) with
// support for multiple verification secrets, which keeps sessions readable
// across a signing-key rotation window.
package token
