package token

import "strings"

// Codec encodes Claims into an opaque cookie-safe blob and back. The decode
// side must distinguish expiry (ErrTokenExpired) from every other failure
// (ErrTokenInvalid) so callers can decide whether retrying makes sense.
type Codec interface {
	Encode(Claims) (string, error)
	Decode(raw string) (Claims, error)
}

// splitSecrets parses a comma-separated secret list, dropping empty entries.
func splitSecrets(s string) []string {
	parts := strings.Split(s, ",")
	secrets := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			secrets = append(secrets, p)
		}
	}
	return secrets
}
