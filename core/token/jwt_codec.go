package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSecretLength = 32

// sessionClaims is the JWT wire form of Claims.
type sessionClaims struct {
	Role               string `json:"role,omitempty"`
	RegistrationStatus string `json:"reg_status,omitempty"`
	SessionID          string `json:"sid"`
	DeviceID           string `json:"did"`
	LoginTime          int64  `json:"login_time"`
	jwt.RegisteredClaims
}

// JWTCodec signs session tokens with HMAC-SHA256. The first secret signs;
// all secrets verify, so rotating keys does not invalidate live sessions.
type JWTCodec struct {
	secrets [][]byte
	leeway  time.Duration
}

// JWTCodecOption configures a JWTCodec.
type JWTCodecOption func(*JWTCodec)

// JWTWithLeeway sets the clock-skew tolerance for temporal claims.
func JWTWithLeeway(leeway time.Duration) JWTCodecOption {
	return func(c *JWTCodec) {
		if leeway >= 0 {
			c.leeway = leeway
		}
	}
}

// NewJWTCodec creates a codec from one or more signing secrets.
func NewJWTCodec(secrets []string, opts ...JWTCodecOption) (*JWTCodec, error) {
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([][]byte, 0, len(secrets))
	for _, s := range secrets {
		if len(s) < minSecretLength {
			return nil, ErrSecretTooShort
		}
		keys = append(keys, []byte(s))
	}

	c := &JWTCodec{
		secrets: keys,
		leeway:  30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Encode signs the claims into a compact JWT.
func (c *JWTCodec) Encode(claims Claims) (string, error) {
	wire := sessionClaims{
		Role:               claims.Role,
		RegistrationStatus: claims.RegistrationStatus,
		SessionID:          claims.SessionID,
		DeviceID:           claims.DeviceID,
		LoginTime:          claims.LoginTime.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wire).SignedString(c.secrets[0])
	if err != nil {
		return "", errors.Join(ErrTokenInvalid, err)
	}
	return signed, nil
}

// Decode verifies the blob against every configured secret and returns the
// claims. Expired tokens map to ErrTokenExpired; everything else to
// ErrTokenInvalid.
func (c *JWTCodec) Decode(raw string) (Claims, error) {
	var lastErr error

	for _, key := range c.secrets {
		wire := &sessionClaims{}
		_, err := jwt.ParseWithClaims(raw, wire, func(*jwt.Token) (any, error) {
			return key, nil
		},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(c.leeway),
			jwt.WithExpirationRequired(),
		)
		if err == nil {
			return wire.toClaims(), nil
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, errors.Join(ErrTokenExpired, err)
		}
		lastErr = err
	}

	return Claims{}, errors.Join(ErrTokenInvalid, lastErr)
}

func (w *sessionClaims) toClaims() Claims {
	claims := Claims{
		UserID:             w.Subject,
		Role:               w.Role,
		RegistrationStatus: w.RegistrationStatus,
		SessionID:          w.SessionID,
		DeviceID:           w.DeviceID,
		LoginTime:          time.UnixMilli(w.LoginTime),
	}
	if w.IssuedAt != nil {
		claims.IssuedAt = w.IssuedAt.Time
	}
	if w.ExpiresAt != nil {
		claims.ExpiresAt = w.ExpiresAt.Time
	}
	return claims
}
