package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is stamped into every issued token and required on verify.
const tokenIssuer = "insight-desk"

// Claims is the JWT payload carried by API bearer tokens. org_id scopes the
// token to one organization; the registered subject claim carries the user
// ID. Both are re-validated by the tenant context factory before any unit of
// work runs.
type Claims struct {
	OrgID string `json:"org_id"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for tokens signed with secret.
func NewVerifier(secret string) (*Verifier, error) {
	if len(secret) < 32 {
		return nil, errors.New("signing secret must be at least 32 bytes (256 bits) for HMAC-SHA256")
	}

	return &Verifier{secret: []byte(secret)}, nil
}

// Verify parses and validates a token string and returns its claims.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("invalid signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !parsed.Valid {
		return nil, errors.New("token invalid")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	if claims.Issuer != tokenIssuer {
		return nil, fmt.Errorf("unknown issuer %q", claims.Issuer)
	}

	if claims.ExpiresAt == nil {
		return nil, errors.New("token has no expiry")
	}

	return claims, nil
}
