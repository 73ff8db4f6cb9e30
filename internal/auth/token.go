package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueToken creates a signed token granting access to one organization on
// behalf of one user. Used by the deskadmin token command and by test
// fixtures; production deployments mint tokens in their identity service
// with the same shape.
func IssueToken(secret string, orgID, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		OrgID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
