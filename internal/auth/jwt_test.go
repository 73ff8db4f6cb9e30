package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewVerifier_RejectsShortSecret(t *testing.T) {
	_, err := NewVerifier("too-short")
	require.Error(t, err)

	v, err := NewVerifier(testSecret)
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestIssueAndVerify(t *testing.T) {
	orgID := uuid.Must(uuid.NewV7()).String()
	userID := uuid.Must(uuid.NewV7()).String()

	token, err := IssueToken(testSecret, orgID, userID, time.Hour)
	require.NoError(t, err)

	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, orgID, claims.OrgID)
	require.Equal(t, userID, claims.Subject)
	require.Equal(t, tokenIssuer, claims.Issuer)
}

func TestVerify_Failures(t *testing.T) {
	orgID := uuid.Must(uuid.NewV7()).String()
	userID := uuid.Must(uuid.NewV7()).String()

	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	wrongSecret, err := IssueToken("ffffffffffffffffffffffffffffffff", orgID, userID, time.Hour)
	require.NoError(t, err)

	expired, err := IssueToken(testSecret, orgID, userID, -time.Minute)
	require.NoError(t, err)

	wrongIssuer := issueWithClaims(t, &Claims{
		OrgID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	noExpiry := issueWithClaims(t, &Claims{
		OrgID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
			Issuer:  tokenIssuer,
		},
	})

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: wrongSecret},
		{name: "expired", token: expired},
		{name: "wrong issuer", token: wrongIssuer},
		{name: "no expiry", token: noExpiry},
		{name: "garbage", token: "not.a.jwt"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			require.Error(t, err)
		})
	}
}

func TestVerify_RejectsUnsignedToken(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		OrgID: uuid.Must(uuid.NewV7()).String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.Must(uuid.NewV7()).String(),
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(signed)
	require.Error(t, err)
}

func issueWithClaims(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}
