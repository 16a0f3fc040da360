// Package authtest signs bearer tokens in the storefront backend's format for tests.
package authtest

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/storefront/internal/domain"
)

// DefaultSecret signs tokens from Token. The gateway never checks signatures.
const DefaultSecret = "authtest-secret"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Token signs an HS256 token for subject and role, valid until expiresAt.
func Token(tb testing.TB, subject string, role domain.Role, issuedAt, expiresAt time.Time) string {
	tb.Helper()
	return TokenWithSecret(tb, DefaultSecret, subject, role, issuedAt, expiresAt)
}

// TokenWithSecret is Token with an explicit signing secret.
func TokenWithSecret(tb testing.TB, secret, subject string, role domain.Role, issuedAt, expiresAt time.Time) string {
	tb.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		tb.Fatalf("sign token: %v", err)
	}
	return signed
}
