package auth

import (
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/storefront/internal/domain"
)

var (
	// ErrMalformedToken is returned when the token payload cannot be read.
	ErrMalformedToken = errors.New("malformed token")
	// ErrMissingExpiry is returned when the payload carries no exp claim.
	ErrMissingExpiry = errors.New("token has no expiry claim")
)

// tokenClaims is the wire shape of the bearer token payload.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// DecodeClaims reads role, subject and expiry from a bearer token without verifying the
// signature. The backend re-validates the token on every call.
func DecodeClaims(token string) (*domain.Claims, error) {
	if token == "" {
		return nil, ErrMalformedToken
	}

	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return nil, ErrMissingExpiry
	}

	return &domain.Claims{
		Subject:   claims.Subject,
		Role:      domain.ParseRole(claims.Role),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}
