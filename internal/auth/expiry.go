package auth

import (
	"time"

	"github.com/spec-kit/storefront/internal/domain"
)

// IsExpired is the single expiry predicate shared by the gate and the expiry monitor.
// Claims that could not be decoded count as expired.
func IsExpired(claims *domain.Claims, now time.Time) bool {
	if claims == nil {
		return true
	}
	return claims.ExpiresAt < now.Unix()
}

// Authenticated reports whether the session belongs to an activated account with a live token.
func Authenticated(session *domain.Session, now time.Time) bool {
	if !session.HasToken() || IsExpired(session.Claims, now) {
		return false
	}
	return session.Claims.Role.FullyAuthenticated()
}

// RegisterInProgress reports whether the session is the short-lived registration state.
func RegisterInProgress(session *domain.Session, now time.Time) bool {
	if !session.HasToken() || IsExpired(session.Claims, now) {
		return false
	}
	return session.Claims.Role == domain.RoleRegister
}
