package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront/internal/domain"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

const sessionKey = "storefront_session"

// SessionSource exposes a visitor's current authentication state.
type SessionSource interface {
	Session() *domain.Session
}

// BindSession stores the visitor session on the request.
func BindSession(c *fiber.Ctx, source SessionSource) {
	c.Locals(sessionKey, source)
}

// SessionFromContext retrieves the bound visitor session.
func SessionFromContext(c *fiber.Ctx) (SessionSource, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	source, ok := val.(SessionSource)
	return source, ok
}

// RequireAccess guards API routes with the role gate. API callers get 401/403 instead of a redirect.
func RequireAccess(access domain.Access, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		var current *domain.Session
		if source, ok := SessionFromContext(c); ok {
			current = source.Session()
		}

		at := now()
		if Evaluate(current, access, "", at).Allowed() {
			return c.Next()
		}
		if !Authenticated(current, at) {
			return apperrors.NewUnauthorized("sign in required")
		}
		return apperrors.NewForbidden("insufficient role")
	}
}
