package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront/internal/auth"
	"github.com/spec-kit/storefront/internal/config"
	"github.com/spec-kit/storefront/internal/session"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

// sessionMiddleware opens the visitor's session from the signed cookie, binds it to the request
// and saves it once the handler has run. An invalid or unknown cookie starts a fresh session.
func sessionMiddleware(store session.Store, codec *session.CookieCodec, cfg config.SessionConfig, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if raw := c.Cookies(codec.Name()); raw != "" {
			if decoded, ok := codec.Decode(raw); ok {
				id = decoded
			} else {
				logger.Debug("discarding invalid session cookie")
			}
		}

		sc, err := session.Open(c.UserContext(), store, id)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		auth.BindSession(c, sc)

		handlerErr := c.Next()

		if err := sc.Save(c.UserContext()); err != nil {
			logger.Error("save session", zap.String("session_id", sc.ID()), zap.Error(err))
			if handlerErr == nil {
				handlerErr = apperrors.NewInternalError(err)
			}
		}
		if sc.ID() != id {
			value, err := codec.Encode(sc.ID())
			if err != nil {
				logger.Error("encode session cookie", zap.Error(err))
				return handlerErr
			}
			c.Cookie(&fiber.Cookie{
				Name:     codec.Name(),
				Value:    value,
				Path:     "/",
				MaxAge:   int(cfg.TTL().Seconds()),
				Secure:   cfg.SecureCookie,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		return handlerErr
	}
}
