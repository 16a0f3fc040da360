package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront/internal/auth"
	"github.com/spec-kit/storefront/internal/session"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

// currentSession returns the session opened by the session middleware.
func currentSession(c *fiber.Ctx) (*session.Context, error) {
	source, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, apperrors.NewInternalError(nil)
	}
	sc, ok := source.(*session.Context)
	if !ok {
		return nil, apperrors.NewInternalError(nil)
	}
	return sc, nil
}
