package observability

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/storefront/pkg/util"
)

// UnmatchedRoute labels requests that no route handled.
const UnmatchedRoute = "<unmatched>"

// RouteLabel names the route template that served c. Counters keyed by it stay
// bounded by the route table whatever paths clients send.
func RouteLabel(c *fiber.Ctx, err error) string {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusNotFound {
		return UnmatchedRoute
	}
	return c.Route().Path
}

// RequestLogger logs one line per request and feeds the request counters.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			// Errors are rendered further out, so the response status is not final yet.
			status = apperrors.ToDomainError(err).HTTPStatus
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}
		metrics.RecordRequest(RouteLabel(c, err), c.Method(), status, latency)

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		)
		return err
	}
}
