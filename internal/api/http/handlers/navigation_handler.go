package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront/internal/navigation"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

// NavigationHandler answers path changes of the storefront shell.
type NavigationHandler struct {
	composer *navigation.Composer
}

// NewNavigationHandler constructs handler.
func NewNavigationHandler(composer *navigation.Composer) *NavigationHandler {
	return &NavigationHandler{composer: composer}
}

// View handles GET /api/view?path=/x. Redirects are reported in the decision, never followed.
func (h *NavigationHandler) View(c *fiber.Ctx) error {
	path := c.Query("path")
	if !strings.HasPrefix(path, "/") {
		return apperrors.NewValidationError("invalid payload", map[string]any{"path": "must be an absolute path"})
	}
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.composer.Navigate(c.UserContext(), sc, path)})
}

// Page handles any other GET as a direct page load: redirects become 303s.
func (h *NavigationHandler) Page(c *fiber.Ctx) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}

	view := h.composer.Navigate(c.UserContext(), sc, c.Path())
	if !view.Decision.Allowed() {
		return c.Redirect(view.Decision.Target, http.StatusSeeOther)
	}
	status := http.StatusOK
	if view.Page == navigation.NotFound.Page {
		status = http.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"data": view})
}
