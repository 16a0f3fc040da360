package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront/internal/api/dto"
	"github.com/spec-kit/storefront/internal/auth"
	"github.com/spec-kit/storefront/internal/domain"
	"github.com/spec-kit/storefront/internal/service"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

// SessionHandler exposes the visitor's session state and preferences.
type SessionHandler struct {
	audit *service.AuditService
	now   func() time.Time
}

// NewSessionHandler constructs handler.
func NewSessionHandler(auditService *service.AuditService, now func() time.Time) *SessionHandler {
	if now == nil {
		now = time.Now
	}
	return &SessionHandler{audit: auditService, now: now}
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}

	current := sc.Session()
	resp := dto.SessionResponse{
		Authenticated: auth.Authenticated(current, h.now()),
		Role:          domain.RoleGuest,
		Theme:         sc.Theme(),
		SidebarOpen:   sc.SidebarOpen(),
	}
	if claims := current.Claims; claims != nil && current.HasToken() {
		resp.Role = claims.Role
		resp.Subject = claims.Subject
		expiresAt := time.Unix(claims.ExpiresAt, 0).UTC()
		resp.ExpiresAt = &expiresAt
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SetTheme handles PUT /api/session/theme.
func (h *SessionHandler) SetTheme(c *fiber.Ctx) error {
	var req dto.ThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := sc.SetTheme(req.Theme); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"theme": "must be light or dark"})
	}
	return c.JSON(fiber.Map{"data": dto.ThemeRequest{Theme: sc.Theme()}})
}

// ToggleSidebar handles POST /api/session/sidebar/toggle.
func (h *SessionHandler) ToggleSidebar(c *fiber.Ctx) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SidebarResponse{SidebarOpen: sc.ToggleSidebar()}})
}

// Activity handles GET /api/session/activity.
func (h *SessionHandler) Activity(c *fiber.Ctx) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	entries, err := h.audit.Activity(c.UserContext(), sc.ID())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": entries})
}
