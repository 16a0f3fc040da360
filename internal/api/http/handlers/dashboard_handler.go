package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront/internal/api/dto"
	"github.com/spec-kit/storefront/internal/service"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

// DashboardHandler proxies back-office reads and mutations. Access is enforced by the router.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardService}
}

// ListAccounts handles GET /api/dashboard/accounts?page=&size=.
func (h *DashboardHandler) ListAccounts(c *fiber.Ctx) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	page, err := h.dashboard.Accounts(c.UserContext(), sc, c.QueryInt("page", 0), c.QueryInt("size", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": page})
}

// SetAccountStatus handles PUT /api/dashboard/accounts/:id/status.
func (h *DashboardHandler) SetAccountStatus(c *fiber.Ctx) error {
	var req dto.AccountStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Enable == nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"enable": "is required"})
	}
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	message, err := h.dashboard.SetAccountEnabled(c.UserContext(), sc, c.Params("id"), *req.Enable)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": message}})
}

// ListBrands handles GET /api/dashboard/brands?page=&size=.
func (h *DashboardHandler) ListBrands(c *fiber.Ctx) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	brands, err := h.dashboard.Brands(c.UserContext(), sc, c.QueryInt("page", 0), c.QueryInt("size", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": brands})
}

// DeleteBrand handles DELETE /api/dashboard/brands/:id.
func (h *DashboardHandler) DeleteBrand(c *fiber.Ctx) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.dashboard.DeleteBrand(c.UserContext(), sc, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategories handles GET /api/dashboard/categories?page=&size=.
func (h *DashboardHandler) ListCategories(c *fiber.Ctx) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	categories, err := h.dashboard.Categories(c.UserContext(), sc, c.QueryInt("page", 0), c.QueryInt("size", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// DeleteCategory handles DELETE /api/dashboard/categories/:id.
func (h *DashboardHandler) DeleteCategory(c *fiber.Ctx) error {
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.dashboard.DeleteCategory(c.UserContext(), sc, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
