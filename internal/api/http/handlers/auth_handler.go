package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront/internal/api/dto"
	"github.com/spec-kit/storefront/internal/service"
	apperrors "github.com/spec-kit/storefront/pkg/util"
)

// AuthHandler exposes sign-in, registration and sign-out.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sc, err := currentSession(c)
	if err != nil {
		return err
	}

	outcome, err := h.auth.Login(c.UserContext(), sc, service.LoginInput{
		Username: req.Username,
		Password: req.Password,
		Next:     req.Next,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": outcome})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sc, err := currentSession(c)
	if err != nil {
		return err
	}

	outcome, err := h.auth.Register(c.UserContext(), sc, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": outcome})
}

// ConfirmRegistration handles POST /api/auth/register/confirm.
func (h *AuthHandler) ConfirmRegistration(c *fiber.Ctx) error {
	var req dto.ConfirmRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sc, err := currentSession(c)
	if err != nil {
		return err
	}

	outcome, err := h.auth.ConfirmRegistration(c.UserContext(), sc, service.ConfirmInput{Code: req.Code})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": outcome})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	outcome, err := h.auth.ForgotPassword(c.UserContext(), service.ForgotPasswordInput{Email: req.Email})
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": outcome})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	outcome, err := h.auth.ResetPassword(c.UserContext(), service.ResetPasswordInput{Token: req.Token, Password: req.Password})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": outcome})
}

// Logout handles POST /api/auth/logout. An empty body is allowed.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if req.Back == "" {
		req.Back = c.Query("back")
	}
	sc, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.auth.Logout(c.UserContext(), sc, req.Back)})
}
