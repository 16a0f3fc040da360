package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront/internal/api/http/handlers"
	"github.com/spec-kit/storefront/internal/auth"
	"github.com/spec-kit/storefront/internal/config"
	"github.com/spec-kit/storefront/internal/domain"
	"github.com/spec-kit/storefront/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Session    *handlers.SessionHandler
	Navigation *handlers.NavigationHandler
	Dashboard  *handlers.DashboardHandler

	SessionStore  session.Store
	SessionCookie *session.CookieCodec
	SessionConfig config.SessionConfig
	Logger        *zap.Logger
	Now           func() time.Time
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	withSession := sessionMiddleware(cfg.SessionStore, cfg.SessionCookie, cfg.SessionConfig, cfg.Logger)

	api := app.Group("/api", withSession)
	api.Get("/view", cfg.Navigation.View)

	api.Get("/session", cfg.Session.Get)
	api.Put("/session/theme", cfg.Session.SetTheme)
	api.Post("/session/sidebar/toggle", cfg.Session.ToggleSidebar)
	api.Get("/session/activity", cfg.Session.Activity)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/register/confirm", cfg.Auth.ConfirmRegistration)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)
	authGroup.Post("/logout", cfg.Auth.Logout)

	backOffice := auth.RequireAccess(domain.RequireRoles(domain.RoleAdmin, domain.RoleStaff), cfg.Now)
	adminOnly := auth.RequireAccess(domain.RequireRoles(domain.RoleAdmin), cfg.Now)

	dashboard := api.Group("/dashboard")
	dashboard.Get("/accounts", adminOnly, cfg.Dashboard.ListAccounts)
	dashboard.Put("/accounts/:id/status", adminOnly, cfg.Dashboard.SetAccountStatus)
	dashboard.Get("/brands", backOffice, cfg.Dashboard.ListBrands)
	dashboard.Delete("/brands/:id", adminOnly, cfg.Dashboard.DeleteBrand)
	dashboard.Get("/categories", backOffice, cfg.Dashboard.ListCategories)
	dashboard.Delete("/categories/:id", adminOnly, cfg.Dashboard.DeleteCategory)

	api.All("/*", func(*fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	app.Get("/*", withSession, cfg.Navigation.Page)
}
