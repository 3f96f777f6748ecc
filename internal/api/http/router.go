package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/daily-report-service/internal/api/http/handlers"
	"github.com/spec-kit/daily-report-service/internal/auth"
	"github.com/spec-kit/daily-report-service/internal/domain"
	"github.com/spec-kit/daily-report-service/internal/observability"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Sales    *handlers.SalesHandler
	Pages    *handlers.PageHandler
	Sessions *auth.SessionResolver
	Metrics  *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	requireAPI := cfg.Sessions.RequireAuth(auth.RaiseError())
	requirePage := cfg.Sessions.RequireAuth(auth.RedirectTo(LoginPath))

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", requireAPI, cfg.Auth.Me)
	authGroup.Post("/password", requireAPI, cfg.Auth.ChangePassword)

	sales := api.Group("/sales", requireAPI, auth.RequireRole(domain.RoleAdmin))
	sales.Get("/", cfg.Sales.List)
	sales.Post("/", cfg.Sales.Create)
	sales.Get("/:id", cfg.Sales.Get)
	sales.Patch("/:id", cfg.Sales.Update)

	app.Get("/dashboard", requirePage, cfg.Pages.Dashboard)
}
