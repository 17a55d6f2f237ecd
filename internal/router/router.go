package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/portfolio-contact-api/internal/config"
	"github.com/noah-isme/portfolio-contact-api/internal/handler"
	"github.com/noah-isme/portfolio-contact-api/internal/middleware"
	"github.com/noah-isme/portfolio-contact-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ContactHandler      *handler.ContactHandler
	AdminContactHandler *handler.AdminContactHandler
	ReadinessChecks     []handler.DependencyCheck
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get(middleware.MetricsPath, observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/health/ready", handler.ReadinessCheck(deps.ReadinessChecks...))

	if deps.ContactHandler != nil {
		deps.ContactHandler.Register(api.Group("/contact"))
	}

	// The inbox stays unmounted unless a token verifier is configured.
	if deps.AdminContactHandler != nil && deps.JWTMiddleware != nil {
		admin := api.Group("/admin", deps.JWTMiddleware, middleware.RequireRole(middleware.RoleAdmin))
		deps.AdminContactHandler.Register(admin.Group("/contacts"))
	}
}
