package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/moderation-service/internal/api/http/handlers"
	"github.com/spec-kit/moderation-service/internal/auth"
	"github.com/spec-kit/moderation-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Moderation     *handlers.ModerationHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/auth/admin/login", cfg.Auth.Login)

	mod := app.Group("/moderation", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleModerator, domain.RoleSupervisor))
	mod.Get("/queue", cfg.Moderation.Queue)
	mod.Post("/queue/:queueId/actions", cfg.Moderation.Action)
	mod.Get("/queue/:queueId/explain", cfg.Moderation.Explain)
	mod.Get("/queue/:queueId/history", cfg.Moderation.History)
	mod.Post("/selection", cfg.Moderation.Select)
	mod.Delete("/selection", cfg.Moderation.ClearSelection)
	mod.Post("/bulk", cfg.Moderation.Bulk)
}
