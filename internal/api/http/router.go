package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-search/internal/api/http/handlers"
	"github.com/spec-kit/ticket-search/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	APIPrefix      string
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	RecentSearches *handlers.RecentSearchesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Status)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := app.Group(prefix, cfg.AuthMiddleware.Handle)
	api.Get("/search", cfg.Tickets.Search)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Get("/recent-searches", cfg.RecentSearches.List)
	api.Delete("/recent-searches", cfg.RecentSearches.Clear)
}
