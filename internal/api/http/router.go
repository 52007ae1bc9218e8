package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SagFerNando/TELNET/internal/api/http/handlers"
	"github.com/SagFerNando/TELNET/internal/auth"
	"github.com/SagFerNando/TELNET/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Experts        *handlers.ExpertsHandler
	Messages       *handlers.MessagesHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/auth/me", cfg.Auth.Me)
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)
	protected.Put("/auth/profile", cfg.Auth.UpdateProfile)

	tickets := protected.Group("/tickets")
	tickets.Post("", auth.RequireRole(domain.RoleUsuario), cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/assign", auth.RequireRole(domain.RoleOperador), cfg.Tickets.AssignTicket)
	tickets.Patch("/:id/status", cfg.Tickets.ChangeStatus)
	tickets.Get("/:id/activities", cfg.Tickets.ListActivities)
	tickets.Post("/:id/messages", cfg.Messages.AddMessage)
	tickets.Get("/:id/messages", cfg.Messages.ListMessages)
	tickets.Get("/:id/recommendations", auth.RequireRole(domain.RoleOperador), cfg.Experts.Recommend)

	protected.Get("/experts", auth.RequireRole(domain.RoleOperador), cfg.Experts.ListExperts)
	protected.Get("/stats", cfg.Stats.Dashboard)
}
