package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SagFerNando/TELNET/internal/auth"
	"github.com/SagFerNando/TELNET/internal/service"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// StatsHandler serves the per-role dashboard counters.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard GET /stats.
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	stats, err := h.stats.ForPrincipal(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
