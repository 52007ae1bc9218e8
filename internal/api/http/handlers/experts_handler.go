package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SagFerNando/TELNET/internal/api/dto"
	"github.com/SagFerNando/TELNET/internal/auth"
	"github.com/SagFerNando/TELNET/internal/service"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// ExpertsHandler exposes the expert directory and assignment recommendations
// to operators.
type ExpertsHandler struct {
	identity *service.IdentityService
	advisor  *service.AdvisorService
	workflow *service.WorkflowService
}

// NewExpertsHandler constructs handler.
func NewExpertsHandler(identity *service.IdentityService, advisor *service.AdvisorService, workflow *service.WorkflowService) *ExpertsHandler {
	return &ExpertsHandler{identity: identity, advisor: advisor, workflow: workflow}
}

// ListExperts GET /experts.
func (h *ExpertsHandler) ListExperts(c *fiber.Ctx) error {
	experts, err := h.identity.ListExperts(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ProfileResponse, 0, len(experts))
	for i := range experts {
		items = append(items, profileResponse(&experts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Recommend GET /tickets/:id/recommendations. The ranking is advisory; the
// operator may still assign any expert.
func (h *ExpertsHandler) Recommend(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	ticket, err := h.workflow.GetTicket(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	ranked, err := h.advisor.RecommendForTicket(c.UserContext(), ticket)
	if err != nil {
		return err
	}
	items := make([]dto.ProfileResponse, 0, len(ranked))
	for i := range ranked {
		items = append(items, profileResponse(&ranked[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"category":   ticket.ProblemType.Category(),
		"candidates": items,
	}})
}
