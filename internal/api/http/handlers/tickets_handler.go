package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SagFerNando/TELNET/internal/api/dto"
	"github.com/SagFerNando/TELNET/internal/auth"
	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/repository"
	"github.com/SagFerNando/TELNET/internal/service"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	workflow *service.WorkflowService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(workflow *service.WorkflowService) *TicketsHandler {
	return &TicketsHandler{workflow: workflow}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.workflow.CreateTicket(c.UserContext(), principal, service.TicketCreateInput{
		Title:           req.Title,
		Description:     req.Description,
		ProblemType:     req.ProblemType,
		Priority:        req.Priority,
		City:            req.City,
		Address:         req.Address,
		ServiceProvider: req.ServiceProvider,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	tickets, err := h.workflow.ListTickets(c.UserContext(), principal, parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	ticket, err := h.workflow.GetTicket(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// AssignTicket POST /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.workflow.Assign(c.UserContext(), principal, c.Params("id"), req.ExpertID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ChangeStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.workflow.ChangeStatus(c.UserContext(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ListActivities GET /tickets/:id/activities.
func (h *TicketsHandler) ListActivities(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	records, err := h.workflow.ListActivities(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ActivityResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.ActivityResponse{
			ID:        record.ID,
			Action:    record.Action,
			ActorID:   record.ActorID,
			ActorName: record.ActorName,
			Details:   record.Details,
			CreatedAt: record.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if val := strings.TrimSpace(c.Query("status")); val != "" {
		status := domain.TicketStatus(val)
		filter.Status = &status
	}
	if val := strings.TrimSpace(c.Query("problem_type")); val != "" {
		problemType := domain.ProblemType(val)
		filter.ProblemType = &problemType
	}
	if val := strings.TrimSpace(c.Query("priority")); val != "" {
		priority := domain.TicketPriority(val)
		filter.Priority = &priority
	}
	if val := strings.TrimSpace(c.Query("city")); val != "" {
		filter.City = &val
	}
	if val := strings.TrimSpace(c.Query("search")); val != "" {
		filter.Search = &val
	}
	return filter
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:             ticket.ID,
		ExternalKey:    ticket.ExternalKey,
		Title:          ticket.Title,
		ProblemType:    ticket.ProblemType,
		Priority:       ticket.Priority,
		Status:         ticket.Status,
		ReporterID:     ticket.ReporterID,
		AssignedExpert: ticket.AssignedExpert,
		City:           ticket.City,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	return dto.TicketDetailResponse{
		ID:              ticket.ID,
		ExternalKey:     ticket.ExternalKey,
		Title:           ticket.Title,
		Description:     ticket.Description,
		ProblemType:     ticket.ProblemType,
		Priority:        ticket.Priority,
		Status:          ticket.Status,
		ReporterID:      ticket.ReporterID,
		AssignedExpert:  ticket.AssignedExpert,
		AssignedBy:      ticket.AssignedBy,
		City:            ticket.City,
		Address:         ticket.Address,
		ServiceProvider: ticket.ServiceProvider,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		AssignedAt:      ticket.AssignedAt,
		ResolvedAt:      ticket.ResolvedAt,
		ClosedAt:        ticket.ClosedAt,
	}
}
