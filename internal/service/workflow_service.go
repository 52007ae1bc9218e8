package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/events"
	"github.com/SagFerNando/TELNET/internal/repository"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// WorkflowService enforces the ticket lifecycle state machine, role-gated
// transitions and their side effects (expert counters, audit trail, events).
type WorkflowService struct {
	tickets    repository.TicketRepository
	profiles   repository.ProfileRepository
	activities repository.ActivityRepository
	dispatcher events.Dispatcher
	locks      ticketLocks
}

// WorkflowDependencies bundles repositories for the workflow engine.
type WorkflowDependencies struct {
	TicketRepo   repository.TicketRepository
	ProfileRepo  repository.ProfileRepository
	ActivityRepo repository.ActivityRepository
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title           string
	Description     string
	ProblemType     domain.ProblemType
	Priority        domain.TicketPriority
	City            string
	Address         string
	ServiceProvider *string
}

// NewWorkflowService constructs the engine.
func NewWorkflowService(deps WorkflowDependencies) *WorkflowService {
	return &WorkflowService{
		tickets:    deps.TicketRepo,
		profiles:   deps.ProfileRepo,
		activities: deps.ActivityRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ticketLocks serializes transitions per ticket id so the from-state check
// and the resulting mutation are observed atomically.
type ticketLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *ticketLocks) forTicket(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	return lock
}

// CreateTicket files a new ticket for a reporter. Status always starts at
// pendiente with no expert assigned.
func (s *WorkflowService) CreateTicket(ctx context.Context, actor *domain.Profile, input TicketCreateInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if actor.Role != domain.RoleUsuario {
		return nil, apperrors.NewForbidden("solo los usuarios pueden crear tickets")
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		ProblemType: input.ProblemType,
		Priority:    input.Priority,
		Status:      domain.TicketStatusPendiente,
		ReporterID:  actor.ID,
		City:        strings.TrimSpace(input.City),
		Address:     strings.TrimSpace(input.Address),
	}
	if input.ServiceProvider != nil && strings.TrimSpace(*input.ServiceProvider) != "" {
		provider := strings.TrimSpace(*input.ServiceProvider)
		ticket.ServiceProvider = &provider
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if err := s.appendActivity(ctx, ticket.ID, domain.ActivityCreated, actor, nil); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{ID: actor.ID, Role: actor.Role},
		Payload: events.TicketCreatedPayload{
			Title:       ticket.Title,
			ProblemType: ticket.ProblemType,
			Priority:    ticket.Priority,
			City:        ticket.City,
		},
	})
	return ticket, nil
}

// Assign moves a pendiente ticket to asignado. Only operators assign, the
// target must resolve to an expert profile, and a second assign on a ticket
// that already left pendiente fails instead of overwriting the expert.
func (s *WorkflowService) Assign(ctx context.Context, actor *domain.Profile, ticketID, expertID string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if actor.Role != domain.RoleOperador {
		return nil, apperrors.NewForbidden("solo los operadores pueden asignar tickets")
	}
	if strings.TrimSpace(expertID) == "" {
		return nil, apperrors.NewValidationError("expertId requerido", nil)
	}

	expert, err := s.profiles.GetByID(ctx, expertID)
	if err != nil {
		return nil, s.storeErr(err, "expert")
	}
	if expert.Role != domain.RoleExperto {
		return nil, apperrors.NewNotFound("expert", map[string]any{"expert_id": expertID})
	}

	lock := s.locks.forTicket(ticketID)
	lock.Lock()
	defer lock.Unlock()

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.storeErr(err, "ticket")
	}
	if ticket.Status != domain.TicketStatusPendiente {
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(domain.TicketStatusAsignado))
	}

	now := time.Now()
	ticket.Status = domain.TicketStatusAsignado
	ticket.AssignedExpert = &expert.ID
	ticket.AssignedBy = &actor.ID
	ticket.AssignedAt = &now
	if err := s.tickets.UpdateStatus(ctx, ticket, domain.TicketStatusPendiente); err != nil {
		return nil, s.transitionErr(err, ticket.Status)
	}
	if err := s.profiles.AdjustExpertCounters(ctx, expert.ID, 1, 0); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	details := fmt.Sprintf("experto %s", expert.Name)
	if err := s.appendActivity(ctx, ticket.ID, domain.ActivityAssigned, actor, &details); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    events.Actor{ID: actor.ID, Role: actor.Role},
		Payload:  events.TicketAssignedPayload{ExpertID: expert.ID, OperatorID: actor.ID},
	})
	return ticket, nil
}

// StartWork moves an asignado ticket to en_progreso. Only the assigned
// expert may start work.
func (s *WorkflowService) StartWork(ctx context.Context, actor *domain.Profile, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, domain.TicketStatusEnProgreso,
		[]domain.TicketStatus{domain.TicketStatusAsignado},
		func(ticket *domain.Ticket) error {
			if !actor.IsAssignedExpert(ticket) {
				return apperrors.NewForbidden("solo el experto asignado puede iniciar el trabajo")
			}
			return nil
		},
		nil,
		nil,
	)
}

// Resolve moves an en_progreso ticket to resuelto, stamps resolvedAt and
// updates the expert's counters.
func (s *WorkflowService) Resolve(ctx context.Context, actor *domain.Profile, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, domain.TicketStatusResuelto,
		[]domain.TicketStatus{domain.TicketStatusEnProgreso},
		func(ticket *domain.Ticket) error {
			if !actor.IsAssignedExpert(ticket) {
				return apperrors.NewForbidden("solo el experto asignado puede resolver el ticket")
			}
			return nil
		},
		func(ticket *domain.Ticket, now time.Time) {
			ticket.ResolvedAt = &now
		},
		func(ticket *domain.Ticket) error {
			return s.profiles.AdjustExpertCounters(ctx, *ticket.AssignedExpert, -1, 1)
		},
	)
}

// Close moves a resuelto ticket to cerrado. The reporter or the assigned
// expert may close.
func (s *WorkflowService) Close(ctx context.Context, actor *domain.Profile, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, domain.TicketStatusCerrado,
		[]domain.TicketStatus{domain.TicketStatusResuelto},
		func(ticket *domain.Ticket) error {
			return requireParticipant(actor, ticket, "cerrar")
		},
		func(ticket *domain.Ticket, now time.Time) {
			ticket.ClosedAt = &now
		},
		nil,
	)
}

// Reopen moves a resuelto or cerrado ticket back to en_progreso, clears the
// resolution timestamps and restores the expert's active counter.
func (s *WorkflowService) Reopen(ctx context.Context, actor *domain.Profile, ticketID string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, domain.TicketStatusEnProgreso,
		[]domain.TicketStatus{domain.TicketStatusResuelto, domain.TicketStatusCerrado},
		func(ticket *domain.Ticket) error {
			return requireParticipant(actor, ticket, "reabrir")
		},
		func(ticket *domain.Ticket, _ time.Time) {
			ticket.ResolvedAt = nil
			ticket.ClosedAt = nil
		},
		func(ticket *domain.Ticket) error {
			if ticket.AssignedExpert != nil {
				return s.profiles.AdjustExpertCounters(ctx, *ticket.AssignedExpert, 1, 0)
			}
			return nil
		},
	)
}

// ChangeStatus dispatches a requested target status to the matching
// transition. Asignado is only reachable through Assign.
func (s *WorkflowService) ChangeStatus(ctx context.Context, actor *domain.Profile, ticketID string, target domain.TicketStatus) (*domain.Ticket, error) {
	if !target.Valid() {
		return nil, apperrors.NewValidationError("estado desconocido", map[string]any{"status": target})
	}
	switch target {
	case domain.TicketStatusEnProgreso:
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return nil, s.storeErr(err, "ticket")
		}
		if ticket.Status == domain.TicketStatusResuelto || ticket.Status == domain.TicketStatusCerrado {
			return s.Reopen(ctx, actor, ticketID)
		}
		return s.StartWork(ctx, actor, ticketID)
	case domain.TicketStatusResuelto:
		return s.Resolve(ctx, actor, ticketID)
	case domain.TicketStatusCerrado:
		return s.Close(ctx, actor, ticketID)
	default:
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return nil, s.storeErr(err, "ticket")
		}
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(target))
	}
}

// GetTicket fetches a ticket enforcing per-role visibility.
func (s *WorkflowService) GetTicket(ctx context.Context, actor *domain.Profile, ticketID string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.storeErr(err, "ticket")
	}
	if !canView(actor, ticket) {
		return nil, apperrors.NewForbidden("sin acceso a este ticket")
	}
	return ticket, nil
}

// ListTickets lists tickets visible to the actor; role scoping happens
// inside the store.
func (s *WorkflowService) ListTickets(ctx context.Context, actor *domain.Profile, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	tickets, err := s.tickets.List(ctx, filter, actor.Role, actor.ID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return tickets, nil
}

// ListActivities returns the audit trail, most recent first.
func (s *WorkflowService) ListActivities(ctx context.Context, actor *domain.Profile, ticketID string) ([]domain.ActivityRecord, error) {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	records, err := s.activities.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return records, nil
}

// transition runs the shared validate-mutate-record sequence under the
// per-ticket lock. authorize runs before the state check; stamp adjusts
// timestamps on the ticket; counters runs only after the compare-and-swap
// write succeeded.
func (s *WorkflowService) transition(
	ctx context.Context,
	actor *domain.Profile,
	ticketID string,
	target domain.TicketStatus,
	allowedFrom []domain.TicketStatus,
	authorize func(*domain.Ticket) error,
	stamp func(*domain.Ticket, time.Time),
	counters func(*domain.Ticket) error,
) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}

	lock := s.locks.forTicket(ticketID)
	lock.Lock()
	defer lock.Unlock()

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.storeErr(err, "ticket")
	}
	if err := authorize(ticket); err != nil {
		return nil, err
	}
	from := ticket.Status
	if !statusIn(from, allowedFrom) {
		return nil, apperrors.NewInvalidTransition(string(from), string(target))
	}

	ticket.Status = target
	if stamp != nil {
		stamp(ticket, time.Now())
	}
	if err := s.tickets.UpdateStatus(ctx, ticket, from); err != nil {
		return nil, s.transitionErr(err, target)
	}
	if counters != nil {
		if err := counters(ticket); err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
	}
	details := fmt.Sprintf("%s a %s", from, target)
	if err := s.appendActivity(ctx, ticket.ID, domain.ActivityStatusChanged, actor, &details); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    events.Actor{ID: actor.ID, Role: actor.Role},
		Payload:  events.TicketStatusChangedPayload{OldStatus: from, NewStatus: target},
	})
	return ticket, nil
}

func (s *WorkflowService) appendActivity(ctx context.Context, ticketID, action string, actor *domain.Profile, details *string) error {
	record := &domain.ActivityRecord{
		TicketID:  ticketID,
		Action:    action,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Details:   details,
	}
	if err := s.activities.Create(ctx, record); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	return nil
}

func (s *WorkflowService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *WorkflowService) storeErr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.NewStoreUnavailable(err)
}

func (s *WorkflowService) transitionErr(err error, target domain.TicketStatus) error {
	if errors.Is(err, repository.ErrStaleTicket) {
		return apperrors.NewInvalidTransition("concurrent", string(target))
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", nil)
	}
	return apperrors.NewStoreUnavailable(err)
}

func requireParticipant(actor *domain.Profile, ticket *domain.Ticket, verb string) error {
	if actor.Role == domain.RoleUsuario && ticket.ReporterID == actor.ID {
		return nil
	}
	if actor.IsAssignedExpert(ticket) {
		return nil
	}
	return apperrors.NewForbidden(fmt.Sprintf("solo el usuario o el experto asignado pueden %s el ticket", verb))
}

func canView(actor *domain.Profile, ticket *domain.Ticket) bool {
	switch actor.Role {
	case domain.RoleOperador:
		return true
	case domain.RoleUsuario:
		return ticket.ReporterID == actor.ID
	case domain.RoleExperto:
		return actor.IsAssignedExpert(ticket)
	}
	return false
}

func statusIn(status domain.TicketStatus, allowed []domain.TicketStatus) bool {
	for _, candidate := range allowed {
		if candidate == status {
			return true
		}
	}
	return false
}

func validateCreateInput(input TicketCreateInput) error {
	missing := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		missing["title"] = "required"
	}
	if strings.TrimSpace(input.Description) == "" {
		missing["description"] = "required"
	}
	if strings.TrimSpace(input.City) == "" {
		missing["city"] = "required"
	}
	if strings.TrimSpace(input.Address) == "" {
		missing["address"] = "required"
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("faltan campos requeridos", missing)
	}
	if !input.ProblemType.Valid() {
		return apperrors.NewValidationError("tipo de problema desconocido", map[string]any{"problem_type": input.ProblemType})
	}
	if !input.Priority.Valid() {
		return apperrors.NewValidationError("prioridad desconocida", map[string]any{"priority": input.Priority})
	}
	return nil
}

func generateTicketKey() string {
	return "TLN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
