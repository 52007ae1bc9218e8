package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/events"
	"github.com/SagFerNando/TELNET/internal/repository"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// ChatService manages the append-only message thread of a ticket. Only the
// reporter and the assigned expert participate; operators read the thread
// but never post.
type ChatService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	dispatcher events.Dispatcher
}

// ChatDependencies bundles repositories for the chat service.
type ChatDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	Dispatcher  events.Dispatcher
}

// NewChatService constructs the service.
func NewChatService(deps ChatDependencies) *ChatService {
	return &ChatService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Append adds a message to the ticket thread. imageURL, when set, is an
// opaque reference to an externally stored image; the log never holds bytes.
func (s *ChatService) Append(ctx context.Context, sender *domain.Profile, ticketID, content string, imageURL *string) (*domain.Message, error) {
	if sender == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("contenido requerido", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}

	switch {
	case sender.Role == domain.RoleUsuario && ticket.ReporterID == sender.ID:
	case sender.IsAssignedExpert(ticket):
	default:
		return nil, apperrors.NewForbidden("solo el usuario y el experto asignado participan en el chat")
	}

	msg := &domain.Message{
		TicketID:   ticket.ID,
		SenderID:   sender.ID,
		SenderRole: sender.Role,
		Content:    strings.TrimSpace(content),
	}
	if imageURL != nil && strings.TrimSpace(*imageURL) != "" {
		ref := strings.TrimSpace(*imageURL)
		msg.ImageURL = &ref
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:       uuid.NewString(),
			Type:     events.EventMessageAdded,
			TicketID: ticket.ID,
			Actor:    events.Actor{ID: sender.ID, Role: sender.Role},
			Payload: events.MessageAddedPayload{
				MessageID:  msg.ID,
				SenderID:   msg.SenderID,
				SenderRole: msg.SenderRole,
				HasImage:   msg.ImageURL != nil,
			},
		})
	}
	return msg, nil
}

// List returns the thread ascending by timestamp. Visibility follows ticket
// visibility: reporter, assigned expert, or any operator.
func (s *ChatService) List(ctx context.Context, actor *domain.Profile, ticketID string) ([]domain.Message, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if !canView(actor, ticket) {
		return nil, apperrors.NewForbidden("sin acceso a este ticket")
	}
	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return msgs, nil
}
