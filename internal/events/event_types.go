package events

import (
	"time"

	"github.com/SagFerNando/TELNET/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventMessageAdded        EventType = "message_added"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// Event represents a domain event emitted by services. Delivery is best
// effort; no correctness depends on a subscriber receiving it.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title       string                `json:"title"`
	ProblemType domain.ProblemType    `json:"problem_type"`
	Priority    domain.TicketPriority `json:"priority"`
	City        string                `json:"city"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	ExpertID   string `json:"expert_id"`
	OperatorID string `json:"operator_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// MessageAddedPayload payload.
type MessageAddedPayload struct {
	MessageID  string      `json:"message_id"`
	SenderID   string      `json:"sender_id"`
	SenderRole domain.Role `json:"sender_role"`
	HasImage   bool        `json:"has_image"`
}
