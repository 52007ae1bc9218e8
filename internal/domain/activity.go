package domain

import "time"

// Activity actions written by the workflow engine.
const (
	ActivityCreated       = "created"
	ActivityAssigned      = "assigned"
	ActivityStatusChanged = "status changed"
)

// ActivityRecord is an immutable audit-trail entry for a ticket.
type ActivityRecord struct {
	ID        string
	TicketID  string
	Action    string
	ActorID   string
	ActorName string
	Details   *string
	CreatedAt time.Time
}
