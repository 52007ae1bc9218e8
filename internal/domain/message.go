package domain

import "time"

// Message is one chat turn bound to a ticket. Operators do not participate
// in ticket chat, so SenderRole is always usuario or experto. The thread is
// append-only; messages are never edited or deleted.
type Message struct {
	ID         string
	TicketID   string
	SenderID   string
	SenderRole Role
	Content    string
	ImageURL   *string
	CreatedAt  time.Time
}
