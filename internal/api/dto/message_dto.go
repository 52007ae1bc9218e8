package dto

import (
	"time"

	"github.com/SagFerNando/TELNET/internal/domain"
)

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

// MessageResponse represents one chat turn.
type MessageResponse struct {
	ID         string      `json:"id"`
	TicketID   string      `json:"ticket_id"`
	SenderID   string      `json:"sender_id"`
	SenderRole domain.Role `json:"sender_role"`
	Content    string      `json:"content"`
	ImageURL   *string     `json:"image_url"`
	CreatedAt  time.Time   `json:"created_at"`
}
