package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/SagFerNando/TELNET/internal/api/dto"
	"github.com/SagFerNando/TELNET/internal/auth"
	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/service"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// MessagesHandler manages the chat thread of a ticket.
type MessagesHandler struct {
	chat *service.ChatService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(chat *service.ChatService) *MessagesHandler {
	return &MessagesHandler{chat: chat}
}

// AddMessage POST /tickets/:id/messages.
func (h *MessagesHandler) AddMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.chat.Append(c.UserContext(), principal, c.Params("id"), req.Content, req.ImageURL)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": messageResponse(msg)})
}

// ListMessages GET /tickets/:id/messages.
func (h *MessagesHandler) ListMessages(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	msgs, err := h.chat.List(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, messageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         msg.ID,
		TicketID:   msg.TicketID,
		SenderID:   msg.SenderID,
		SenderRole: msg.SenderRole,
		Content:    msg.Content,
		ImageURL:   msg.ImageURL,
		CreatedAt:  msg.CreatedAt,
	}
}
