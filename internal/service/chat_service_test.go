package service

import (
	"context"
	"testing"

	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/events"
)

type chatFixture struct {
	*workflowFixture
	chat *ChatService
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	base := newWorkflowFixture(t)
	chat := NewChatService(ChatDependencies{
		TicketRepo:  base.repos.Tickets,
		MessageRepo: base.repos.Messages,
		Dispatcher:  events.NewInMemoryDispatcher(),
	})
	return &chatFixture{workflowFixture: base, chat: chat}
}

func TestAppendMessageByParticipants(t *testing.T) {
	f := newChatFixture(t)
	ticket := f.createTicket(t)
	ctx := context.Background()

	mustTransition(t, func() (*domain.Ticket, error) { return f.workflow.Assign(ctx, f.operator, ticket.ID, f.expert.ID) })

	first, err := f.chat.Append(ctx, f.reporter, ticket.ID, "El router sigue sin encender", nil)
	if err != nil {
		t.Fatalf("reporter message: %v", err)
	}
	image := "https://cdn.example.com/foto-router.jpg"
	second, err := f.chat.Append(ctx, f.expert, ticket.ID, "¿Puede enviar una foto de las luces?", &image)
	if err != nil {
		t.Fatalf("expert message: %v", err)
	}
	if second.ImageURL == nil || *second.ImageURL != image {
		t.Fatalf("imageURL = %v, want %s", second.ImageURL, image)
	}

	msgs, err := f.chat.List(ctx, f.operator, ticket.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].ID != first.ID || msgs[1].ID != second.ID {
		t.Fatal("messages not in chronological order")
	}
	if msgs[0].SenderRole != domain.RoleUsuario || msgs[1].SenderRole != domain.RoleExperto {
		t.Fatalf("sender roles = %s, %s", msgs[0].SenderRole, msgs[1].SenderRole)
	}
}

func TestOperatorCannotPostMessages(t *testing.T) {
	f := newChatFixture(t)
	ticket := f.createTicket(t)

	_, err := f.chat.Append(context.Background(), f.operator, ticket.ID, "hola", nil)
	if code := domainErrCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}
}

func TestUnassignedExpertCannotPost(t *testing.T) {
	f := newChatFixture(t)
	ticket := f.createTicket(t)

	_, err := f.chat.Append(context.Background(), f.expert, ticket.ID, "hola", nil)
	if code := domainErrCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}
}

func TestAppendToUnknownTicket(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.chat.Append(context.Background(), f.reporter, "no-such-ticket", "hola", nil)
	if code := domainErrCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s, want NOT_FOUND", code)
	}
}

func TestAppendRequiresContent(t *testing.T) {
	f := newChatFixture(t)
	ticket := f.createTicket(t)

	_, err := f.chat.Append(context.Background(), f.reporter, ticket.ID, "   ", nil)
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestListMessagesVisibility(t *testing.T) {
	f := newChatFixture(t)
	ticket := f.createTicket(t)
	ctx := context.Background()
	stranger := seedProfile(t, f.repos, "Eva Sanz", "eva2@example.com", domain.RoleUsuario, nil)

	if _, err := f.chat.Append(ctx, f.reporter, ticket.ID, "hola", nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := f.chat.List(ctx, stranger, ticket.ID); err == nil {
		t.Fatal("stranger read a foreign thread")
	}
	if _, err := f.chat.List(ctx, f.reporter, ticket.ID); err != nil {
		t.Fatalf("reporter list: %v", err)
	}
}
