package service

import (
	"context"
	"testing"

	"github.com/SagFerNando/TELNET/internal/domain"
)

func TestStatsForOperator(t *testing.T) {
	f := newWorkflowFixture(t)
	stats := NewStatsService(f.repos.Tickets, f.repos.Profiles)
	ctx := context.Background()

	first := f.createTicket(t)
	f.createTicket(t)
	mustTransition(t, func() (*domain.Ticket, error) { return f.workflow.Assign(ctx, f.operator, first.ID, f.expert.ID) })

	result, err := stats.ForPrincipal(ctx, f.operator)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	operatorStats, ok := result.(OperatorStats)
	if !ok {
		t.Fatalf("result type = %T, want OperatorStats", result)
	}
	if operatorStats.TotalTickets != 2 || operatorStats.Pendientes != 1 || operatorStats.Asignados != 1 {
		t.Fatalf("stats = %+v", operatorStats)
	}
}

func TestStatsForExpertUsesCounters(t *testing.T) {
	f := newWorkflowFixture(t)
	stats := NewStatsService(f.repos.Tickets, f.repos.Profiles)
	ctx := context.Background()

	ticket := f.createTicket(t)
	mustTransition(t, func() (*domain.Ticket, error) { return f.workflow.Assign(ctx, f.operator, ticket.ID, f.expert.ID) })
	mustTransition(t, func() (*domain.Ticket, error) { return f.workflow.StartWork(ctx, f.expert, ticket.ID) })

	// reload so the counter state reflects the assignment
	expert, err := f.repos.Profiles.GetByID(ctx, f.expert.ID)
	if err != nil {
		t.Fatalf("load expert: %v", err)
	}

	result, err := stats.ForPrincipal(ctx, expert)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	expertStats, ok := result.(ExpertStats)
	if !ok {
		t.Fatalf("result type = %T, want ExpertStats", result)
	}
	if expertStats.ActiveTickets != 1 || expertStats.EnProgreso != 1 {
		t.Fatalf("stats = %+v", expertStats)
	}
}

func TestStatsForReporterScopesOwnTickets(t *testing.T) {
	f := newWorkflowFixture(t)
	stats := NewStatsService(f.repos.Tickets, f.repos.Profiles)
	ctx := context.Background()
	other := seedProfile(t, f.repos, "Eva Sanz", "eva3@example.com", domain.RoleUsuario, nil)

	f.createTicket(t)
	if _, err := f.workflow.CreateTicket(ctx, other, TicketCreateInput{
		Title:       "ADSL lento",
		Description: "Velocidad muy baja por la tarde",
		ProblemType: domain.ProblemAdslLento,
		Priority:    domain.TicketPriorityBaja,
		City:        "Bilbao",
		Address:     "Gran Vía 10",
	}); err != nil {
		t.Fatalf("create other ticket: %v", err)
	}

	result, err := stats.ForPrincipal(ctx, f.reporter)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	reporterStats, ok := result.(ReporterStats)
	if !ok {
		t.Fatalf("result type = %T, want ReporterStats", result)
	}
	if reporterStats.TotalTickets != 1 || reporterStats.Pendientes != 1 {
		t.Fatalf("stats = %+v", reporterStats)
	}
}
