package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/repository"
)

func seedTicket(t *testing.T, repos *Repositories, reporterID string, expertID *string, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		ExternalKey:    "TLN-" + reporterID + string(status),
		Title:          "Prueba",
		Description:    "Descripción",
		ProblemType:    domain.ProblemInternetLento,
		Priority:       domain.TicketPriorityMedia,
		Status:         status,
		ReporterID:     reporterID,
		AssignedExpert: expertID,
		City:           "Madrid",
		Address:        "Calle 1",
	}
	if err := repos.Tickets.Create(context.Background(), ticket); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	return ticket
}

func TestTicketGetUnknownReturnsNoRows(t *testing.T) {
	repos := NewRepositories()
	_, err := repos.Tickets.GetByID(context.Background(), "missing")
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("err = %v, want pgx.ErrNoRows", err)
	}
}

func TestTicketListScopesByRole(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()
	expertID := "expert-1"
	seedTicket(t, repos, "user-1", nil, domain.TicketStatusPendiente)
	seedTicket(t, repos, "user-2", &expertID, domain.TicketStatusAsignado)

	own, err := repos.Tickets.List(ctx, repository.TicketFilter{}, domain.RoleUsuario, "user-1")
	if err != nil {
		t.Fatalf("list usuario: %v", err)
	}
	if len(own) != 1 || own[0].ReporterID != "user-1" {
		t.Fatalf("usuario sees %+v, want only own ticket", own)
	}

	assigned, err := repos.Tickets.List(ctx, repository.TicketFilter{}, domain.RoleExperto, expertID)
	if err != nil {
		t.Fatalf("list experto: %v", err)
	}
	if len(assigned) != 1 || assigned[0].AssignedExpert == nil || *assigned[0].AssignedExpert != expertID {
		t.Fatalf("experto sees %+v, want only assigned ticket", assigned)
	}

	all, err := repos.Tickets.List(ctx, repository.TicketFilter{}, domain.RoleOperador, "op-1")
	if err != nil {
		t.Fatalf("list operador: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("operador sees %d tickets, want 2", len(all))
	}
}

func TestTicketUpdateStatusDetectsStaleState(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()
	ticket := seedTicket(t, repos, "user-1", nil, domain.TicketStatusPendiente)

	ticket.Status = domain.TicketStatusAsignado
	if err := repos.Tickets.UpdateStatus(ctx, ticket, domain.TicketStatusPendiente); err != nil {
		t.Fatalf("first update: %v", err)
	}

	ticket.Status = domain.TicketStatusEnProgreso
	err := repos.Tickets.UpdateStatus(ctx, ticket, domain.TicketStatusPendiente)
	if !errors.Is(err, repository.ErrStaleTicket) {
		t.Fatalf("err = %v, want ErrStaleTicket", err)
	}
}

func TestTicketListSearchFilter(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()
	ticket := seedTicket(t, repos, "user-1", nil, domain.TicketStatusPendiente)
	ticket.Title = "Router sin luces"
	if err := repos.Tickets.Update(ctx, ticket); err != nil {
		t.Fatalf("update: %v", err)
	}
	seedTicket(t, repos, "user-1", nil, domain.TicketStatusPendiente)

	search := "router"
	found, err := repos.Tickets.List(ctx, repository.TicketFilter{Search: &search}, domain.RoleOperador, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(found) != 1 || found[0].ID != ticket.ID {
		t.Fatalf("search found %+v, want the router ticket", found)
	}
}

func TestAdjustExpertCountersClampsAtZero(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()
	profile := &domain.Profile{
		Name:  "Marta",
		Email: "marta@example.com",
		Role:  domain.RoleExperto,
		Expert: &domain.ExpertProfile{
			Specializations: []string{"redes"},
		},
	}
	if err := repos.Profiles.Create(ctx, profile); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repos.Profiles.AdjustExpertCounters(ctx, profile.ID, -3, 1); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	stored, err := repos.Profiles.GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Expert.ActiveTickets != 0 || stored.Expert.TotalResolved != 1 {
		t.Fatalf("counters = (%d, %d), want (0, 1)", stored.Expert.ActiveTickets, stored.Expert.TotalResolved)
	}
}

func TestProfileUpdatePreservesCounters(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()
	profile := &domain.Profile{
		Name:  "Marta",
		Email: "marta@example.com",
		Role:  domain.RoleExperto,
		Expert: &domain.ExpertProfile{
			Specializations: []string{"redes"},
		},
	}
	if err := repos.Profiles.Create(ctx, profile); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repos.Profiles.AdjustExpertCounters(ctx, profile.ID, 2, 5); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	profile.Name = "Marta Ruiz"
	if err := repos.Profiles.Update(ctx, profile); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, err := repos.Profiles.GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Name != "Marta Ruiz" {
		t.Fatalf("name = %s", stored.Name)
	}
	if stored.Expert.ActiveTickets != 2 || stored.Expert.TotalResolved != 5 {
		t.Fatalf("counters = (%d, %d), want preserved (2, 5)", stored.Expert.ActiveTickets, stored.Expert.TotalResolved)
	}
}

func TestActivityListMostRecentFirst(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()
	for _, action := range []string{"created", "assigned", "status changed"} {
		record := &domain.ActivityRecord{TicketID: "t1", Action: action, ActorID: "a", ActorName: "A"}
		if err := repos.Activities.Create(ctx, record); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	records, err := repos.Activities.ListByTicket(ctx, "t1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 || records[0].Action != "status changed" || records[2].Action != "created" {
		t.Fatalf("records = %+v, want newest first", records)
	}
}
