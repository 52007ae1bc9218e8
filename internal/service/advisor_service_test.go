package service

import (
	"context"
	"testing"

	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/repository/memory"
)

func expertProfile(name string, specializations []string, active, resolved int) domain.Profile {
	return domain.Profile{
		ID:   name,
		Name: name,
		Role: domain.RoleExperto,
		Expert: &domain.ExpertProfile{
			Specializations: specializations,
			ActiveTickets:   active,
			TotalResolved:   resolved,
		},
	}
}

func TestRecommendFiltersByCategory(t *testing.T) {
	advisor := NewAdvisorService(nil)
	ticket := &domain.Ticket{ProblemType: domain.ProblemInternetSinConexion}
	experts := []domain.Profile{
		expertProfile("redes", []string{"Redes y Fibra"}, 2, 10),
		expertProfile("voip", []string{"Telefonía VoIP"}, 0, 3),
	}

	ranked := advisor.Recommend(ticket, experts)
	if len(ranked) != 1 || ranked[0].ID != "redes" {
		t.Fatalf("ranked = %+v, want only the network expert", ranked)
	}
}

func TestRecommendOrdersByLoadThenResolved(t *testing.T) {
	advisor := NewAdvisorService(nil)
	ticket := &domain.Ticket{ProblemType: domain.ProblemTelefonoRuido}
	experts := []domain.Profile{
		expertProfile("busy", []string{"telefonía"}, 3, 50),
		expertProfile("idle-junior", []string{"telefonía"}, 0, 2),
		expertProfile("idle-senior", []string{"VoIP"}, 0, 20),
	}

	ranked := advisor.Recommend(ticket, experts)
	if len(ranked) != 3 {
		t.Fatalf("ranked = %d experts, want 3", len(ranked))
	}
	if ranked[0].ID != "idle-senior" || ranked[1].ID != "idle-junior" || ranked[2].ID != "busy" {
		t.Fatalf("order = [%s %s %s], want [idle-senior idle-junior busy]",
			ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
}

func TestRecommendFallsBackToAllExperts(t *testing.T) {
	advisor := NewAdvisorService(nil)
	ticket := &domain.Ticket{ProblemType: domain.ProblemInternetLento}
	experts := []domain.Profile{
		expertProfile("voip-a", []string{"VoIP"}, 2, 1),
		expertProfile("voip-b", []string{"centralitas"}, 0, 5),
	}

	ranked := advisor.Recommend(ticket, experts)
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d, want full fallback list", len(ranked))
	}
	if ranked[0].ID != "voip-b" {
		t.Fatalf("first = %s, want least loaded expert", ranked[0].ID)
	}
}

func TestRecommendGeneralMatchesEveryone(t *testing.T) {
	advisor := NewAdvisorService(nil)
	ticket := &domain.Ticket{ProblemType: domain.ProblemOtro}
	experts := []domain.Profile{
		expertProfile("a", []string{"redes"}, 1, 0),
		expertProfile("b", []string{"telefonía"}, 0, 0),
	}

	ranked := advisor.Recommend(ticket, experts)
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d, want 2 for a general problem", len(ranked))
	}
}

func TestRecommendSkipsNonExperts(t *testing.T) {
	advisor := NewAdvisorService(nil)
	ticket := &domain.Ticket{ProblemType: domain.ProblemOtro}
	experts := []domain.Profile{
		{ID: "op", Role: domain.RoleOperador},
		expertProfile("a", []string{"redes"}, 0, 0),
	}

	ranked := advisor.Recommend(ticket, experts)
	if len(ranked) != 1 || ranked[0].ID != "a" {
		t.Fatalf("ranked = %+v, want only the expert", ranked)
	}
}

func TestRecommendForTicketLoadsDirectory(t *testing.T) {
	repos := memory.NewRepositories()
	ctx := context.Background()
	for _, p := range []domain.Profile{
		expertProfile("fibra", []string{"fibra óptica"}, 1, 4),
		expertProfile("adsl", []string{"ADSL"}, 0, 1),
	} {
		profile := p
		profile.ID = ""
		profile.Email = p.Name + "@example.com"
		if err := repos.Profiles.Create(ctx, &profile); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	advisor := NewAdvisorService(repos.Profiles)
	ranked, err := advisor.RecommendForTicket(ctx, &domain.Ticket{ProblemType: domain.ProblemFibraSinSenal})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d, want 2", len(ranked))
	}
	if ranked[0].Name != "adsl" {
		t.Fatalf("first = %s, want the idle expert", ranked[0].Name)
	}
}
