package service

import (
	"context"

	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/repository"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// StatsService aggregates per-role dashboard counters.
type StatsService struct {
	tickets  repository.TicketRepository
	profiles repository.ProfileRepository
}

// NewStatsService constructs the service.
func NewStatsService(tickets repository.TicketRepository, profiles repository.ProfileRepository) *StatsService {
	return &StatsService{tickets: tickets, profiles: profiles}
}

// OperatorStats counts all tickets per status.
type OperatorStats struct {
	TotalTickets int `json:"totalTickets"`
	Pendientes   int `json:"pendientes"`
	Asignados    int `json:"asignados"`
	EnProgreso   int `json:"enProgreso"`
	Resueltos    int `json:"resueltos"`
	Cerrados     int `json:"cerrados"`
}

// ExpertStats mixes counter state with assigned ticket counts.
type ExpertStats struct {
	ActiveTickets int `json:"activeTickets"`
	TotalResolved int `json:"totalResolved"`
	EnProgreso    int `json:"enProgreso"`
	Resueltos     int `json:"resueltos"`
}

// ReporterStats counts the principal's own tickets.
type ReporterStats struct {
	TotalTickets int `json:"totalTickets"`
	Pendientes   int `json:"pendientes"`
	EnProgreso   int `json:"enProgreso"`
	Resueltos    int `json:"resueltos"`
}

// ForPrincipal computes the dashboard numbers matching the actor's role.
func (s *StatsService) ForPrincipal(ctx context.Context, actor *domain.Profile) (any, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{}, actor.Role, actor.ID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	switch actor.Role {
	case domain.RoleOperador:
		stats := OperatorStats{TotalTickets: len(tickets)}
		for _, ticket := range tickets {
			switch ticket.Status {
			case domain.TicketStatusPendiente:
				stats.Pendientes++
			case domain.TicketStatusAsignado:
				stats.Asignados++
			case domain.TicketStatusEnProgreso:
				stats.EnProgreso++
			case domain.TicketStatusResuelto:
				stats.Resueltos++
			case domain.TicketStatusCerrado:
				stats.Cerrados++
			}
		}
		return stats, nil
	case domain.RoleExperto:
		stats := ExpertStats{}
		if actor.Expert != nil {
			stats.ActiveTickets = actor.Expert.ActiveTickets
			stats.TotalResolved = actor.Expert.TotalResolved
		}
		for _, ticket := range tickets {
			switch ticket.Status {
			case domain.TicketStatusEnProgreso:
				stats.EnProgreso++
			case domain.TicketStatusResuelto:
				stats.Resueltos++
			}
		}
		return stats, nil
	default:
		stats := ReporterStats{TotalTickets: len(tickets)}
		for _, ticket := range tickets {
			switch ticket.Status {
			case domain.TicketStatusPendiente:
				stats.Pendientes++
			case domain.TicketStatusAsignado, domain.TicketStatusEnProgreso:
				stats.EnProgreso++
			case domain.TicketStatusResuelto:
				stats.Resueltos++
			}
		}
		return stats, nil
	}
}
