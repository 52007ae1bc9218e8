package service

import (
	"context"
	"sort"
	"strings"

	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/repository"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// AdvisorService ranks candidate experts for a ticket. It is advisory only:
// the operator may still pick any expert regardless of ranking, and the
// service never assigns anything itself.
type AdvisorService struct {
	profiles repository.ProfileRepository
}

// NewAdvisorService constructs the service.
func NewAdvisorService(profiles repository.ProfileRepository) *AdvisorService {
	return &AdvisorService{profiles: profiles}
}

// specializationTags maps a problem category to the substrings that mark a
// matching expert specialization.
var specializationTags = map[domain.ProblemCategory][]string{
	domain.CategoryInternet:  {"internet", "redes", "fibra", "router", "adsl"},
	domain.CategoryTelefonia: {"telefon", "voip"},
}

// Recommend filters experts whose specializations match the ticket's problem
// category and sorts them by load ascending, ties broken by total resolved
// descending. When no expert matches, the full list is returned so the
// operator always has candidates.
func (s *AdvisorService) Recommend(ticket *domain.Ticket, experts []domain.Profile) []domain.Profile {
	candidates := make([]domain.Profile, 0, len(experts))
	for _, expert := range experts {
		if expert.Role != domain.RoleExperto || expert.Expert == nil {
			continue
		}
		candidates = append(candidates, expert)
	}

	matched := make([]domain.Profile, 0, len(candidates))
	category := ticket.ProblemType.Category()
	for _, expert := range candidates {
		if matchesCategory(expert.Expert.Specializations, category) {
			matched = append(matched, expert)
		}
	}
	if len(matched) == 0 {
		matched = candidates
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].Expert, matched[j].Expert
		if a.ActiveTickets == b.ActiveTickets {
			return a.TotalResolved > b.TotalResolved
		}
		return a.ActiveTickets < b.ActiveTickets
	})
	return matched
}

// RecommendForTicket loads the expert directory and ranks it for the ticket.
func (s *AdvisorService) RecommendForTicket(ctx context.Context, ticket *domain.Ticket) ([]domain.Profile, error) {
	experts, err := s.profiles.ListExperts(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return s.Recommend(ticket, experts), nil
}

func matchesCategory(specializations []string, category domain.ProblemCategory) bool {
	tags, ok := specializationTags[category]
	if !ok {
		// general problems are relevant to every expert
		return true
	}
	for _, spec := range specializations {
		lowered := strings.ToLower(spec)
		for _, tag := range tags {
			if strings.Contains(lowered, tag) {
				return true
			}
		}
	}
	return false
}
