// Package memory provides map-backed implementations of the repository
// interfaces. They are used by the test suite and as a fallback when no
// POSTGRES_DSN is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/repository"
)

// Repositories bundles the in-memory implementations.
type Repositories struct {
	Tickets    *TicketRepository
	Profiles   *ProfileRepository
	Messages   *MessageRepository
	Activities *ActivityRepository
}

// NewRepositories builds an empty in-memory store set.
func NewRepositories() *Repositories {
	return &Repositories{
		Tickets:    &TicketRepository{rows: map[string]domain.Ticket{}},
		Profiles:   &ProfileRepository{rows: map[string]domain.Profile{}},
		Messages:   &MessageRepository{rows: map[string][]domain.Message{}},
		Activities: &ActivityRepository{rows: map[string][]domain.ActivityRecord{}},
	}
}

// TicketRepository is a map+mutex ticket store.
type TicketRepository struct {
	mu   sync.Mutex
	seq  int64
	ord  map[string]int64
	rows map[string]domain.Ticket
}

var _ repository.TicketRepository = (*TicketRepository)(nil)

func (r *TicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	if r.ord == nil {
		r.ord = map[string]int64{}
	}
	r.seq++
	r.ord[ticket.ID] = r.seq
	r.rows[ticket.ID] = *ticket
	return nil
}

func (r *TicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *TicketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.rows[ticket.ID] = *ticket
	return nil
}

func (r *TicketRepository) UpdateStatus(_ context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.rows[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if current.Status != expected {
		return repository.ErrStaleTicket
	}
	ticket.UpdatedAt = time.Now()
	r.rows[ticket.ID] = *ticket
	return nil
}

func (r *TicketRepository) List(_ context.Context, filter repository.TicketFilter, role domain.Role, principalID string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Ticket
	for _, ticket := range r.rows {
		switch role {
		case domain.RoleUsuario:
			if ticket.ReporterID != principalID {
				continue
			}
		case domain.RoleExperto:
			if ticket.AssignedExpert == nil || *ticket.AssignedExpert != principalID {
				continue
			}
		}
		if !matchesFilter(ticket, filter) {
			continue
		}
		result = append(result, ticket)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return r.ord[result[i].ID] > r.ord[result[j].ID]
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func matchesFilter(ticket domain.Ticket, filter repository.TicketFilter) bool {
	if filter.Status != nil && ticket.Status != *filter.Status {
		return false
	}
	if filter.ProblemType != nil && ticket.ProblemType != *filter.ProblemType {
		return false
	}
	if filter.Priority != nil && ticket.Priority != *filter.Priority {
		return false
	}
	if filter.City != nil && strings.TrimSpace(*filter.City) != "" && ticket.City != *filter.City {
		return false
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		needle := strings.ToLower(strings.TrimSpace(*filter.Search))
		title := strings.ToLower(ticket.Title)
		desc := strings.ToLower(ticket.Description)
		if !strings.Contains(title, needle) && !strings.Contains(desc, needle) {
			return false
		}
	}
	return true
}

// ProfileRepository is a map+mutex profile store.
type ProfileRepository struct {
	mu   sync.Mutex
	rows map[string]domain.Profile
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func (r *ProfileRepository) Create(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.rows[profile.ID] = cloneProfile(*profile)
	return nil
}

func (r *ProfileRepository) Update(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[profile.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	profile.UpdatedAt = time.Now()
	updated := cloneProfile(*profile)
	// counters are owned by AdjustExpertCounters, not profile updates
	if stored.Expert != nil && updated.Expert != nil {
		updated.Expert.ActiveTickets = stored.Expert.ActiveTickets
		updated.Expert.TotalResolved = stored.Expert.TotalResolved
	}
	r.rows[profile.ID] = updated
	return nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := cloneProfile(profile)
	return &copied, nil
}

func (r *ProfileRepository) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.rows {
		if strings.EqualFold(profile.Email, email) {
			copied := cloneProfile(profile)
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *ProfileRepository) ListExperts(_ context.Context) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Profile
	for _, profile := range r.rows {
		if profile.Role == domain.RoleExperto {
			result = append(result, cloneProfile(profile))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].Expert, result[j].Expert
		if a.ActiveTickets == b.ActiveTickets {
			return a.TotalResolved > b.TotalResolved
		}
		return a.ActiveTickets < b.ActiveTickets
	})
	return result, nil
}

func (r *ProfileRepository) AdjustExpertCounters(_ context.Context, expertID string, activeDelta, resolvedDelta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.rows[expertID]
	if !ok || profile.Expert == nil {
		return pgx.ErrNoRows
	}
	updated := cloneProfile(profile)
	updated.Expert.ActiveTickets += activeDelta
	if updated.Expert.ActiveTickets < 0 {
		updated.Expert.ActiveTickets = 0
	}
	updated.Expert.TotalResolved += resolvedDelta
	updated.UpdatedAt = time.Now()
	r.rows[expertID] = updated
	return nil
}

func cloneProfile(p domain.Profile) domain.Profile {
	if p.Expert != nil {
		expert := *p.Expert
		expert.Specializations = append([]string(nil), p.Expert.Specializations...)
		p.Expert = &expert
	}
	if p.Operator != nil {
		operator := *p.Operator
		p.Operator = &operator
	}
	return p
}

// MessageRepository is a map+mutex message log keyed by ticket id.
type MessageRepository struct {
	mu   sync.Mutex
	rows map[string][]domain.Message
}

var _ repository.MessageRepository = (*MessageRepository)(nil)

func (r *MessageRepository) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now()
	r.rows[msg.TicketID] = append(r.rows[msg.TicketID], *msg)
	return nil
}

// ListByTicket returns messages in insertion order, which matches ascending
// timestamps with insertion-order tie breaking.
func (r *MessageRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Message(nil), r.rows[ticketID]...), nil
}

// ActivityRepository is a map+mutex audit log keyed by ticket id.
type ActivityRepository struct {
	mu   sync.Mutex
	rows map[string][]domain.ActivityRecord
}

var _ repository.ActivityRepository = (*ActivityRepository)(nil)

func (r *ActivityRepository) Create(_ context.Context, record *domain.ActivityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now()
	r.rows[record.TicketID] = append(r.rows[record.TicketID], *record)
	return nil
}

// ListByTicket returns entries most recent first.
func (r *ActivityRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.ActivityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.rows[ticketID]
	result := make([]domain.ActivityRecord, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		result = append(result, stored[i])
	}
	return result, nil
}
