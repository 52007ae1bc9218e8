package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SagFerNando/TELNET/internal/domain"
)

// ErrStaleTicket is returned by UpdateStatus when the ticket left the
// expected state between read and write.
var ErrStaleTicket = errors.New("ticket status changed concurrently")

// TicketFilter captures optional listing filters. All set fields are ANDed.
type TicketFilter struct {
	Status      *domain.TicketStatus
	ProblemType *domain.ProblemType
	Priority    *domain.TicketPriority
	City        *string
	Search      *string
}

// TicketRepository encapsulates ticket persistence. List enforces role
// scoping internally: usuario sees own tickets, experto sees assigned
// tickets, operador sees everything.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	UpdateStatus(ctx context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error
	List(ctx context.Context, filter TicketFilter, role domain.Role, principalID string) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates a Postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, external_key, title, description, problem_type, priority, status,
               reporter_id, assigned_expert_id, assigned_by_id, city, address, service_provider,
               created_at, updated_at, assigned_at, resolved_at, closed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, title, description, problem_type, priority, status,
            reporter_id, city, address, service_provider)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.Title,
		ticket.Description,
		ticket.ProblemType,
		ticket.Priority,
		ticket.Status,
		ticket.ReporterID,
		ticket.City,
		ticket.Address,
		ticket.ServiceProvider,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketFields(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, problem_type=$3, priority=$4, status=$5,
            assigned_expert_id=$6, assigned_by_id=$7, city=$8, address=$9, service_provider=$10,
            assigned_at=$11, resolved_at=$12, closed_at=$13, updated_at=NOW()
        WHERE id=$14`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.ProblemType,
		ticket.Priority,
		ticket.Status,
		ticket.AssignedExpert,
		ticket.AssignedBy,
		ticket.City,
		ticket.Address,
		ticket.ServiceProvider,
		ticket.AssignedAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus is a compare-and-swap write: it only applies the mutation when
// the stored status still equals expected.
func (r *ticketRepository) UpdateStatus(ctx context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error {
	const query = `
        UPDATE tickets SET status=$1, assigned_expert_id=$2, assigned_by_id=$3,
            assigned_at=$4, resolved_at=$5, closed_at=$6, updated_at=NOW()
        WHERE id=$7 AND status=$8
        RETURNING updated_at`
	if err := r.pool.QueryRow(ctx, query,
		ticket.Status,
		ticket.AssignedExpert,
		ticket.AssignedBy,
		ticket.AssignedAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ID,
		expected,
	).Scan(&ticket.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStaleTicket
		}
		return err
	}
	return nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter, role domain.Role, principalID string) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	switch role {
	case domain.RoleUsuario:
		args = append(args, principalID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	case domain.RoleExperto:
		args = append(args, principalID)
		clauses = append(clauses, fmt.Sprintf("assigned_expert_id=$%d", len(args)))
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.ProblemType != nil {
		args = append(args, *filter.ProblemType)
		clauses = append(clauses, fmt.Sprintf("problem_type=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.City != nil && strings.TrimSpace(*filter.City) != "" {
		args = append(args, *filter.City)
		clauses = append(clauses, fmt.Sprintf("city=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC`, base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(ticketFields(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func ticketFields(t *domain.Ticket) []any {
	return []any{
		&t.ID,
		&t.ExternalKey,
		&t.Title,
		&t.Description,
		&t.ProblemType,
		&t.Priority,
		&t.Status,
		&t.ReporterID,
		&t.AssignedExpert,
		&t.AssignedBy,
		&t.City,
		&t.Address,
		&t.ServiceProvider,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.AssignedAt,
		&t.ResolvedAt,
		&t.ClosedAt,
	}
}
