package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SagFerNando/TELNET/internal/domain"
)

// ActivityRepository stores the immutable audit trail of workflow events.
type ActivityRepository interface {
	Create(ctx context.Context, record *domain.ActivityRecord) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.ActivityRecord, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository builds a Postgres-backed repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, record *domain.ActivityRecord) error {
	const query = `
        INSERT INTO ticket_activities (ticket_id, action, actor_id, actor_name, details)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		record.TicketID,
		record.Action,
		record.ActorID,
		record.ActorName,
		record.Details,
	).Scan(&record.ID, &record.CreatedAt)
}

// ListByTicket returns entries most recent first for audit display.
func (r *activityRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ActivityRecord, error) {
	const query = `
        SELECT id, ticket_id, action, actor_id, actor_name, details, created_at
        FROM ticket_activities WHERE ticket_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityRecord
	for rows.Next() {
		var record domain.ActivityRecord
		if err := rows.Scan(
			&record.ID,
			&record.TicketID,
			&record.Action,
			&record.ActorID,
			&record.ActorName,
			&record.Details,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
