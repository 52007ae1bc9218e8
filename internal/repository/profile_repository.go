package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SagFerNando/TELNET/internal/domain"
)

// ProfileRepository handles persistence for principals of all roles.
// AdjustExpertCounters is reserved for the workflow engine.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	Update(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	ListExperts(ctx context.Context) ([]domain.Profile, error)
	AdjustExpertCounters(ctx context.Context, expertID string, activeDelta, resolvedDelta int) error
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates a Postgres-backed repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	const query = `
        INSERT INTO profiles (name, email, phone, city, role, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		profile.Name,
		profile.Email,
		profile.Phone,
		profile.City,
		profile.Role,
		profile.PasswordHash,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return err
	}

	switch profile.Role {
	case domain.RoleExperto:
		const expertQuery = `
            INSERT INTO experts (id, specializations, experience_years, active_tickets, total_resolved)
            VALUES ($1,$2,$3,0,0)`
		_, err := r.pool.Exec(ctx, expertQuery, profile.ID, profile.Expert.Specializations, profile.Expert.ExperienceYears)
		return err
	case domain.RoleOperador:
		const operatorQuery = `INSERT INTO operators (id, shift) VALUES ($1,$2)`
		_, err := r.pool.Exec(ctx, operatorQuery, profile.ID, profile.Operator.Shift)
		return err
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	const query = `
        UPDATE profiles SET name=$1, phone=$2, city=$3, password_hash=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		profile.Name,
		profile.Phone,
		profile.City,
		profile.PasswordHash,
		profile.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `
        SELECT id, name, email, phone, city, role, password_hash, created_at, updated_at
        FROM profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	const query = `
        SELECT id, name, email, phone, city, role, password_hash, created_at, updated_at
        FROM profiles WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *profileRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Phone,
		&profile.City,
		&profile.Role,
		&profile.PasswordHash,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := r.attachRoleRecord(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) attachRoleRecord(ctx context.Context, profile *domain.Profile) error {
	switch profile.Role {
	case domain.RoleExperto:
		const query = `
            SELECT specializations, experience_years, active_tickets, total_resolved
            FROM experts WHERE id=$1`
		expert := &domain.ExpertProfile{}
		if err := r.pool.QueryRow(ctx, query, profile.ID).Scan(
			&expert.Specializations,
			&expert.ExperienceYears,
			&expert.ActiveTickets,
			&expert.TotalResolved,
		); err != nil {
			return err
		}
		profile.Expert = expert
	case domain.RoleOperador:
		const query = `SELECT shift FROM operators WHERE id=$1`
		operator := &domain.OperatorProfile{}
		if err := r.pool.QueryRow(ctx, query, profile.ID).Scan(&operator.Shift); err != nil {
			return err
		}
		profile.Operator = operator
	}
	return nil
}

func (r *profileRepository) ListExperts(ctx context.Context) ([]domain.Profile, error) {
	const query = `
        SELECT p.id, p.name, p.email, p.phone, p.city, p.role, p.password_hash, p.created_at, p.updated_at,
               e.specializations, e.experience_years, e.active_tickets, e.total_resolved
        FROM profiles p
        JOIN experts e ON e.id = p.id
        WHERE p.role = $1
        ORDER BY e.active_tickets ASC, e.total_resolved DESC`
	rows, err := r.pool.Query(ctx, query, domain.RoleExperto)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Profile
	for rows.Next() {
		var profile domain.Profile
		expert := &domain.ExpertProfile{}
		if err := rows.Scan(
			&profile.ID,
			&profile.Name,
			&profile.Email,
			&profile.Phone,
			&profile.City,
			&profile.Role,
			&profile.PasswordHash,
			&profile.CreatedAt,
			&profile.UpdatedAt,
			&expert.Specializations,
			&expert.ExperienceYears,
			&expert.ActiveTickets,
			&expert.TotalResolved,
		); err != nil {
			return nil, err
		}
		profile.Expert = expert
		result = append(result, profile)
	}
	return result, rows.Err()
}

func (r *profileRepository) AdjustExpertCounters(ctx context.Context, expertID string, activeDelta, resolvedDelta int) error {
	const query = `
        UPDATE experts
        SET active_tickets = GREATEST(active_tickets + $1, 0),
            total_resolved = total_resolved + $2
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, activeDelta, resolvedDelta, expertID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
