package dto

import (
	"time"

	"github.com/SagFerNando/TELNET/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	ProblemType     domain.ProblemType    `json:"problem_type"`
	Priority        domain.TicketPriority `json:"priority"`
	City            string                `json:"city"`
	Address         string                `json:"address"`
	ServiceProvider *string               `json:"service_provider"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	ExpertID string `json:"expert_id"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketSummary response.
type TicketSummary struct {
	ID              string                `json:"id"`
	ExternalKey     string                `json:"external_key"`
	Title           string                `json:"title"`
	ProblemType     domain.ProblemType    `json:"problem_type"`
	Priority        domain.TicketPriority `json:"priority"`
	Status          domain.TicketStatus   `json:"status"`
	ReporterID      string                `json:"reporter_id"`
	AssignedExpert  *string               `json:"assigned_expert_id"`
	City            string                `json:"city"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID              string                `json:"id"`
	ExternalKey     string                `json:"external_key"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	ProblemType     domain.ProblemType    `json:"problem_type"`
	Priority        domain.TicketPriority `json:"priority"`
	Status          domain.TicketStatus   `json:"status"`
	ReporterID      string                `json:"reporter_id"`
	AssignedExpert  *string               `json:"assigned_expert_id"`
	AssignedBy      *string               `json:"assigned_by_id"`
	City            string                `json:"city"`
	Address         string                `json:"address"`
	ServiceProvider *string               `json:"service_provider"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	AssignedAt      *time.Time            `json:"assigned_at"`
	ResolvedAt      *time.Time            `json:"resolved_at"`
	ClosedAt        *time.Time            `json:"closed_at"`
}

// ActivityResponse is one audit-trail entry.
type ActivityResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Details   *string   `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
