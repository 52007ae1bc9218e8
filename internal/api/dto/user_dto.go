package dto

import (
	"time"

	"github.com/SagFerNando/TELNET/internal/domain"
)

// RegisterRequest payload for new principals. Specializations apply to
// experts, Shift to operators.
type RegisterRequest struct {
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	Phone           string      `json:"phone"`
	City            *string     `json:"city"`
	Role            domain.Role `json:"role"`
	Specializations []string    `json:"specializations"`
	ExperienceYears int         `json:"experience_years"`
	Shift           string      `json:"shift"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateProfileRequest payload for profile edits.
type UpdateProfileRequest struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	City  *string `json:"city"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   ProfileResponse `json:"profile"`
}

// ProfileResponse is the public view of a principal.
type ProfileResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	City      *string           `json:"city"`
	Role      domain.Role       `json:"role"`
	Expert    *ExpertResponse   `json:"expert,omitempty"`
	Operator  *OperatorResponse `json:"operator,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ExpertResponse exposes expert-only attributes including the workload
// counters.
type ExpertResponse struct {
	Specializations []string `json:"specializations"`
	ExperienceYears int      `json:"experience_years"`
	ActiveTickets   int      `json:"activeTickets"`
	TotalResolved   int      `json:"totalResolved"`
}

// OperatorResponse exposes operator-only attributes.
type OperatorResponse struct {
	Shift string `json:"shift"`
}
