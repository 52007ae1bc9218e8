package domain

import "time"

// Role is the closed set of principal roles. A profile has exactly one role
// and it never changes after registration.
type Role string

const (
	RoleUsuario  Role = "usuario"
	RoleOperador Role = "operador"
	RoleExperto  Role = "experto"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUsuario, RoleOperador, RoleExperto:
		return true
	}
	return false
}

// ExpertProfile carries the fields that only exist for experts. ActiveTickets
// and TotalResolved are denormalized counters maintained by the workflow
// engine alone.
type ExpertProfile struct {
	Specializations []string
	ExperienceYears int
	ActiveTickets   int
	TotalResolved   int
}

// OperatorProfile carries operator-only attributes.
type OperatorProfile struct {
	Shift string
}

// Profile is the typed view of an authenticated principal. Expert and
// Operator are populated only for the matching role.
type Profile struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	City         *string
	Role         Role
	PasswordHash string
	Expert       *ExpertProfile
	Operator     *OperatorProfile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAssignedExpert reports whether the profile is the expert currently
// assigned to the ticket.
func (p *Profile) IsAssignedExpert(ticket *Ticket) bool {
	if p == nil || p.Role != RoleExperto || ticket.AssignedExpert == nil {
		return false
	}
	return *ticket.AssignedExpert == p.ID
}
