package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/repository"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// IdentityService maps principal ids to their typed role view and owns
// profile maintenance. Expert counters are mutated exclusively through the
// workflow engine's repository access, never here.
type IdentityService struct {
	profiles repository.ProfileRepository
}

// NewIdentityService constructs the resolver.
func NewIdentityService(profiles repository.ProfileRepository) *IdentityService {
	return &IdentityService{profiles: profiles}
}

// Resolve returns the profile for a principal id.
func (s *IdentityService) Resolve(ctx context.Context, principalID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile", map[string]any{"principal_id": principalID})
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return profile, nil
}

// ListExperts returns the expert directory sorted by load ascending.
func (s *IdentityService) ListExperts(ctx context.Context) ([]domain.Profile, error) {
	experts, err := s.profiles.ListExperts(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return experts, nil
}

// ProfileUpdateInput carries the editable profile fields.
type ProfileUpdateInput struct {
	Name  string
	Phone string
	City  *string
}

// UpdateProfile edits name, phone and city. Role and counters are immutable
// through this path.
func (s *IdentityService) UpdateProfile(ctx context.Context, principalID string, input ProfileUpdateInput) (*domain.Profile, error) {
	profile, err := s.Resolve(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		profile.Name = name
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		profile.Phone = phone
	}
	if input.City != nil {
		city := strings.TrimSpace(*input.City)
		if city == "" {
			profile.City = nil
		} else {
			profile.City = &city
		}
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return profile, nil
}
