package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SagFerNando/TELNET/internal/auth"
	"github.com/SagFerNando/TELNET/internal/config"
	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/repository"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	profiles   repository.ProfileRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, profiles repository.ProfileRepository) *AuthService {
	return &AuthService{
		profiles:   profiles,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterInput carries signup fields. Specializations are required for
// experts, Shift for operators.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	Phone           string
	City            *string
	Role            domain.Role
	Specializations []string
	ExperienceYears int
	Shift           string
}

// Register creates a profile with its role-specific record and returns a
// signed token. Role is fixed at registration and never changes.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Profile, string, time.Time, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, "", time.Time{}, err
	}

	if _, err := s.profiles.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("email ya registrado", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.NewStoreUnavailable(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	profile := &domain.Profile{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        strings.TrimSpace(input.Phone),
		City:         input.City,
		Role:         input.Role,
		PasswordHash: hash,
	}
	switch input.Role {
	case domain.RoleExperto:
		profile.Expert = &domain.ExpertProfile{
			Specializations: input.Specializations,
			ExperienceYears: input.ExperienceYears,
		}
	case domain.RoleOperador:
		profile.Operator = &domain.OperatorProfile{Shift: input.Shift}
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, "", time.Time{}, apperrors.NewStoreUnavailable(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(profile.ID, profile.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return profile, token, exp, nil
}

// Login authenticates a principal by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Profile, string, time.Time, error) {
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthenticated("credenciales inválidas")
		}
		return nil, "", time.Time{}, apperrors.NewStoreUnavailable(err)
	}
	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("credenciales inválidas")
	}
	token, exp, err := s.tokenMgr.GenerateToken(profile.ID, profile.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return profile, token, exp, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, principalID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("la nueva contraseña debe tener al menos 8 caracteres", nil)
	}
	profile, err := s.profiles.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("profile", nil)
		}
		return apperrors.NewStoreUnavailable(err)
	}
	if err := auth.ComparePassword(profile.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthenticated("credenciales inválidas")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	profile.PasswordHash = hash
	if err := s.profiles.Update(ctx, profile); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func validateRegisterInput(input RegisterInput) error {
	missing := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		missing["name"] = "required"
	}
	if strings.TrimSpace(input.Email) == "" {
		missing["email"] = "required"
	}
	if input.Password == "" {
		missing["password"] = "required"
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("faltan campos requeridos", missing)
	}
	if !input.Role.Valid() {
		return apperrors.NewValidationError("rol inválido", map[string]any{"role": input.Role})
	}
	if input.Role == domain.RoleExperto && len(input.Specializations) == 0 {
		return apperrors.NewValidationError("los expertos deben tener al menos una especialización", nil)
	}
	if input.Role == domain.RoleOperador && strings.TrimSpace(input.Shift) == "" {
		return apperrors.NewValidationError("los operadores deben especificar un turno", nil)
	}
	if len(input.Password) < 8 {
		return apperrors.NewValidationError("la contraseña debe tener al menos 8 caracteres", nil)
	}
	return nil
}
