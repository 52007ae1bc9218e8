package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/SagFerNando/TELNET/internal/api/dto"
	"github.com/SagFerNando/TELNET/internal/auth"
	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/service"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

// AuthHandler manages registration, login and profile endpoints.
type AuthHandler struct {
	authService *service.AuthService
	identity    *service.IdentityService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, identity *service.IdentityService) *AuthHandler {
	return &AuthHandler{authService: authService, identity: identity}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, token, exp, err := h.authService.Register(c.UserContext(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Phone:           req.Phone,
		City:            req.City,
		Role:            req.Role,
		Specializations: req.Specializations,
		ExperienceYears: req.ExperienceYears,
		Shift:           req.Shift,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		Profile:   profileResponse(profile),
	}})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, token, exp, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		Profile:   profileResponse(profile),
	}})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	return c.JSON(fiber.Map{"data": profileResponse(principal)})
}

// ChangePassword POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.authService.ChangePassword(c.UserContext(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// UpdateProfile PUT /auth/profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, err := h.identity.UpdateProfile(c.UserContext(), principal.ID, service.ProfileUpdateInput{
		Name:  req.Name,
		Phone: req.Phone,
		City:  req.City,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile)})
}

func profileResponse(profile *domain.Profile) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		ID:        profile.ID,
		Name:      profile.Name,
		Email:     profile.Email,
		Phone:     profile.Phone,
		City:      profile.City,
		Role:      profile.Role,
		CreatedAt: profile.CreatedAt,
	}
	if profile.Expert != nil {
		resp.Expert = &dto.ExpertResponse{
			Specializations: profile.Expert.Specializations,
			ExperienceYears: profile.Expert.ExperienceYears,
			ActiveTickets:   profile.Expert.ActiveTickets,
			TotalResolved:   profile.Expert.TotalResolved,
		}
	}
	if profile.Operator != nil {
		resp.Operator = &dto.OperatorResponse{Shift: profile.Operator.Shift}
	}
	return resp
}
