package service

import (
	"context"
	"testing"

	"github.com/SagFerNando/TELNET/internal/config"
	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/repository/memory"
)

func newAuthService() (*AuthService, *memory.Repositories) {
	repos := memory.NewRepositories()
	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            4,
	}
	return NewAuthService(cfg, repos.Profiles), repos
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	profile, token, _, err := svc.Register(ctx, RegisterInput{
		Name:     "Ana García",
		Email:    "Ana@Example.com",
		Password: "secreto123",
		Phone:    "600111222",
		Role:     domain.RoleUsuario,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatal("register returned empty token")
	}
	if profile.Email != "ana@example.com" {
		t.Fatalf("email = %s, want lowercased", profile.Email)
	}

	logged, _, _, err := svc.Login(ctx, "ana@example.com", "secreto123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != profile.ID {
		t.Fatalf("login resolved %s, want %s", logged.ID, profile.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, _, _, err := svc.Register(ctx, RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secreto123", Role: domain.RoleUsuario,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, _, err := svc.Login(ctx, "ana@example.com", "incorrecta")
	if code := domainErrCode(t, err); code != "UNAUTHENTICATED" {
		t.Fatalf("code = %s, want UNAUTHENTICATED", code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	input := RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secreto123", Role: domain.RoleUsuario}
	if _, _, _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, _, err := svc.Register(ctx, input)
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestRegisterExpertRequiresSpecialization(t *testing.T) {
	svc, _ := newAuthService()

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Marta", Email: "marta@example.com", Password: "secreto123", Role: domain.RoleExperto,
	})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestRegisterOperatorRequiresShift(t *testing.T) {
	svc, _ := newAuthService()

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Luis", Email: "luis@example.com", Password: "secreto123", Role: domain.RoleOperador,
	})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	profile, _, _, err := svc.Register(ctx, RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secreto123", Role: domain.RoleUsuario,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(ctx, profile.ID, "incorrecta", "nuevosecreto"); err == nil {
		t.Fatal("password changed with wrong current password")
	}
	if err := svc.ChangePassword(ctx, profile.ID, "secreto123", "nuevosecreto"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "ana@example.com", "nuevosecreto"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthService()

	token, _, err := svc.TokenManager().GenerateToken("principal-1", domain.RoleOperador)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.PrincipalID != "principal-1" || claims.Role != domain.RoleOperador {
		t.Fatalf("claims = %+v", claims)
	}
}
