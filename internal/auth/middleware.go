package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SagFerNando/TELNET/internal/domain"
	"github.com/SagFerNando/TELNET/internal/repository"
	apperrors "github.com/SagFerNando/TELNET/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and loads the typed profile of the
// caller.
type AuthMiddleware struct {
	tokens   *TokenManager
	profiles repository.ProfileRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, profiles repository.ProfileRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, profiles: profiles}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthenticated("invalid token")
	}

	profile, err := m.profiles.GetByID(c.UserContext(), claims.PrincipalID)
	if err != nil {
		return apperrors.NewUnauthenticated("unknown principal")
	}

	c.Locals(principalKey, profile)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated profile.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Profile, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	profile, ok := val.(*domain.Profile)
	return profile, ok
}
