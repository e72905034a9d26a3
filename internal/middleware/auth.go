// Package middleware provides request processing middleware for the fiber
// app: JWT authentication, school-context resolution and role guards.
package middleware

import (
	"strings"

	"ilimi/internal/models"
	"ilimi/internal/services/auth"
	"ilimi/internal/utils"
	"ilimi/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates JWT tokens and loads user claims into the
// request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Handler checks for a Bearer token, a valid signature, and a token version
// matching the user row, then stores claims and user in the context.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return response.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return response.Unauthorized(c, "invalid token")
	}

	currentVersion, err := m.authService.GetUserTokenVersion(claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "invalid token")
	}
	if claims.TokenVersion != currentVersion {
		return response.Unauthorized(c, "session expired")
	}

	user, err := m.authService.GetUserByID(claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "invalid token")
	}
	if !user.IsActive {
		return response.Unauthorized(c, "account is not active")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	c.Locals("user", user)

	return c.Next()
}

// CurrentUser returns the authenticated user stored by Handler.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
