package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tmoreau/cvfolio/internal/models"
	"github.com/tmoreau/cvfolio/internal/services"
)

const userLocalKey = "auth_user"

// Auth resolves the requesting user (HttpOnly cookie first, then the
// Authorization header) and rejects the request when no verifiable
// identity is found or the user no longer exists.
func Auth(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := tokens.ExtractIdentity(c.Context(), c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// AdminOnly must run after Auth; it rejects non-admin users.
func AdminOnly(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil || !user.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied. Admins only."})
	}
	return c.Next()
}

// CurrentUser returns the user stored by Auth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}
