// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"card-match-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// PlayerAuthMiddleware validates the Bearer token and attaches the player
// identity to the request context.
func PlayerAuthMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization token missing",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization header must be 'Bearer <token>'",
			})
		}

		claims, err := utils.ParseToken(secret, token)
		if err != nil {
			log.Printf("[AUTH] token rejected for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals("player_id", claims.PlayerID)
		c.Locals("is_staff", claims.IsStaff)
		c.Locals("is_superuser", claims.IsSuperuser)
		return c.Next()
	}
}

// OptionalPlayerAuthMiddleware attaches the identity when a valid token is
// present but lets anonymous requests through (profile lookup by phone).
func OptionalPlayerAuthMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			return c.Next()
		}
		if claims, err := utils.ParseToken(secret, token); err == nil {
			c.Locals("player_id", claims.PlayerID)
			c.Locals("is_staff", claims.IsStaff)
			c.Locals("is_superuser", claims.IsSuperuser)
		}
		return c.Next()
	}
}
