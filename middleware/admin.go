// middleware/admin.go
package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// StaffOnlyMiddleware rejects requests whose token lacks the staff flag.
// Must run after PlayerAuthMiddleware.
func StaffOnlyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isStaff, _ := c.Locals("is_staff").(bool)
		if !isStaff {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "staff access required",
			})
		}
		return c.Next()
	}
}

// SuperuserOnlyMiddleware gates the destructive admin operations.
func SuperuserOnlyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isSuperuser, _ := c.Locals("is_superuser").(bool)
		if !isSuperuser {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "superuser access required",
			})
		}
		return c.Next()
	}
}
