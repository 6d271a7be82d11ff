package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/auth"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

const (
	localStaffID   = "staffID"
	localStaffName = "staffName"
	localStaffRole = "staffRole"
)

// RequireAuth validates the Bearer token and stashes the staff identity in
// the request locals.
func RequireAuth(tm *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		claims, err := tm.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(localStaffID, claims.Subject)
		c.Locals(localStaffName, claims.Name)
		c.Locals(localStaffRole, claims.Role)
		return c.Next()
	}
}

// RequirePermission gates a route on the caller's role. It must run after
// RequireAuth.
func RequirePermission(table auth.PermissionTable, perm auth.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(localStaffRole).(domain.StaffRole)
		if !ok || !table.Allowed(role, perm) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient permissions",
			})
		}
		return c.Next()
	}
}

func staffID(c *fiber.Ctx) string {
	id, _ := c.Locals(localStaffID).(string)
	return id
}

func staffName(c *fiber.Ctx) string {
	name, _ := c.Locals(localStaffName).(string)
	return name
}
