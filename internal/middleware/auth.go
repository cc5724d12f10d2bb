package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/vihara/internal/utils"
)

const (
	localsAdminID       = "admin_id"
	localsAdminUsername = "admin_username"
)

// RequireAdmin validates the Bearer token and stores the admin
// identity in the request locals.
func RequireAdmin(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing authorization header")
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header")
		}

		adminID, username, err := utils.ParseToken(jwtSecret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(localsAdminID, adminID)
		c.Locals(localsAdminUsername, username)
		return c.Next()
	}
}

// CurrentAdmin returns the authenticated admin's id and username, or
// ok=false outside an authenticated request.
func CurrentAdmin(c *fiber.Ctx) (uuid.UUID, string, bool) {
	id, okID := c.Locals(localsAdminID).(uuid.UUID)
	username, okName := c.Locals(localsAdminUsername).(string)
	if !okID || !okName {
		return uuid.Nil, "", false
	}
	return id, username, true
}

// ActorName returns the authenticated admin's username for audit
// records, falling back to "admin" when locals are absent.
func ActorName(c *fiber.Ctx) string {
	if _, username, ok := CurrentAdmin(c); ok {
		return username
	}
	return "admin"
}
