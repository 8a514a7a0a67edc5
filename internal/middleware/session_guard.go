package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/haeun-dev/health-tracker-backend/internal/auth"
	"github.com/haeun-dev/health-tracker-backend/internal/dto"
)

// SessionProtected rejects requests without an authenticated session and
// makes the user id available to handlers via Locals.
func SessionProtected(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := auth.UserID(c, store)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Authentication required",
			})
		}
		auth.SetCurrentUserID(c, userID)
		return c.Next()
	}
}
