// Package auth binds opaque session cookies to user identities. Sessions live
// server-side in the store; the cookie only carries the token.
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/haeun-dev/health-tracker-backend/internal/config"
)

const userKey = "user_id"

func NewStore(cfg *config.Config) *session.Store {
	return session.New(session.Config{
		Expiration:     cfg.SessionExpiry,
		KeyLookup:      "cookie:" + cfg.SessionCookie,
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// Bind attaches the user id to the request's session, issuing a fresh cookie
// when none exists yet.
func Bind(c *fiber.Ctx, store *session.Store, userID uint) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(userKey, userID)
	return sess.Save()
}

// Clear drops the session entirely. Always succeeds for a missing session.
func Clear(c *fiber.Ctx, store *session.Store) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// UserID resolves the authenticated user id from the request's session.
func UserID(c *fiber.Ctx, store *session.Store) (uint, bool) {
	sess, err := store.Get(c)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Get(userKey).(uint)
	return id, ok
}

// SetCurrentUserID places the verified identity into the request's Locals.
// Only the guard middleware should call this.
func SetCurrentUserID(c *fiber.Ctx, userID uint) {
	c.Locals(userKey, userID)
}

// CurrentUserID reads the identity placed in Locals by the guard middleware.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(userKey).(uint)
	return id, ok
}
