package middleware

import (
	"context"
	"time"

	"mcq-portal/internal/domain"
	"mcq-portal/internal/util"

	"github.com/gofiber/fiber/v2"
)

const SessionIDKey = "sessionID" // Key for storing the session ID in fiber.Ctx locals

// SessionOpener resolves a cookie value to a live session, creating one when
// needed.
type SessionOpener interface {
	Open(ctx context.Context, id string) (*domain.UploadSession, error)
}

// Session binds every request to an upload session tracked by cookieName.
// Malformed, unknown or expired cookies get a fresh session.
func Session(opener SessionOpener, cookieName string, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cookieName)
		if !util.IsValidULID(id) {
			id = ""
		}

		session, err := opener.Open(c.UserContext(), id)
		if err != nil {
			return err
		}

		cookie := &fiber.Cookie{
			Name:     cookieName,
			Value:    session.ID,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		}
		if ttl > 0 {
			cookie.MaxAge = int(ttl.Seconds())
		}
		c.Cookie(cookie)
		c.Locals(SessionIDKey, session.ID)
		return c.Next()
	}
}

// SessionIDFrom returns the session bound by Session, or "".
func SessionIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionIDKey).(string)
	return id
}
