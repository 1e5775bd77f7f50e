package middleware

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/premiumgate/premiumgate/app/repository"
	isession "github.com/premiumgate/premiumgate/internal/pkg/session"
	"github.com/premiumgate/premiumgate/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session to a user on every request and
// stores the result as usercontext.UserContext. The user row is re-read each
// time so a subscription granted by the webhook is visible immediately.
func UserContextMiddleware(store *session.Store, users repository.UserRepository, l *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		usercontext.Set(c, usercontext.UserContext{})

		userID, err := isession.UserID(c, store)
		if err != nil {
			if !errors.Is(err, isession.ErrNoSession) {
				l.Warn("failed to read session", "path", c.Path(), "err", err)
			}
			return c.Next()
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			// Stale session for a deleted user, or a database hiccup: treat
			// the request as anonymous.
			if !errors.Is(err, repository.ErrNotFound) {
				l.Error("failed to load session user", "user_id", userID, "err", err)
			}
			return c.Next()
		}

		usercontext.Set(c, usercontext.UserContext{
			UserID:     user.ID,
			Email:      user.Email,
			IsLoggedIn: true,
			Subscribed: user.Subscribed,
		})
		return c.Next()
	}
}
