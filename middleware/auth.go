package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"hackportal/models"
	"hackportal/services"
)

const identityKey = "identity"

// UserFinder resolves the participant stored in a session.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Identity is who the current request acts as. It is resolved once per
// request by the gate and handed to handlers through the fiber context.
type Identity struct {
	User  *models.User
	Admin bool
}

// CurrentUser returns the logged in participant, or nil.
func (i *Identity) CurrentUser() *models.User {
	if i == nil {
		return nil
	}
	return i.User
}

// IsAdmin reports whether the admin flag is set on the session.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Admin
}

// CurrentIdentity returns the identity resolved by Gate. Requests that never
// passed the gate get an anonymous identity.
func CurrentIdentity(c *fiber.Ctx) *Identity {
	if identity, ok := c.Locals(identityKey).(*Identity); ok {
		return identity
	}
	return &Identity{}
}

// Gate loads the session and resolves the participant and admin flag.
func (s *Sessions) Gate(users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.store.Get(c)
		if err != nil {
			return errors.Wrap(err, "load session")
		}

		identity := &Identity{}
		if userID, ok := sess.Get(keyUserID).(uint); ok {
			user, err := users.FindByID(c.UserContext(), userID)
			switch {
			case err == nil:
				identity.User = user
			case errors.Is(err, services.ErrNotFound):
				s.log.WithField("user_id", userID).Warn("Session refers to a missing user")
			default:
				return err
			}
		}
		identity.Admin, _ = sess.Get(keyIsAdmin).(bool)

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireParticipant redirects anonymous requests to the login page with
// message as the notice.
func (s *Sessions) RequireParticipant(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentIdentity(c).CurrentUser() != nil {
			return c.Next()
		}
		return s.FlashAndRedirect(c, Error(message), "/login")
	}
}

// RequireAdmin redirects requests without the admin flag to the admin login.
func (s *Sessions) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentIdentity(c).IsAdmin() {
			return c.Next()
		}
		return s.FlashAndRedirect(c, Error("Admin access required."), "/admin/login")
	}
}
