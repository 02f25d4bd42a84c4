package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	SessionCookieName = "hackportal_session"

	keyUserID       = "user_id"
	keyIsAdmin      = "is_admin"
	keyFlashLevel   = "flash_level"
	keyFlashMessage = "flash_message"
)

const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func Success(message string) Flash { return Flash{Level: LevelSuccess, Message: message} }
func Error(message string) Flash   { return Flash{Level: LevelError, Message: message} }
func Info(message string) Flash    { return Flash{Level: LevelInfo, Message: message} }

type SessionConfig struct {
	Expiration   time.Duration
	CookieSecure bool
	Storage      fiber.Storage
}

// Sessions owns the server-side session store. The cookie only carries an
// opaque random id.
type Sessions struct {
	store *session.Store
	log   *logrus.Entry
}

func NewSessions(cfg SessionConfig, log *logrus.Entry) *Sessions {
	return &Sessions{
		store: session.New(session.Config{
			Expiration:     cfg.Expiration,
			Storage:        cfg.Storage,
			KeyLookup:      "cookie:" + SessionCookieName,
			CookiePath:     "/",
			CookieSecure:   cfg.CookieSecure,
			CookieHTTPOnly: true,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
			KeyGenerator:   uuid.NewString,
		}),
		log: log,
	}
}

// Login binds the session to userID under a fresh session id.
func (s *Sessions) Login(c *fiber.Ctx, userID uint, flash Flash) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(keyUserID, userID)
	setFlash(sess, flash)
	return sess.Save()
}

// Logout drops everything in the session, participant and admin alike.
func (s *Sessions) Logout(c *fiber.Ctx, flash Flash) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Reset(); err != nil {
		return err
	}
	setFlash(sess, flash)
	return sess.Save()
}

// GrantAdmin sets the admin flag under a fresh session id.
func (s *Sessions) GrantAdmin(c *fiber.Ctx, flash Flash) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(keyIsAdmin, true)
	setFlash(sess, flash)
	return sess.Save()
}

// RevokeAdmin clears only the admin flag.
func (s *Sessions) RevokeAdmin(c *fiber.Ctx, flash Flash) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	sess.Delete(keyIsAdmin)
	setFlash(sess, flash)
	return sess.Save()
}

// Flash queues a notice for the next page.
func (s *Sessions) Flash(c *fiber.Ctx, flash Flash) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	setFlash(sess, flash)
	return sess.Save()
}

// PopFlash removes and returns the pending notice, or nil when there is none.
func (s *Sessions) PopFlash(c *fiber.Ctx) (*Flash, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return nil, err
	}
	message, _ := sess.Get(keyFlashMessage).(string)
	if message == "" {
		return nil, nil
	}
	level, _ := sess.Get(keyFlashLevel).(string)

	sess.Delete(keyFlashLevel)
	sess.Delete(keyFlashMessage)
	if err := sess.Save(); err != nil {
		return nil, err
	}
	return &Flash{Level: level, Message: message}, nil
}

// FlashAndRedirect queues a notice and redirects to location.
func (s *Sessions) FlashAndRedirect(c *fiber.Ctx, flash Flash, location string) error {
	if err := s.Flash(c, flash); err != nil {
		return err
	}
	return c.Redirect(location)
}

func setFlash(sess *session.Session, flash Flash) {
	if flash.Message == "" {
		return
	}
	sess.Set(keyFlashLevel, flash.Level)
	sess.Set(keyFlashMessage, flash.Message)
}
