package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"hackportal/middleware"
	"hackportal/services"
	"hackportal/utils"
)

type RegisterRequest struct {
	Name       string `form:"name" json:"name" validate:"notblank,max=120"`
	Email      string `form:"email" json:"email" validate:"required,max=120"`
	Phone      string `form:"phone" json:"phone" validate:"notblank,max=20"`
	College    string `form:"college" json:"college" validate:"notblank,max=120"`
	Password   string `form:"password" json:"password" validate:"required,min=6,max=72"`
	TeamChoice string `form:"team_choice" json:"team_choice" validate:"required,oneof=create join"`
	TeamName   string `form:"team_name" json:"team_name" validate:"max=100"`
	InviteCode string `form:"invite_code" json:"invite_code" validate:"required_if=TeamChoice join,max=10"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type AuthController struct {
	Auth     *services.AuthService
	Sessions *middleware.Sessions
	View     Renderer
	Logger   *logrus.Entry
}

func NewAuthController(auth *services.AuthService, sessions *middleware.Sessions, view Renderer, logger *logrus.Entry) *AuthController {
	return &AuthController{
		Auth:     auth,
		Sessions: sessions,
		View:     view,
		Logger:   logger,
	}
}

// RegisterPage renders the registration form.
func (ac *AuthController) RegisterPage(c *fiber.Ctx) error {
	return ac.View.Render(c, fiber.StatusOK, "register", nil)
}

// Register creates the participant and their team membership.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return ac.View.RenderWithFlash(c, fiber.StatusBadRequest, "register", middleware.Error("Invalid request body"), nil)
	}
	// Older registration forms post the team fields in camelCase.
	formFallback(c, &req.TeamChoice, "teamChoice")
	formFallback(c, &req.TeamName, "teamName")
	formFallback(c, &req.InviteCode, "inviteCode")

	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return ac.View.RenderWithFlash(c, fiber.StatusBadRequest, "register", middleware.Error(err.Error()), nil)
	}
	if !utils.ValidEmail(req.Email) {
		return ac.View.RenderWithFlash(c, fiber.StatusBadRequest, "register", middleware.Error("email must be a valid email"), nil)
	}

	user, team, err := ac.Auth.Register(c.UserContext(), services.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		College:    req.College,
		Password:   req.Password,
		TeamChoice: req.TeamChoice,
		TeamName:   req.TeamName,
		InviteCode: req.InviteCode,
	})
	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		return ac.Sessions.FlashAndRedirect(c, middleware.Error("Email already registered. Please login."), "/login")
	case errors.Is(err, services.ErrInvalidInviteCode):
		return ac.Sessions.FlashAndRedirect(c, middleware.Error("Invalid invite code!"), "/register")
	case errors.Is(err, services.ErrInviteCodesExhausted):
		return ac.Sessions.FlashAndRedirect(c, middleware.Error("Could not create your team right now. Please try again."), "/register")
	case err != nil:
		return err
	}

	utils.LogEvent(ac.Logger, "registration", map[string]interface{}{
		"user_id": user.ID,
		"team_id": team.ID,
	})
	return ac.Sessions.FlashAndRedirect(c, middleware.Success("Registration successful. Please login."), "/login")
}

// LoginPage renders the participant login form.
func (ac *AuthController) LoginPage(c *fiber.Ctx) error {
	return ac.View.Render(c, fiber.StatusOK, "login", nil)
}

// Login binds the session to the participant on valid credentials.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return ac.View.RenderWithFlash(c, fiber.StatusBadRequest, "login", middleware.Error("Invalid request body"), nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return ac.View.RenderWithFlash(c, fiber.StatusBadRequest, "login", middleware.Error(err.Error()), nil)
	}

	user, err := ac.Auth.Login(c.UserContext(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		ac.Logger.WithField("ip", c.IP()).Info("Failed participant login")
		return ac.View.RenderWithFlash(c, fiber.StatusUnauthorized, "login", middleware.Error("Invalid email or password."), nil)
	}
	if err != nil {
		return err
	}

	if err := ac.Sessions.Login(c, user.ID, middleware.Success("Logged in successfully!")); err != nil {
		return err
	}
	return c.Redirect("/dashboard")
}

// LoginThrottled answers login attempts over the rate limit.
func (ac *AuthController) LoginThrottled(c *fiber.Ctx) error {
	ac.Logger.WithFields(logrus.Fields{
		"ip":   c.IP(),
		"path": c.Path(),
	}).Warn("Login rate limit reached")
	return ac.View.RenderWithFlash(c, fiber.StatusTooManyRequests, loginPageFor(c.Path()),
		middleware.Error("Too many login attempts. Please wait a minute and try again."), nil)
}

// Logout clears the whole session.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.Sessions.Logout(c, middleware.Info("Logged out.")); err != nil {
		return err
	}
	return c.Redirect("/")
}

func formFallback(c *fiber.Ctx, field *string, key string) {
	if *field == "" {
		*field = c.FormValue(key)
	}
}

func loginPageFor(path string) string {
	if path == "/admin/login" {
		return "admin_login"
	}
	return "login"
}
