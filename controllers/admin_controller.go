package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"hackportal/middleware"
	"hackportal/services"
	"hackportal/utils"
)

type AdminLoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type BoardPostRequest struct {
	Text string `form:"text" json:"text" validate:"max=1000"`
}

type AdminController struct {
	Auth     *services.AuthService
	Boards   *services.BoardService
	TeamDir  *services.TeamService
	Sessions *middleware.Sessions
	View     Renderer
	Logger   *logrus.Entry
}

func NewAdminController(svc *services.Services, sessions *middleware.Sessions, view Renderer, logger *logrus.Entry) *AdminController {
	return &AdminController{
		Auth:     svc.Auth,
		Boards:   svc.Boards,
		TeamDir:  svc.Teams,
		Sessions: sessions,
		View:     view,
		Logger:   logger,
	}
}

func (ac *AdminController) LoginPage(c *fiber.Ctx) error {
	return ac.View.Render(c, fiber.StatusOK, "admin_login", nil)
}

// Login sets the admin flag when the configured pair matches.
func (ac *AdminController) Login(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return ac.View.RenderWithFlash(c, fiber.StatusBadRequest, "admin_login", middleware.Error("Invalid request body"), nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return ac.View.RenderWithFlash(c, fiber.StatusBadRequest, "admin_login", middleware.Error(err.Error()), nil)
	}

	if err := ac.Auth.AdminLogin(req.Email, req.Password); err != nil {
		ac.Logger.WithField("ip", c.IP()).Warn("Failed admin login")
		return ac.View.RenderWithFlash(c, fiber.StatusUnauthorized, "admin_login", middleware.Error("Invalid admin credentials."), nil)
	}

	if err := ac.Sessions.GrantAdmin(c, middleware.Success("Admin login successful!")); err != nil {
		return err
	}
	utils.LogEvent(ac.Logger, "admin_login", map[string]interface{}{"ip": c.IP()})
	return c.Redirect("/admin/dashboard")
}

// Logout clears the admin flag and keeps any participant login.
func (ac *AdminController) Logout(c *fiber.Ctx) error {
	if err := ac.Sessions.RevokeAdmin(c, middleware.Info("Admin logged out.")); err != nil {
		return err
	}
	return c.Redirect("/admin/login")
}

// Dashboard lists live updates and notifications, newest first.
func (ac *AdminController) Dashboard(c *fiber.Ctx) error {
	updates, err := ac.Boards.Updates(c.UserContext())
	if err != nil {
		return err
	}
	notifications, err := ac.Boards.Notifications(c.UserContext())
	if err != nil {
		return err
	}
	return ac.View.Render(c, fiber.StatusOK, "admin_dashboard", fiber.Map{
		"live_updates":  updates,
		"notifications": notifications,
	})
}

// AddUpdate posts a live update. Empty text is ignored.
func (ac *AdminController) AddUpdate(c *fiber.Ctx) error {
	text, err := ac.boardText(c)
	if err != nil {
		return err
	}
	update, err := ac.Boards.AddUpdate(c.UserContext(), text)
	if err != nil {
		return err
	}
	if update != nil {
		ac.Logger.WithField("update_id", update.ID).Info("Live update posted")
	}
	return c.Redirect("/admin/dashboard")
}

// AddNotification posts a notification. Empty text is ignored.
func (ac *AdminController) AddNotification(c *fiber.Ctx) error {
	text, err := ac.boardText(c)
	if err != nil {
		return err
	}
	notification, err := ac.Boards.AddNotification(c.UserContext(), text)
	if err != nil {
		return err
	}
	if notification != nil {
		ac.Logger.WithField("notification_id", notification.ID).Info("Notification posted")
	}
	return c.Redirect("/admin/dashboard")
}

func (ac *AdminController) DeleteUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return ac.View.NotFound(c, "Live update not found")
	}
	err = ac.Boards.DeleteUpdate(c.UserContext(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		return ac.View.NotFound(c, "Live update not found")
	}
	if err != nil {
		return err
	}
	return c.Redirect("/admin/dashboard")
}

func (ac *AdminController) DeleteNotification(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return ac.View.NotFound(c, "Notification not found")
	}
	err = ac.Boards.DeleteNotification(c.UserContext(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		return ac.View.NotFound(c, "Notification not found")
	}
	if err != nil {
		return err
	}
	return c.Redirect("/admin/dashboard")
}

// Teams lists every team with its invite code and members.
func (ac *AdminController) Teams(c *fiber.Ctx) error {
	rosters, err := ac.TeamDir.ListWithMembers(c.UserContext())
	if err != nil {
		return err
	}
	return ac.View.Render(c, fiber.StatusOK, "admin_teams", fiber.Map{"teams": rosters})
}

func (ac *AdminController) boardText(c *fiber.Ctx) (string, error) {
	var req BoardPostRequest
	if err := c.BodyParser(&req); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return req.Text, nil
}
