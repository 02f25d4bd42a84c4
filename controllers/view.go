package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"hackportal/middleware"
)

// View is the JSON view model handed to the page renderer.
type View struct {
	Page         string            `json:"page"`
	Flash        *middleware.Flash `json:"flash,omitempty"`
	HackathonEnd string            `json:"hackathon_end"`
	Viewer       Viewer            `json:"viewer"`
	Data         interface{}       `json:"data,omitempty"`
}

// Viewer tells the renderer which navigation to show.
type Viewer struct {
	LoggedIn bool   `json:"logged_in"`
	Name     string `json:"name,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
}

// Renderer builds views. Every page carries the countdown target and
// consumes the pending flash notice.
type Renderer struct {
	HackathonEnd time.Time
	Sessions     *middleware.Sessions
}

// Render answers with page and the pending flash, if any.
func (r Renderer) Render(c *fiber.Ctx, status int, page string, data interface{}) error {
	flash, err := r.Sessions.PopFlash(c)
	if err != nil {
		return err
	}
	return r.render(c, status, page, flash, data)
}

// RenderWithFlash re-renders a form with a notice produced by this request.
// A pending notice is dropped in its favour.
func (r Renderer) RenderWithFlash(c *fiber.Ctx, status int, page string, flash middleware.Flash, data interface{}) error {
	if _, err := r.Sessions.PopFlash(c); err != nil {
		return err
	}
	return r.render(c, status, page, &flash, data)
}

func (r Renderer) render(c *fiber.Ctx, status int, page string, flash *middleware.Flash, data interface{}) error {
	identity := middleware.CurrentIdentity(c)
	viewer := Viewer{IsAdmin: identity.IsAdmin()}
	if user := identity.CurrentUser(); user != nil {
		viewer.LoggedIn = true
		viewer.Name = user.Name
	}

	return c.Status(status).JSON(View{
		Page:         page,
		Flash:        flash,
		HackathonEnd: r.HackathonEnd.UTC().Format(time.RFC3339),
		Viewer:       viewer,
		Data:         data,
	})
}

// NotFound renders the not found page.
func (r Renderer) NotFound(c *fiber.Ctx, message string) error {
	return r.Render(c, fiber.StatusNotFound, "not_found", fiber.Map{"error": message})
}
