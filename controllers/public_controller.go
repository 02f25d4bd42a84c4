package controller

import (
	"github.com/gofiber/fiber/v2"

	"hackportal/services"
	"hackportal/utils"
)

// FAQEntry is one question on the FAQ page.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var faq = []FAQEntry{
	{Question: "Who can participate?", Answer: "Any student with a valid college ID can register."},
	{Question: "How big can a team be?", Answer: "Create a team when you register, then share its invite code with your teammates."},
	{Question: "Can I change my submission?", Answer: "Yes. Submitting again replaces your previous project until the hackathon ends."},
	{Question: "What do I need to submit?", Answer: "A title, a short description, a GitHub repository link and a demo video link."},
}

type PublicController struct {
	Stats  *services.StatsService
	Boards *services.BoardService
	View   Renderer
}

func NewPublicController(svc *services.Services, view Renderer) *PublicController {
	return &PublicController{
		Stats:  svc.Stats,
		Boards: svc.Boards,
		View:   view,
	}
}

// Landing shows totals and the top submissions.
func (pc *PublicController) Landing(c *fiber.Ctx) error {
	landing, err := pc.Stats.Landing(c.UserContext())
	if err != nil {
		return err
	}
	return pc.View.Render(c, fiber.StatusOK, "index", landing)
}

// Sponsors lists sponsors, seeding the defaults on first use.
func (pc *PublicController) Sponsors(c *fiber.Ctx) error {
	sponsors, err := pc.Boards.Sponsors(c.UserContext())
	if err != nil {
		return err
	}
	return pc.View.Render(c, fiber.StatusOK, "sponsors", fiber.Map{"sponsors": sponsors})
}

func (pc *PublicController) FAQ(c *fiber.Ctx) error {
	return pc.View.Render(c, fiber.StatusOK, "faq", fiber.Map{"faq": faq})
}

// Leaderboard lists every submission in submission order.
func (pc *PublicController) Leaderboard(c *fiber.Ctx) error {
	entries, err := pc.Stats.Leaderboard(c.UserContext())
	if err != nil {
		return err
	}
	return pc.View.Render(c, fiber.StatusOK, "leaderboard", fiber.Map{"submissions": entries})
}

// Health reports liveness.
func Health(c *fiber.Ctx) error {
	return c.JSON(utils.SuccessResponse(fiber.Map{"status": "ok"}))
}
