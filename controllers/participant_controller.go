package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"hackportal/middleware"
	"hackportal/models"
	"hackportal/services"
	"hackportal/utils"
)

type SubmissionRequest struct {
	Title       string `form:"title" json:"title" validate:"notblank,max=200"`
	Description string `form:"desc" json:"desc" validate:"notblank,max=5000"`
	GithubURL   string `form:"github" json:"github" validate:"required,url,max=255"`
	VideoURL    string `form:"video" json:"video" validate:"required,url,max=255"`
}

type FeedbackRequest struct {
	Text   string `form:"text" json:"text" validate:"notblank,max=2000"`
	Rating string `form:"rating" json:"rating" validate:"required,oneof=1 2 3 4 5"`
}

type DashboardData struct {
	User          *models.User          `json:"user"`
	Team          *models.Team          `json:"team"`
	TeamMembers   []models.User         `json:"team_members"`
	Submission    *models.Submission    `json:"submission"`
	Sponsors      []models.Sponsor      `json:"sponsors"`
	LiveUpdates   []models.LiveUpdate   `json:"live_updates"`
	Notifications []models.Notification `json:"notifications"`
}

type ParticipantController struct {
	Users       *services.UserService
	Teams       *services.TeamService
	Submissions *services.SubmissionService
	Feedback    *services.FeedbackService
	Boards      *services.BoardService
	Sessions    *middleware.Sessions
	View        Renderer
	Logger      *logrus.Entry
}

func NewParticipantController(svc *services.Services, sessions *middleware.Sessions, view Renderer, logger *logrus.Entry) *ParticipantController {
	return &ParticipantController{
		Users:       svc.Users,
		Teams:       svc.Teams,
		Submissions: svc.Submissions,
		Feedback:    svc.Feedback,
		Boards:      svc.Boards,
		Sessions:    sessions,
		View:        view,
		Logger:      logger,
	}
}

// Dashboard shows the participant, their team and the boards.
func (pc *ParticipantController) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	user := middleware.CurrentIdentity(c).CurrentUser()
	data := DashboardData{User: user, TeamMembers: []models.User{}}

	if user.TeamID != nil {
		team, err := pc.Teams.FindByID(ctx, *user.TeamID)
		switch {
		case err == nil:
			data.Team = team
		case errors.Is(err, services.ErrNotFound):
			pc.Logger.WithField("user_id", user.ID).Warn("Participant refers to a missing team")
		default:
			return err
		}
		if data.Team != nil {
			members, err := pc.Users.FindByTeam(ctx, data.Team.ID)
			if err != nil {
				return err
			}
			data.TeamMembers = members
		}
	}

	var err error
	if data.Submission, err = pc.Submissions.FindByUser(ctx, user.ID); err != nil {
		return err
	}
	if data.Sponsors, err = pc.Boards.Sponsors(ctx); err != nil {
		return err
	}
	if data.LiveUpdates, err = pc.Boards.Updates(ctx); err != nil {
		return err
	}
	if data.Notifications, err = pc.Boards.Notifications(ctx); err != nil {
		return err
	}

	return pc.View.Render(c, fiber.StatusOK, "dashboard", data)
}

// SubmitPage renders the submission form prefilled with the saved project.
func (pc *ParticipantController) SubmitPage(c *fiber.Ctx) error {
	user := middleware.CurrentIdentity(c).CurrentUser()
	submission, err := pc.Submissions.FindByUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return pc.View.Render(c, fiber.StatusOK, "submit", fiber.Map{"submission": submission})
}

// Submit creates or replaces the participant's project.
func (pc *ParticipantController) Submit(c *fiber.Ctx) error {
	var req SubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return pc.View.RenderWithFlash(c, fiber.StatusBadRequest, "submit", middleware.Error("Invalid request body"), nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return pc.View.RenderWithFlash(c, fiber.StatusBadRequest, "submit", middleware.Error(err.Error()), fiber.Map{"submission": req})
	}

	user := middleware.CurrentIdentity(c).CurrentUser()
	submission, err := pc.Submissions.Upsert(c.UserContext(), user.ID, services.SubmissionInput{
		Title:       req.Title,
		Description: req.Description,
		GithubURL:   req.GithubURL,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		return err
	}

	pc.Logger.WithFields(logrus.Fields{
		"user_id":       user.ID,
		"submission_id": submission.ID,
	}).Info("Submission saved")
	return pc.Sessions.FlashAndRedirect(c, middleware.Success("Submission saved!"), "/dashboard")
}

// FeedbackPage renders the feedback form. Logged in participants also see
// what they already sent.
func (pc *ParticipantController) FeedbackPage(c *fiber.Ctx) error {
	data := fiber.Map{"feedback": []models.Feedback{}}
	if user := middleware.CurrentIdentity(c).CurrentUser(); user != nil {
		entries, err := pc.Feedback.ListByUser(c.UserContext(), user.ID)
		if err != nil {
			return err
		}
		data["feedback"] = entries
	}
	return pc.View.Render(c, fiber.StatusOK, "feedback", data)
}

// SubmitFeedback appends one feedback entry.
func (pc *ParticipantController) SubmitFeedback(c *fiber.Ctx) error {
	var req FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return pc.View.RenderWithFlash(c, fiber.StatusBadRequest, "feedback", middleware.Error("Invalid request body"), nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return pc.View.RenderWithFlash(c, fiber.StatusBadRequest, "feedback", middleware.Error(err.Error()), nil)
	}

	_, err := pc.Feedback.Add(c.UserContext(), middleware.CurrentIdentity(c).CurrentUser(), req.Text, req.Rating)
	if errors.Is(err, services.ErrAuthRequired) {
		return pc.Sessions.FlashAndRedirect(c, middleware.Error(FeedbackLoginMessage), "/login")
	}
	if err != nil {
		return err
	}
	return pc.Sessions.FlashAndRedirect(c, middleware.Success("Thank you for your feedback!"), "/feedback")
}

// Flashes shown when a participant page is reached without a session.
const (
	DashboardLoginMessage = "Please login to access dashboard."
	SubmitLoginMessage    = "Please login to submit."
	FeedbackLoginMessage  = "Login required to give feedback."
)
