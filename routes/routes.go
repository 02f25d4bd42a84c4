package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"hackportal/config"
	controller "hackportal/controllers"
	"hackportal/middleware"
	"hackportal/services"
	"hackportal/utils"
)

// Deps is everything the HTTP layer needs from main.
type Deps struct {
	Config   *config.Config
	Log      *logrus.Logger
	Storage  fiber.Storage
	Services *services.Services
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "hackportal",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: controller.ErrorHandler(d.Log.WithField("component", "http")),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !d.Config.IsProduction()}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		Output: d.Log.Writer(),
	}))
	app.Use(middleware.CORS(d.Config.CORSAllowedOrigins))

	SetupRoutes(app, d)
	return app
}

func SetupRoutes(app *fiber.App, d Deps) {
	sessions := middleware.NewSessions(middleware.SessionConfig{
		Expiration:   d.Config.SessionExpiration,
		CookieSecure: d.Config.CookieSecure,
		Storage:      d.Storage,
	}, d.Log.WithField("component", "session"))

	view := controller.Renderer{HackathonEnd: d.Config.HackathonEnd, Sessions: sessions}
	svc := d.Services

	// Initialize controllers with their respective loggers
	authController := controller.NewAuthController(svc.Auth, sessions, view, d.Log.WithField("component", "auth"))
	participantController := controller.NewParticipantController(svc, sessions, view, d.Log.WithField("component", "participant"))
	publicController := controller.NewPublicController(svc, view)
	adminController := controller.NewAdminController(svc, sessions, view, d.Log.WithField("component", "admin"))

	app.Get("/health", controller.Health)

	// Every page below sees the request identity and pending flash
	site := app.Group("", sessions.Gate(svc.Users))

	// Public pages
	site.Get("/", publicController.Landing)
	site.Get("/sponsors", publicController.Sponsors)
	site.Get("/faq", publicController.FAQ)
	site.Get("/leaderboard", publicController.Leaderboard)
	site.Get("/feedback", participantController.FeedbackPage)

	// Registration and participant login
	loginLimiter := middleware.LoginLimiter(d.Config.LoginRateLimit, d.Storage, authController.LoginThrottled)
	site.Get("/register", authController.RegisterPage)
	site.Post("/register", authController.Register)
	site.Get("/login", authController.LoginPage)
	site.Post("/login", loginLimiter, authController.Login)
	site.Get("/logout", authController.Logout)

	// Participant-only pages
	submitter := sessions.RequireParticipant(controller.SubmitLoginMessage)
	site.Get("/dashboard", sessions.RequireParticipant(controller.DashboardLoginMessage), participantController.Dashboard)
	site.Get("/submit", submitter, participantController.SubmitPage)
	site.Post("/submit", submitter, participantController.Submit)
	site.Post("/feedback", sessions.RequireParticipant(controller.FeedbackLoginMessage), participantController.SubmitFeedback)

	// Admin console
	site.Get("/admin/login", adminController.LoginPage)
	site.Post("/admin/login", loginLimiter, adminController.Login)

	admin := site.Group("/admin", sessions.RequireAdmin())
	admin.Get("/logout", adminController.Logout)
	admin.Get("/dashboard", adminController.Dashboard)
	admin.Post("/add_update", adminController.AddUpdate)
	admin.Post("/add_notification", adminController.AddNotification)
	admin.Get("/delete_update/:id", adminController.DeleteUpdate)
	admin.Get("/delete_notification/:id", adminController.DeleteNotification)
	admin.Get("/teams", adminController.Teams)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Route not found")
	})
}
