package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services is every domain service sharing one database handle.
type Services struct {
	Users       *UserService
	Teams       *TeamService
	Auth        *AuthService
	Submissions *SubmissionService
	Feedback    *FeedbackService
	Boards      *BoardService
	Stats       *StatsService
}

// New builds the services. notifier may be nil.
func New(db *gorm.DB, admin AdminCredentials, notifier Notifier, log *logrus.Entry) *Services {
	users := NewUserService(db)
	teams := NewTeamService(db, log.WithField("component", "teams"))
	submissions := NewSubmissionService(db)

	return &Services{
		Users:       users,
		Teams:       teams,
		Auth:        NewAuthService(db, users, teams, admin, notifier, log.WithField("component", "auth")),
		Submissions: submissions,
		Feedback:    NewFeedbackService(db),
		Boards:      NewBoardService(db),
		Stats:       NewStatsService(db, users, teams, submissions),
	}
}
