package worker

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"hackportal/models"
)

// ErrQueueFull is returned when the welcome queue has no room left.
var ErrQueueFull = errors.New("welcome queue is full")

// WelcomeSender delivers one welcome message. *utils.Mailer implements it.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, user *models.User, team *models.Team) error
}

type welcomeJob struct {
	user models.User
	team models.Team
}

// WelcomeWorker sends welcome mail off the request path. It satisfies
// services.Notifier, so registration only pays for a channel send.
type WelcomeWorker struct {
	Sender  WelcomeSender
	Logger  *logrus.Entry
	Timeout time.Duration

	jobs chan welcomeJob
}

func NewWelcomeWorker(sender WelcomeSender, logger *logrus.Entry, queueSize int) *WelcomeWorker {
	return &WelcomeWorker{
		Sender:  sender,
		Logger:  logger,
		Timeout: 30 * time.Second,
		jobs:    make(chan welcomeJob, queueSize),
	}
}

// SendWelcome queues a welcome message. It never blocks.
func (ww *WelcomeWorker) SendWelcome(_ context.Context, user *models.User, team *models.Team) error {
	job := welcomeJob{user: *user}
	if team != nil {
		job.team = *team
	}

	select {
	case ww.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start delivers queued messages until ctx is cancelled. Messages still
// queued at shutdown are sent before returning.
func (ww *WelcomeWorker) Start(ctx context.Context) {
	ww.Logger.Info("Welcome worker started")

	for {
		select {
		case <-ctx.Done():
			ww.drain()
			ww.Logger.Info("Welcome worker shutting down")
			return
		case job := <-ww.jobs:
			ww.deliver(job)
		}
	}
}

func (ww *WelcomeWorker) drain() {
	for {
		select {
		case job := <-ww.jobs:
			ww.deliver(job)
		default:
			return
		}
	}
}

func (ww *WelcomeWorker) deliver(job welcomeJob) {
	ctx, cancel := context.WithTimeout(context.Background(), ww.Timeout)
	defer cancel()

	var team *models.Team
	if job.team.ID != 0 {
		team = &job.team
	}
	if err := ww.Sender.SendWelcome(ctx, &job.user, team); err != nil {
		ww.Logger.WithError(err).WithField("user_id", job.user.ID).Warn("Failed to send welcome email")
		return
	}
	ww.Logger.WithField("user_id", job.user.ID).Debug("Welcome email sent")
}
