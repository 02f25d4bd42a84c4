package utils

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"hackportal/config"
	"hackportal/models"
)

// messageSender is satisfied by *gomail.Dialer.
type messageSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends transactional mail over SMTP. A circuit breaker stops
// registration requests from waiting on an SMTP server that keeps failing.
type Mailer struct {
	sender  messageSender
	from    string
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Entry
}

// NewMailer returns nil when SMTP is not configured.
func NewMailer(cfg config.SMTPConfig, log *logrus.Entry) *Mailer {
	if !cfg.Enabled() {
		return nil
	}
	return newMailer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.FromEmail, log)
}

func newMailer(sender messageSender, from string, log *logrus.Entry) *Mailer {
	m := &Mailer{sender: sender, from: from, log: log}
	m.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Mail circuit breaker changed state")
		},
	})
	return m
}

// Send delivers one HTML message.
func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.sender.DialAndSend(msg)
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendWelcome tells a new participant which team they are in and how others
// can join it.
func (m *Mailer) SendWelcome(_ context.Context, user *models.User, team *models.Team) error {
	subject := "Welcome to the hackathon"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Hi %s, you're registered!</h2>
			<p>You can now log in to submit your project and follow live updates.</p>
		`, html.EscapeString(user.FirstName()))

	if team != nil {
		body += fmt.Sprintf(`
			<p>Your team: <strong>%s</strong></p>
			<p>Share this invite code with your teammates:</p>
			<h3>%s</h3>
		`, html.EscapeString(team.Name), team.InviteCode)
	}
	body += `
		</body>
		</html>
	`

	return m.Send(user.Email, subject, body)
}
