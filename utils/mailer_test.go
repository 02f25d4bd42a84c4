package utils

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"hackportal/config"
	"hackportal/models"
)

type fakeSender struct {
	err  error
	sent []*gomail.Message
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func discardLog() *logrus.Entry {
	log := logrus.New()
	log.Out = io.Discard
	return logrus.NewEntry(log)
}

func TestNewMailerDisabled(t *testing.T) {
	t.Parallel()

	if m := NewMailer(config.SMTPConfig{}, discardLog()); m != nil {
		t.Fatalf("NewMailer without host = %v, want nil", m)
	}
}

func TestSendWelcome(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	mailer := newMailer(sender, "hack@example.com", discardLog())

	user := &models.User{Name: "<Ada> Lovelace", Email: "ada@example.com"}
	team := &models.Team{Name: "Engines", InviteCode: "AB12CD"}
	if err := mailer.SendWelcome(context.Background(), user, team); err != nil {
		t.Fatalf("SendWelcome: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d messages, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if to := msg.GetHeader("To"); len(to) != 1 || to[0] != "ada@example.com" {
		t.Fatalf("To = %v, want ada@example.com", to)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	body := buf.String()
	for _, want := range []string{"AB12CD", "Engines", "&lt;Ada&gt;"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body is missing %q:\n%s", want, body)
		}
	}
}

func TestMailerBreakerOpens(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{err: errors.New("connection refused")}
	mailer := newMailer(sender, "hack@example.com", discardLog())

	for i := 0; i < 3; i++ {
		if err := mailer.Send("ada@example.com", "hi", "<p>hi</p>"); err == nil {
			t.Fatalf("attempt %d: err = nil, want a send failure", i)
		}
	}

	err := mailer.Send("ada@example.com", "hi", "<p>hi</p>")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want the open breaker error", err)
	}
	if len(sender.sent) != 3 {
		t.Fatalf("sender called %d times, want 3", len(sender.sent))
	}
}
