package notify

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/pantau-dev/pantau/internal/config"
)

// EmailSender delivers digests via SMTP.
type EmailSender struct {
	cfg config.EmailConfig
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// Name identifies the sender in logs.
func (s *EmailSender) Name() string { return "email" }

// Message builds the MIME message with an HTML body and plain text fallback.
func (s *EmailSender) Message(msg *RenderedMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.HTML != "" && msg.Text != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

// Send delivers msg. It is a no-op when email is disabled.
func (s *EmailSender) Send(ctx context.Context, msg *RenderedMessage) error {
	if !s.cfg.Enabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second
	if err := dialer.DialAndSend(s.Message(msg)); err != nil {
		return fmt.Errorf("sending email to %s: %w", s.cfg.To, err)
	}
	return nil
}
