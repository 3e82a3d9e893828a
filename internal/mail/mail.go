package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"tastebite/internal/config"
)

// Sender delivers out-of-band messages. There is no delivery receipt beyond
// success or error.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends mail through an SMTP relay using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender from SMTP configuration.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   fmt.Sprintf("Tastebite <%s>", cfg.SMTPUser),
	}
}

// Send dials the relay and sends a single plain-text message. The dial-and-send
// runs in a goroutine so the context deadline bounds how long the caller waits;
// a send that outlives the deadline may still complete on the relay.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
