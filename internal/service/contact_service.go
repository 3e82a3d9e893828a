package service

import (
	"context"
	"fmt"
	"time"

	"tastebite/internal/mail"
)

const contactSendTimeout = 30 * time.Second

// ContactService sends contact-form confirmations through the shared mail
// sender.
type ContactService interface {
	SendContactMessage(ctx context.Context, name, email, subject, message string) error
}

type contactService struct {
	sender     mail.Sender
	adminEmail string
}

// NewContactService creates a new contact service. When adminEmail is set,
// every submission also produces an internal notification.
func NewContactService(sender mail.Sender, adminEmail string) ContactService {
	return &contactService{sender: sender, adminEmail: adminEmail}
}

func (s *contactService) SendContactMessage(ctx context.Context, name, email, subject, message string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nThank you for your message.\n\nSubject: %s\nMessage: %s\n\nWe will respond soon.\nBest regards,\nTastebite Team",
		name, subject, message,
	)

	sendCtx, cancel := context.WithTimeout(ctx, contactSendTimeout)
	defer cancel()
	if err := s.sender.Send(sendCtx, email, "Contact Form Confirmation: "+subject, body); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}

	if s.adminEmail != "" {
		notification := fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s", name, email, subject, message)
		// Best effort: the sender already got their confirmation.
		_ = s.sender.Send(sendCtx, s.adminEmail, "Contact form submission: "+subject, notification)
	}
	return nil
}
