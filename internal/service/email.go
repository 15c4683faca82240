package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"tooltrack-backend/internal/config"
	"tooltrack-backend/internal/logger"
)

// NewEmailService builds the backend named by the configuration.
func NewEmailService(cfg config.EmailConfig) (EmailService, error) {
	switch cfg.Backend {
	case "smtp":
		return &smtpEmailService{
			host:     cfg.SMTP.Host,
			port:     cfg.SMTP.Port,
			username: cfg.SMTP.User,
			password: cfg.SMTP.Password,
			from:     cfg.From,
		}, nil
	case "sendgrid":
		return &sendgridEmailService{
			client:   sendgrid.NewSendClient(cfg.SendGrid.APIKey),
			from:     cfg.From,
			fromName: cfg.SendGrid.FromName,
		}, nil
	default:
		return nil, fmt.Errorf("unknown email backend: %q", cfg.Backend)
	}
}

type smtpEmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func (s *smtpEmailService) Send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	logger.ExternalServiceCall("smtp", "send", "to", to, "subject", subject)

	// gomail has no context support; run the send aside so the caller's
	// deadline still holds.
	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()

	select {
	case err := <-done:
		logger.ExternalServiceResult("smtp", "send", err)
		if err != nil {
			return fmt.Errorf("failed to send email via smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.ExternalServiceResult("smtp", "send", ctx.Err())
		return fmt.Errorf("smtp send aborted: %w", ctx.Err())
	}
}

type sendgridEmailService struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func (s *sendgridEmailService) Send(ctx context.Context, to, subject, body string) error {
	from := sgmail.NewEmail(s.fromName, s.from)
	recipient := sgmail.NewEmail("", to)
	message := sgmail.NewSingleEmail(from, subject, recipient, body, "")

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)

	resp, err := s.client.SendWithContext(ctx, message)
	logger.ExternalServiceResult("sendgrid", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
