// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/i18n"
)

// Sender dispatches a single message. Tests inject a fake; production uses
// the SMTP sender below.
type Sender interface {
	Send(to, subject, body string) error
}

// Service renders and dispatches the application's transactional mail.
type Service struct {
	sender  Sender
	baseURL string
}

// NewService creates an email service backed by SMTP.
func NewService(cfg *config.SMTPConfig, baseURL string) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{
		sender:  &smtpSender{cfg: cfg},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// NewServiceWithSender creates an email service with a custom sender.
func NewServiceWithSender(sender Sender, baseURL string) *Service {
	return &Service{
		sender:  sender,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// SendActivation sends the account activation email. The link embeds the
// URL-safe encoded user id and the activation token.
func (s *Service) SendActivation(ctx context.Context, toEmail, username, uid, token string) error {
	activateURL := fmt.Sprintf("%s/activate/%s/%s", s.baseURL, uid, token)

	subject := i18n.T(ctx, "activation_email_subject")
	body := i18n.TData(ctx, "activation_email_body", map[string]any{
		"Username":    username,
		"ActivateURL": activateURL,
	})

	return s.sender.Send(toEmail, subject, body)
}

// smtpSender sends mail via SMTP using go-mail.
type smtpSender struct {
	cfg *config.SMTPConfig
}

func (s *smtpSender) Send(to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Implicit TLS (SSL) for port 465, STARTTLS for others.
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
