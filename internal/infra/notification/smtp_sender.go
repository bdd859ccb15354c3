// Package notification delivers recipient-facing mail over SMTP.
package notification

import (
	"context"
	"log/slog"

	"lockerbox/config"
	"lockerbox/internal/domain/service"
	"lockerbox/internal/errors"

	"github.com/wneessen/go-mail"
)

// smtpSender implements service.MailSender using go-mail.
type smtpSender struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPSender is the constructor for smtpSender.
func NewSMTPSender(cfg *config.Config, logger *slog.Logger) (service.MailSender, error) {
	if cfg.SMTP == nil || cfg.SMTP.Host == "" {
		return nil, errors.New("smtp configuration must be provided")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.SMTP.Port),
	}
	if cfg.SMTP.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTP.Username),
			mail.WithPassword(cfg.SMTP.Password),
		)
	}

	client, err := mail.NewClient(cfg.SMTP.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SMTP client")
	}

	return &smtpSender{
		client: client,
		from:   cfg.SMTP.From,
		logger: logger,
	}, nil
}

// Send delivers a single plain-text message. Callers treat failures as
// non-fatal; the error is returned so they can audit the failed delivery.
func (s *smtpSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return errors.Wrap(err, "invalid sender address")
	}
	if err := msg.To(to); err != nil {
		return errors.Wrap(err, "invalid recipient address")
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "mail delivery failed",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)

		return errors.Wrap(err, "failed to send mail")
	}

	return nil
}
