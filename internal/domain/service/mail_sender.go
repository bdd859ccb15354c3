package service

import "context"

// MailSender delivers recipient-facing mail (PIN delivery, reissue, pickup
// reminders). Sending is best-effort: the business transaction is committed
// before any send, and a failed send never rolls it back.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
