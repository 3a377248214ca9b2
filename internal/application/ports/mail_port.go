package ports

import "context"

// MailMessage one outgoing e-mail.
type MailMessage struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// MailResult delivery outcome reported by a sender.
type MailResult struct {
	Delivered bool
	Skipped   bool   // sender disabled
	MessageID string // Message-ID header, without angle brackets
}

// MailSender delivers e-mail.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) (MailResult, error)
}
