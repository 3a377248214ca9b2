// Package email delivers notification mail over SMTP with gomail.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

var (
	_ ports.MailSender = (*SMTPSender)(nil)
	_ ports.MailSender = (*DisabledSender)(nil)
)

// SMTPConfig server and credentials.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// dialer is the part of gomail.Dialer the sender needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends each message over a fresh SMTP session.
type SMTPSender struct {
	dialer dialer
	log    *logger.Logger
}

// NewSMTPSender builds a sender. Port 465 uses implicit TLS, others STARTTLS when offered.
func NewSMTPSender(cfg SMTPConfig, log *logger.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("email: SMTP host is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		log:    log.Component("smtp"),
	}, nil
}

// Send delivers msg. gomail has no context support, so the session runs in a goroutine and
// Send returns early when ctx ends.
func (s *SMTPSender) Send(ctx context.Context, msg ports.MailMessage) (ports.MailResult, error) {
	m, id, err := buildMessage(msg)
	if err != nil {
		return ports.MailResult{}, err
	}
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		return ports.MailResult{}, fmt.Errorf("email: send aborted: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return ports.MailResult{}, fmt.Errorf("email: send %q: %w", msg.Subject, err)
		}
	}
	s.log.Debug().Strs("to", msg.To).Str("subject", msg.Subject).Str("message_id", id).Msg("mail delivered")
	return ports.MailResult{Delivered: true, MessageID: id}, nil
}

func buildMessage(msg ports.MailMessage) (*gomail.Message, string, error) {
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return nil, "", errors.New("email: no recipients")
	}
	if msg.From == "" {
		return nil, "", errors.New("email: empty sender")
	}
	id := messageID(msg.From)
	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetHeader("Message-ID", "<"+id+">")
	m.SetHeader("From", msg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m, id, nil
}

// messageID returns a unique id in the sender's domain.
func messageID(from string) string {
	domain := "localhost"
	if addr, err := mail.ParseAddress(from); err == nil {
		if at := strings.LastIndex(addr.Address, "@"); at >= 0 && at < len(addr.Address)-1 {
			domain = addr.Address[at+1:]
		}
	}
	return uuid.New().String() + "@" + domain
}

// DisabledSender logs instead of sending. Used when MAIL_ENABLED is false.
type DisabledSender struct {
	log *logger.Logger
}

// NewDisabledSender builds the no-op sender.
func NewDisabledSender(log *logger.Logger) *DisabledSender {
	if log == nil {
		log = logger.Nop()
	}
	return &DisabledSender{log: log.Component("mail")}
}

func (s *DisabledSender) Send(_ context.Context, msg ports.MailMessage) (ports.MailResult, error) {
	s.log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mail disabled, message skipped")
	return ports.MailResult{Skipped: true}, nil
}
