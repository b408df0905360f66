package services

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/smtp"

	"github.com/taskdeck/taskdeck-api/internal/config"
)

// MailService is the interface handlers use to send email.
type MailService interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// smtpMailer sends mail through a plain SMTP relay.
type smtpMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewSMTPMailer creates a MailService backed by the configured SMTP relay.
func NewSMTPMailer(cfg *config.Config) MailService {
	return &smtpMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
	}
}

func (m *smtpMailer) SendMail(ctx context.Context, to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n",
		m.from, to, subject, body,
	))

	addr := net.JoinHostPort(m.host, m.port)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// logMailer writes outgoing mail to the server log. Used in development
// when no SMTP relay is configured.
type logMailer struct{}

// NewLogMailer creates a MailService that only logs messages.
func NewLogMailer() MailService {
	return &logMailer{}
}

func (m *logMailer) SendMail(ctx context.Context, to, subject, body string) error {
	log.Printf("mail (not sent, SMTP unconfigured): to=%s subject=%q\n%s", to, subject, body)
	return nil
}
