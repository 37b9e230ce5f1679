package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/aibanking/auth-server/internal/model"
)

var _ model.Mailer = (*SMTP)(nil)

// SMTP sends mail through a single SMTP relay using PLAIN auth.
type SMTP struct {
	addr     string
	username string
	password string
	from     string
}

// NewSMTP creates a mailer for the given relay address (host:port).
func NewSMTP(addr, username, password, from string) *SMTP {
	return &SMTP{addr: addr, username: username, password: password, from: from}
}

// Send dispatches a plain-text message and reports delivery failure to the
// caller; nothing is fire-and-forget here because the auth service rolls
// back reset state when dispatch fails.
func (m *SMTP) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	host, _, err := net.SplitHostPort(m.addr)
	if err != nil {
		return fmt.Errorf("invalid smtp address %q: %w", m.addr, err)
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, host)
	}

	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", m.addr, err)
	}
	return nil
}
