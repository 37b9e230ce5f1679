package model

import "context"

// Mailer dispatches notification email. Send returns only after the
// message was accepted or rejected so callers can decide on rollback.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
