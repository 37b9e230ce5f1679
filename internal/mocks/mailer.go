package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Mailer is a testify mock of model.Mailer.
type Mailer struct {
	mock.Mock
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
