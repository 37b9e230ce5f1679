package context

import (
	"context"

	"github.com/aibanking/auth-server/internal/model"
)

type contextKey int

// userKey is the context key under which the authenticated user is stored.
const userKey contextKey = iota

// Manager stores and retrieves the authenticated user in request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserToContext returns a child context carrying the resolved user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the user placed by the access guard. The
// boolean is false when the request never passed authentication.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey).(model.User)
	return user, ok
}
