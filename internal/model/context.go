package model

import "context"

// ContextManager stores and retrieves the authenticated user in a request
// context.
type ContextManager interface {
	SetUserToContext(ctx context.Context, user User) context.Context
	GetUserFromContext(ctx context.Context) (User, bool)
}
