package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
//
// Create and UpdateDetails must report a unique-index violation on email as
// ErrDuplicateEmail; callers rely on the constraint instead of a pre-check so
// concurrent registrations cannot race past a lookup.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, name, email string) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash []byte, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id uuid.UUID) error
	// ConsumeResetToken atomically matches an unexpired reset-token digest,
	// installs the new password hash and clears both reset fields in a single
	// statement, so a secret is usable at most once. Returns ErrNotFound when
	// no row matches or the token has expired.
	ConsumeResetToken(ctx context.Context, tokenHash []byte, passwordHash string) (User, error)
}

// User represents a stored user with credential material.
// PasswordHash and the reset-token fields never leave the service layer;
// API responses are built from the remaining fields only.
type User struct {
	ID                  uuid.UUID
	Name                string
	Email               string
	PasswordHash        string
	ResetTokenHash      []byte
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
