package model

import "github.com/google/uuid"

// TokenManager issues and verifies stateless session tokens.
type TokenManager interface {
	Generate(userID uuid.UUID) (string, error)
	// Parse returns the embedded user ID. Any failure, whatever the cause,
	// is reported as ErrInvalidToken.
	Parse(tokenString string) (uuid.UUID, error)
}
