package model

import "context"

// PasswordHasher computes and verifies one-way, salted password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
