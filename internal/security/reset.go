package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// resetTokenBytes gives 160 bits of entropy per secret.
	resetTokenBytes = 20

	// ResetTokenTTL is the fixed lifetime of a reset secret.
	ResetTokenTTL = 10 * time.Minute
)

// NewResetToken produces a random reset secret, its irreversible digest and
// the expiry timestamp. Only the digest is ever persisted; the raw secret is
// delivered to the user out-of-band.
func NewResetToken() (raw string, digest []byte, expiresAt time.Time, err error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", nil, time.Time{}, fmt.Errorf("failed to generate reset token: %w", err)
	}

	raw = hex.EncodeToString(b)
	return raw, HashResetToken(raw), time.Now().Add(ResetTokenTTL), nil
}

// HashResetToken computes the stored digest of a raw reset secret.
func HashResetToken(raw string) []byte {
	h := sha256.Sum256([]byte(raw))
	return h[:]
}
