package auth

import (
	"errors"
	"fmt"

	"github.com/vaughan-dsouza/authapi/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt. Every hash embeds its
// own random salt and cost.
type Hasher struct {
	cost int
}

func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth: bcrypt cost %d out of range", cost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns an encoded bcrypt hash of plaintext. Passwords longer than
// bcrypt's 72-byte input limit are rejected as a validation error.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.NewValidationError("password must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// maxPasswordBytes is bcrypt's input limit. CompareHashAndPassword only
// reads that many bytes, so longer input must be refused before comparing.
const maxPasswordBytes = 72

// Verify reports whether plaintext matches hash. A malformed hash never
// matches, and neither does a password longer than maxPasswordBytes.
func (h *Hasher) Verify(plaintext, hash string) bool {
	if len(plaintext) > maxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
