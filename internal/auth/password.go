package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher produces and checks salted bcrypt digests.
type PasswordHasher struct {
	cost int

	dummyOnce   sync.Once
	dummyDigest []byte
}

// NewPasswordHasher returns a hasher using cost 10.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcryptCost}
}

// Hash returns a self-describing digest of plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Malformed digests never match.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyAbsent compares plaintext against a fixed digest of the hasher's cost
// and always reports false. Use it when no account matched, so the miss takes
// as long as a wrong password.
func (h *PasswordHasher) VerifyAbsent(plaintext string) bool {
	h.dummyOnce.Do(func() {
		h.dummyDigest, _ = bcrypt.GenerateFromPassword([]byte("storefront-absent-account"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummyDigest, []byte(plaintext))
	return false
}
