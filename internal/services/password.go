package services

import (
	"fmt"
	"sync"

	"github.com/alexedwards/argon2id"
)

// PasswordHasher hashes and verifies passwords with argon2id.
type PasswordHasher struct {
	params *argon2id.Params

	dummyOnce sync.Once
	dummyHash string
	dummyErr  error
}

func NewPasswordHasher(params *argon2id.Params) *PasswordHasher {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &PasswordHasher{params: params}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, h.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Compare reports whether password matches hash. The final comparison
// is constant-time.
func (h *PasswordHasher) Compare(password, hash string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return false, fmt.Errorf("failed to compare password: %w", err)
	}
	return match, nil
}

// CompareDummy burns the same amount of work as Compare so that
// an unknown email takes as long to reject as a wrong password.
func (h *PasswordHasher) CompareDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, h.dummyErr = argon2id.CreateHash("dummy password", h.params)
	})
	if h.dummyErr != nil {
		return
	}
	_, _ = argon2id.ComparePasswordAndHash(password, h.dummyHash)
}
