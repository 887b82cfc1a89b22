package adapters

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tyreledger/backend/internal/application/adapter"
)

const bcryptCost = 12

// BcryptPasswordService implements adapter.PasswordService using bcrypt.
type BcryptPasswordService struct{}

// NewBcryptPasswordService creates a new BcryptPasswordService instance.
func NewBcryptPasswordService() adapter.PasswordService {
	return &BcryptPasswordService{}
}

// HashPassword hashes a plaintext password.
func (s *BcryptPasswordService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against its hash.
func (s *BcryptPasswordService) VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
