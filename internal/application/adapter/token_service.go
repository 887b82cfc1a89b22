package adapter

import (
	"context"
	"time"
)

// TokenClaims represents the claims contained in an access token.
type TokenClaims struct {
	Operator  string
	ExpiresAt time.Time
}

// TokenService defines the interface for access token operations.
type TokenService interface {
	// GenerateAccessToken issues a signed access token for the operator.
	GenerateAccessToken(ctx context.Context, operator string) (string, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}

// PasswordService defines the interface for password hashing operations.
type PasswordService interface {
	// HashPassword hashes a plain text password.
	HashPassword(password string) (string, error)

	// VerifyPassword compares a plain text password with a hashed password.
	VerifyPassword(hashedPassword, password string) error
}
