// Package auth contains the operator authentication use case.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tyreledger/backend/internal/application/adapter"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

// LoginOperatorInput represents the input for operator login.
type LoginOperatorInput struct {
	Username string
	Password string
}

// LoginOperatorOutput represents the output of operator login.
type LoginOperatorOutput struct {
	AccessToken string
}

// LoginOperatorUseCase authenticates the single configured operator.
// The ledger is a single-operator system: the username and bcrypt password
// hash come from configuration, not a user store.
type LoginOperatorUseCase struct {
	username        string
	passwordHash    string
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
}

// NewLoginOperatorUseCase creates a new LoginOperatorUseCase instance.
func NewLoginOperatorUseCase(username, passwordHash string, passwordService adapter.PasswordService, tokenService adapter.TokenService) *LoginOperatorUseCase {
	return &LoginOperatorUseCase{
		username:        username,
		passwordHash:    passwordHash,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// Execute performs the login and issues an access token.
func (uc *LoginOperatorUseCase) Execute(ctx context.Context, input LoginOperatorInput) (*LoginOperatorOutput, error) {
	if input.Username != uc.username {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidCredentials,
			"invalid credentials",
			domainerror.ErrInvalidCredentials,
		)
	}

	if err := uc.passwordService.VerifyPassword(uc.passwordHash, input.Password); err != nil {
		slog.Debug("Operator login failed", "username", input.Username)
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidCredentials,
			"invalid credentials",
			domainerror.ErrInvalidCredentials,
		)
	}

	token, err := uc.tokenService.GenerateAccessToken(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &LoginOperatorOutput{AccessToken: token}, nil
}
