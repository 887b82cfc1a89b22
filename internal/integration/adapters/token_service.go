// Package adapters contains integration implementations of the application
// layer adapter interfaces.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tyreledger/backend/internal/application/adapter"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

// CustomClaims embeds the operator name into standard JWT claims.
type CustomClaims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

// JWTTokenService implements adapter.TokenService using HS256 JWTs.
type JWTTokenService struct {
	secret      []byte
	tokenExpiry time.Duration
}

// NewJWTTokenService creates a new JWTTokenService instance.
func NewJWTTokenService(secret string, tokenExpiry time.Duration) adapter.TokenService {
	return &JWTTokenService{
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
	}
}

// GenerateAccessToken issues a signed access token for the operator.
func (s *JWTTokenService) GenerateAccessToken(ctx context.Context, operator string) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken parses and verifies an access token.
func (s *JWTTokenService) ValidateAccessToken(ctx context.Context, tokenString string) (*adapter.TokenClaims, error) {
	claims, err := s.parseJWT(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerror.NewAuthError(
				domainerror.ErrCodeExpiredToken,
				"access token has expired",
				domainerror.ErrExpiredToken,
			)
		}
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidToken,
			"access token is invalid",
			domainerror.ErrInvalidToken,
		)
	}

	return &adapter.TokenClaims{
		Operator:  claims.Operator,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *JWTTokenService) parseJWT(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
