package error

import "errors"

// Authentication domain errors.
var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a token is invalid or malformed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Login errors (01XXXX)
	ErrCodeInvalidCredentials AuthErrorCode = "AUTH-010001"
	ErrCodeMissingFields      AuthErrorCode = "AUTH-010002"
	ErrCodeRateLimited        AuthErrorCode = "AUTH-010003"

	// Token errors (02XXXX)
	ErrCodeInvalidToken AuthErrorCode = "AUTH-020001"
	ErrCodeExpiredToken AuthErrorCode = "AUTH-020002"
	ErrCodeMissingToken AuthErrorCode = "AUTH-020003"
)

// AuthError represents an authentication error with code and message.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code and message.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
