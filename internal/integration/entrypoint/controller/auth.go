package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tyreledger/backend/internal/application/usecase/auth"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
	"github.com/tyreledger/backend/internal/integration/entrypoint/dto"
)

// AuthController handles authentication endpoints.
type AuthController struct {
	loginUseCase *auth.LoginOperatorUseCase
}

// NewAuthController creates a new auth controller instance.
func NewAuthController(loginUseCase *auth.LoginOperatorUseCase) *AuthController {
	return &AuthController{
		loginUseCase: loginUseCase,
	}
}

// Login handles POST /auth/login requests.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Username and password are required",
			Code:  string(domainerror.ErrCodeMissingFields),
		})
		return
	}

	output, err := c.loginUseCase.Execute(ctx.Request.Context(), auth.LoginOperatorInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		var authErr *domainerror.AuthError
		if errors.As(err, &authErr) {
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: authErr.Message,
				Code:  string(authErr.Code),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{
		AccessToken: output.AccessToken,
	})
}
