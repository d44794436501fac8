package controller

import (
	"errors"
	"net/http"

	"github.com/donde/storefront-backend/internal/app/service"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles user registration. The first account becomes the owner.
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid email or password")
		return
	}

	user, tokens, err := ctrl.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "register user")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	apperrors.SuccessWithMessage(c, http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	}, "User registered successfully")
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid email or password")
		return
	}

	user, tokens, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "log in")
		return
	}

	log.Info("User logged in", map[string]interface{}{"user_id": user.ID})
	apperrors.Success(c, http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// RefreshToken exchanges a refresh token for a new pair.
// POST /api/v1/auth/refresh
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "refresh_token is required")
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		log.Warn("Token refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondServiceError(c, err, "refresh token")
		return
	}
	apperrors.Success(c, http.StatusOK, gin.H{"tokens": tokens})
}

// Logout revokes the refresh token and, when the caller is authenticated,
// the access token that made the call.
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "refresh_token is required")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid token")
			return
		}
		respondServiceError(c, err, "log out")
		return
	}

	if tokenID, expiresAt, ok := middleware.GetTokenID(c); ok {
		if err := ctrl.authService.RevokeAccessToken(c.Request.Context(), tokenID, expiresAt); err != nil {
			log.Error("Failed to revoke access token", err)
		}
	}

	apperrors.SuccessWithMessage(c, http.StatusOK, nil, "Logged out")
}

// GetMe returns the authenticated user.
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "fetch user")
		return
	}
	apperrors.Success(c, http.StatusOK, user)
}
