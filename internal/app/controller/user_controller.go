package controller

import (
	"net/http"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/service"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// UserController manages staff accounts. Everything except ChangePassword is
// mounted behind RequireOwner.
type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

type CreateUserRequest struct {
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required"`
	Role     model.UserRole `json:"role"`
}

type UpdateRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

type UpdateStatusRequest struct {
	Status model.UserStatus `json:"status" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ListUsers
// GET /api/v1/users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	users, err := ctrl.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch users")
		return
	}
	apperrors.Success(c, http.StatusOK, users)
}

// GetUser
// GET /api/v1/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "fetch user")
		return
	}
	apperrors.Success(c, http.StatusOK, user)
}

// CreateUser adds a staff account. Role defaults to editor.
// POST /api/v1/users
func (ctrl *UserController) CreateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create user request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user payload")
		return
	}

	user, err := ctrl.userService.CreateUser(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		respondServiceError(c, err, "create user")
		return
	}

	log.Info("User created", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	apperrors.Success(c, http.StatusCreated, user)
}

// UpdateRole
// PUT /api/v1/users/:id/role
func (ctrl *UserController) UpdateRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "role is required")
		return
	}

	user, err := ctrl.userService.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondServiceError(c, err, "update role")
		return
	}

	log.Info("User role updated", map[string]interface{}{
		"user_id": id,
		"role":    req.Role,
	})
	apperrors.Success(c, http.StatusOK, user)
}

// UpdateStatus activates or deactivates an account.
// PUT /api/v1/users/:id/status
func (ctrl *UserController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "status is required")
		return
	}

	user, err := ctrl.userService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err, "update status")
		return
	}

	log.Info("User status updated", map[string]interface{}{
		"user_id": id,
		"status":  req.Status,
	})
	apperrors.Success(c, http.StatusOK, user)
}

// DeleteUser
// DELETE /api/v1/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.DeleteUser(c.Request.Context(), actorID, id); err != nil {
		respondServiceError(c, err, "delete user")
		return
	}

	log.Info("User deleted", map[string]interface{}{
		"user_id":  id,
		"actor_id": actorID,
	})
	apperrors.SuccessWithMessage(c, http.StatusOK, nil, "User deleted")
}

// ChangePassword lets any signed-in user change their own password.
// PUT /api/v1/users/password/change
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "current_password and new_password are required")
		return
	}

	if err := ctrl.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err, "change password")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Password changed", map[string]interface{}{"user_id": userID})
	apperrors.SuccessWithMessage(c, http.StatusOK, nil, "Password changed")
}
