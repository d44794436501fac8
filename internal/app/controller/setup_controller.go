package controller

import (
	"net/http"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/service"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type SetupController struct {
	setupService service.SetupService
}

func NewSetupController(setupService service.SetupService) *SetupController {
	return &SetupController{setupService: setupService}
}

// GetStatus tells the admin UI whether to show the setup wizard.
// GET /api/v1/setup/status
func (ctrl *SetupController) GetStatus(c *gin.Context) {
	configured, err := ctrl.setupService.IsConfigured(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "check setup status")
		return
	}
	apperrors.Success(c, http.StatusOK, service.SetupStatus{Configured: configured})
}

// CompleteSetup stores the wizard result. Anyone may run it while no settings
// row exists; after that only the owner may run it.
// POST /api/v1/setup
func (ctrl *SetupController) CompleteSetup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	claimed, err := ctrl.setupService.IsClaimed(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "check setup status")
		return
	}
	if claimed {
		if role, ok := middleware.GetUserRole(c); !ok || role != model.RoleOwner {
			log.Warn("Setup rerun rejected", map[string]interface{}{
				"role": role,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.SetupAlreadyCompleted, "Store setup has already been completed")
			return
		}
	}

	var req service.SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid setup request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "storeName is required")
		return
	}

	settings, err := ctrl.setupService.CompleteSetup(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "complete setup")
		return
	}
	apperrors.SuccessWithMessage(c, http.StatusOK, settings, "Setup completed")
}
