package controller

import (
	"net/http"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/service"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	settingsService service.SettingsService
}

func NewSettingsController(settingsService service.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

// GetSettings returns the raw settings row, or null before the first save.
// GET /api/v1/settings
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	settings, err := ctrl.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch settings")
		return
	}
	successWithETag(c, settings)
}

// UpsertSettings applies a partial update and creates the row if needed.
// PUT /api/v1/settings
func (ctrl *SettingsController) UpsertSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.SettingsPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid settings request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid settings payload")
		return
	}

	settings, err := ctrl.settingsService.UpsertSettings(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "update settings")
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Info("Settings updated", map[string]interface{}{
		"user_id": userID,
		"fields":  len(req.Changes()),
	})
	apperrors.SuccessWithMessage(c, http.StatusOK, settings, "Settings saved")
}
