package controller

import (
	"net/http"

	"github.com/donde/storefront-backend/internal/app/service"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	uploadService service.UploadService
}

func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// GeneratePresignedURL returns a URL the browser can PUT the image to.
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "filename, content_type and file_size are required")
		return
	}

	upload, err := ctrl.uploadService.PresignUpload(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "generate upload URL")
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Info("Presigned upload issued", map[string]interface{}{
		"user_id": userID,
		"key":     upload.Key,
	})
	apperrors.Success(c, http.StatusOK, upload)
}
