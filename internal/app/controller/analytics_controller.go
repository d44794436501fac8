package controller

import (
	"net/http"
	"strconv"

	"github.com/donde/storefront-backend/internal/app/service"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsController(analyticsService service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

type PageViewRequest struct {
	Path     string `json:"path" binding:"required"`
	Referrer string `json:"referrer"`
}

// RecordPageView
// POST /api/v1/analytics/pageview
func (ctrl *AnalyticsController) RecordPageView(c *gin.Context) {
	var req PageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "path is required")
		return
	}

	if err := ctrl.analyticsService.RecordPageView(c.Request.Context(), req.Path, req.Referrer, c.Request.UserAgent()); err != nil {
		respondServiceError(c, err, "record page view")
		return
	}
	apperrors.Success(c, http.StatusCreated, nil)
}

// GetSummary returns view counts for the last ?days= days (default 30).
// GET /api/v1/analytics/summary
func (ctrl *AnalyticsController) GetSummary(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "days must be a positive number")
			return
		}
		days = v
	}

	summary, err := ctrl.analyticsService.Summary(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, err, "load analytics")
		return
	}
	apperrors.Success(c, http.StatusOK, summary)
}
