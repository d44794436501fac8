package controller

import (
	"net/http"

	"github.com/donde/storefront-backend/internal/theme"
	"github.com/gin-gonic/gin"
)

type ThemeController struct {
	stylesheet *theme.StylesheetSink
}

func NewThemeController(stylesheet *theme.StylesheetSink) *ThemeController {
	return &ThemeController{stylesheet: stylesheet}
}

// Stylesheet serves the CSS custom properties of the active palette.
// GET /theme.css
func (ctrl *ThemeController) Stylesheet(c *gin.Context) {
	css, etag := ctrl.stylesheet.Stylesheet()

	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if etagMatches(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "text/css; charset=utf-8", css)
}
