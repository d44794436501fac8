package middleware

import (
	"github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/locale"
	"github.com/gin-gonic/gin"
)

const localeKey = "locale"

// RequireLocale validates the :locale path segment. Unknown locales are 404s
// so that /xx/... never renders a storefront.
func RequireLocale() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("locale")
		l, ok := locale.Parse(code)
		if !ok {
			GetLoggerFromContext(c).Debug("Unsupported locale requested", map[string]interface{}{
				"locale": code,
			})
			errors.NotFound(c, errors.LocaleNotSupported, "Page not found")
			return
		}
		c.Set(localeKey, l)
		c.Next()
	}
}

// GetLocale returns the locale set by RequireLocale, or the default.
func GetLocale(c *gin.Context) locale.Locale {
	if v, ok := c.Get(localeKey); ok {
		if l, ok := v.(locale.Locale); ok {
			return l
		}
	}
	return locale.Default
}
