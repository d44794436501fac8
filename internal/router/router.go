package router

import (
	"context"
	"net/http"
	"time"

	"github.com/donde/storefront-backend/config"
	"github.com/donde/storefront-backend/internal/app/controller"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Pinger reports database reachability for /health. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Controllers struct {
	Auth       *controller.AuthController
	User       *controller.UserController
	Settings   *controller.SettingsController
	Storefront *controller.StorefrontController
	Category   *controller.CategoryController
	Product    *controller.ProductController
	Setup      *controller.SetupController
	Upload     *controller.UploadController
	Analytics  *controller.AnalyticsController
	Theme      *controller.ThemeController
	Socket     *controller.BrandingSocketController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	db             Pinger
	config         *config.Config
}

// NewRouter wires the HTTP routes. db may be nil, in which case /health
// does not check the database.
func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	db Pinger,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		db:             db,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.health)
	router.GET("/theme.css", r.controllers.Theme.Stylesheet)

	authenticated := r.authMiddleware.Authenticate()
	owner := r.authMiddleware.RequireOwner()
	staff := r.authMiddleware.RequireStaff()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.controllers.Auth.Register)
			auth.POST("/login", r.controllers.Auth.Login)
			auth.POST("/refresh", r.controllers.Auth.RefreshToken)
			auth.POST("/logout", r.authMiddleware.OptionalAuthenticate(), r.controllers.Auth.Logout)
			auth.GET("/me", authenticated, r.controllers.Auth.GetMe)
		}

		users := v1.Group("/users", authenticated)
		{
			users.PUT("/password/change", r.controllers.User.ChangePassword)

			users.GET("", owner, r.controllers.User.ListUsers)
			users.POST("", owner, r.controllers.User.CreateUser)
			users.GET("/:id", owner, r.controllers.User.GetUser)
			users.PUT("/:id/role", owner, r.controllers.User.UpdateRole)
			users.PUT("/:id/status", owner, r.controllers.User.UpdateStatus)
			users.DELETE("/:id", owner, r.controllers.User.DeleteUser)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("", r.controllers.Settings.GetSettings)
			settings.POST("", authenticated, owner, r.controllers.Settings.UpsertSettings)
			settings.PUT("", authenticated, owner, r.controllers.Settings.UpsertSettings)
		}

		setup := v1.Group("/setup")
		{
			setup.GET("/status", r.controllers.Setup.GetStatus)
			setup.POST("", r.authMiddleware.OptionalAuthenticate(), r.controllers.Setup.CompleteSetup)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.controllers.Category.ListCategories)
			categories.GET("/:id", r.controllers.Category.GetCategory)
			categories.POST("", authenticated, staff, r.controllers.Category.CreateCategory)
			categories.PUT("/:id", authenticated, staff, r.controllers.Category.UpdateCategory)
			categories.DELETE("/:id", authenticated, owner, r.controllers.Category.DeleteCategory)
			categories.POST("/reorder", authenticated, staff, r.controllers.Category.ReorderCategories)
			categories.POST("/:id/move-up", authenticated, staff, r.controllers.Category.MoveCategoryUp)
			categories.POST("/:id/move-down", authenticated, staff, r.controllers.Category.MoveCategoryDown)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.controllers.Product.ListProducts)
			products.GET("/search", r.controllers.Product.SearchProducts)
			products.GET("/:id", r.controllers.Product.GetProduct)
			products.POST("", authenticated, staff, r.controllers.Product.CreateProduct)
			products.PUT("/:id", authenticated, staff, r.controllers.Product.UpdateProduct)
			products.DELETE("/:id", authenticated, owner, r.controllers.Product.DeleteProduct)
			products.POST("/reorder", authenticated, staff, r.controllers.Product.ReorderProducts)
			products.POST("/:id/move-up", authenticated, staff, r.controllers.Product.MoveProductUp)
			products.POST("/:id/move-down", authenticated, staff, r.controllers.Product.MoveProductDown)
		}

		v1.POST("/upload/presigned-url", authenticated, staff, r.controllers.Upload.GeneratePresignedURL)

		analytics := v1.Group("/analytics")
		{
			analytics.POST("/pageview", r.controllers.Analytics.RecordPageView)
			analytics.GET("/summary", authenticated, staff, r.controllers.Analytics.GetSummary)
		}

		v1.GET("/ws/branding", r.controllers.Socket.Connect)

		// unknown first segments fall through to here and 404 in RequireLocale
		storefront := v1.Group("/:locale", middleware.RequireLocale())
		{
			storefront.GET("/storefront", r.controllers.Storefront.GetBranding)
			storefront.GET("/categories", r.controllers.Storefront.ListCategories)
			storefront.GET("/products", r.controllers.Storefront.ListProducts)
			storefront.GET("/products/:id", r.controllers.Storefront.GetProduct)
		}
	}

	return router
}

func (r *Router) health(c *gin.Context) {
	if r.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := r.db.PingContext(ctx); err != nil {
			middleware.GetLoggerFromContext(c).Error("Health check failed", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Storefront API is running",
	})
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, If-None-Match, X-Request-ID, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "ETag, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
