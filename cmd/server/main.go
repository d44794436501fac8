package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donde/storefront-backend/config"
	"github.com/donde/storefront-backend/internal/app/controller"
	"github.com/donde/storefront-backend/internal/app/repository"
	"github.com/donde/storefront-backend/internal/app/service"
	"github.com/donde/storefront-backend/internal/db"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/donde/storefront-backend/internal/router"
	"github.com/donde/storefront-backend/internal/scheduler"
	"github.com/donde/storefront-backend/internal/storage"
	"github.com/donde/storefront-backend/internal/theme"
	"github.com/donde/storefront-backend/internal/websocket"
	"github.com/donde/storefront-backend/pkg/logger"
	"github.com/donde/storefront-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting storefront backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the settings cache and token revocation; without it both
	// live in process memory.
	var kv redis.KV
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer redis.Close()
		kv = redis.NewKV(redis.GetClient())
	} else {
		logger.Warn("REDIS_HOST not set, using in-memory cache")
		kv = redis.NewMemoryKV()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var presigner storage.Presigner
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, &cfg.S3)
		if err != nil {
			logger.Warn("S3 unavailable, uploads disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			presigner = s3Storage
		}
	}

	// Theme: the stylesheet serves /theme.css, the hub pushes live updates
	hub := websocket.NewHub()
	go hub.Run(ctx)

	defaults := theme.Palette{Primary: cfg.Theme.DefaultPrimary, PrimaryHover: cfg.Theme.DefaultPrimaryHover}
	resolver := theme.NewResolver(defaults, cfg.Theme.HoverDarkenPercent)
	stylesheet := theme.NewStylesheetSink(resolver.Defaults)
	applier := theme.NewApplier(resolver, stylesheet, theme.NewBroadcastSink(hub))

	// Initialize repositories
	database := db.DB
	settingsRepo := repository.NewSettingsRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	productRepo := repository.NewProductRepository(database)
	userRepo := repository.NewUserRepository(database)
	pageViewRepo := repository.NewPageViewRepository(database)

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo, kv, cfg.Redis.SettingsTTL, applier)
	if err := settingsService.SyncTheme(ctx); err != nil {
		logger.Warn("Failed to apply stored theme, serving defaults", map[string]interface{}{
			"error": err.Error(),
		})
	}

	authService := service.NewAuthService(
		userRepo,
		kv,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	analyticsService := service.NewAnalyticsService(pageViewRepo, cfg.Analytics.RetentionDays)

	purgeScheduler := scheduler.NewAnalyticsPurgeScheduler(analyticsService, cfg.Analytics.PurgeSchedule)
	if err := purgeScheduler.Start(); err != nil {
		logger.Fatal("Failed to start analytics purge scheduler", err)
	}
	defer purgeScheduler.Stop()

	// Initialize controllers
	controllers := router.Controllers{
		Auth:     controller.NewAuthController(authService),
		User:     controller.NewUserController(service.NewUserService(userRepo)),
		Settings: controller.NewSettingsController(settingsService),
		Storefront: controller.NewStorefrontController(
			service.NewStorefrontService(settingsService, categoryRepo, productRepo, cfg.Locale.SwitcherExcluded),
		),
		Category:  controller.NewCategoryController(service.NewCategoryService(categoryRepo)),
		Product:   controller.NewProductController(service.NewProductService(productRepo, categoryRepo)),
		Setup:     controller.NewSetupController(service.NewSetupService(settingsService, categoryRepo)),
		Upload:    controller.NewUploadController(service.NewUploadService(presigner, cfg.Upload.MaxFileSize)),
		Analytics: controller.NewAnalyticsController(analyticsService),
		Theme:     controller.NewThemeController(stylesheet),
		Socket:    controller.NewBrandingSocketController(hub, settingsService, cfg.CORS.AllowedOrigins),
	}

	sqlDB, err := database.DB()
	if err != nil {
		logger.Fatal("Failed to get database instance", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, authService)
	engine := router.NewRouter(controllers, authMiddleware, sqlDB, cfg).Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
