package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	"github.com/donde/storefront-backend/internal/app/service"
	"github.com/donde/storefront-backend/internal/db"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/donde/storefront-backend/internal/theme"
	"github.com/donde/storefront-backend/pkg/redis"
	"github.com/donde/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func init() {
	util.BcryptCost = bcrypt.MinCost
}

type testEnv struct {
	router      *gin.Engine
	db          *gorm.DB
	authService service.AuthService
	stylesheet  *theme.StylesheetSink
}

// setupControllerTest mounts every controller on the same paths the
// production router uses, backed by an in-memory database.
func setupControllerTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	kv := redis.NewMemoryKV()
	stylesheet := theme.NewStylesheetSink(theme.DefaultPalette)
	applier := theme.NewApplier(theme.NewResolver(theme.DefaultPalette, theme.DefaultHoverDarkenPercent), stylesheet)

	settingsRepo := repository.NewSettingsRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	pageViewRepo := repository.NewPageViewRepository(testDB)

	settingsService := service.NewSettingsService(settingsRepo, kv, time.Minute, applier)
	authService := service.NewAuthService(userRepo, kv, testJWTSecret, 15*time.Minute, 7*24*time.Hour)

	settingsCtrl := NewSettingsController(settingsService)
	storefrontCtrl := NewStorefrontController(service.NewStorefrontService(settingsService, categoryRepo, productRepo, nil))
	categoryCtrl := NewCategoryController(service.NewCategoryService(categoryRepo))
	productCtrl := NewProductController(service.NewProductService(productRepo, categoryRepo))
	authCtrl := NewAuthController(authService)
	userCtrl := NewUserController(service.NewUserService(userRepo))
	setupCtrl := NewSetupController(service.NewSetupService(settingsService, categoryRepo))
	uploadCtrl := NewUploadController(service.NewUploadService(nil, 5*1024*1024))
	analyticsCtrl := NewAnalyticsController(service.NewAnalyticsService(pageViewRepo, 90))
	themeCtrl := NewThemeController(stylesheet)

	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret, authService)
	authed := authMiddleware.Authenticate()
	owner := authMiddleware.RequireOwner()
	staff := authMiddleware.RequireStaff()

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.GET("/theme.css", themeCtrl.Stylesheet)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authCtrl.Register)
	v1.POST("/auth/login", authCtrl.Login)
	v1.POST("/auth/refresh", authCtrl.RefreshToken)
	v1.POST("/auth/logout", authMiddleware.OptionalAuthenticate(), authCtrl.Logout)
	v1.GET("/auth/me", authed, authCtrl.GetMe)

	v1.PUT("/users/password/change", authed, userCtrl.ChangePassword)
	v1.GET("/users", authed, owner, userCtrl.ListUsers)
	v1.POST("/users", authed, owner, userCtrl.CreateUser)
	v1.PUT("/users/:id/role", authed, owner, userCtrl.UpdateRole)
	v1.PUT("/users/:id/status", authed, owner, userCtrl.UpdateStatus)
	v1.DELETE("/users/:id", authed, owner, userCtrl.DeleteUser)

	v1.GET("/settings", settingsCtrl.GetSettings)
	v1.PUT("/settings", authed, owner, settingsCtrl.UpsertSettings)

	v1.GET("/setup/status", setupCtrl.GetStatus)
	v1.POST("/setup", authMiddleware.OptionalAuthenticate(), setupCtrl.CompleteSetup)

	v1.GET("/categories", categoryCtrl.ListCategories)
	v1.GET("/categories/:id", categoryCtrl.GetCategory)
	v1.POST("/categories", authed, staff, categoryCtrl.CreateCategory)
	v1.PUT("/categories/:id", authed, staff, categoryCtrl.UpdateCategory)
	v1.DELETE("/categories/:id", authed, owner, categoryCtrl.DeleteCategory)
	v1.POST("/categories/reorder", authed, staff, categoryCtrl.ReorderCategories)
	v1.POST("/categories/:id/move-up", authed, staff, categoryCtrl.MoveCategoryUp)
	v1.POST("/categories/:id/move-down", authed, staff, categoryCtrl.MoveCategoryDown)

	v1.GET("/products", productCtrl.ListProducts)
	v1.GET("/products/search", productCtrl.SearchProducts)
	v1.GET("/products/:id", productCtrl.GetProduct)
	v1.POST("/products", authed, staff, productCtrl.CreateProduct)
	v1.PUT("/products/:id", authed, staff, productCtrl.UpdateProduct)
	v1.DELETE("/products/:id", authed, owner, productCtrl.DeleteProduct)
	v1.POST("/products/reorder", authed, staff, productCtrl.ReorderProducts)
	v1.POST("/products/:id/move-up", authed, staff, productCtrl.MoveProductUp)
	v1.POST("/products/:id/move-down", authed, staff, productCtrl.MoveProductDown)

	v1.POST("/upload/presigned-url", authed, staff, uploadCtrl.GeneratePresignedURL)
	v1.POST("/analytics/pageview", analyticsCtrl.RecordPageView)
	v1.GET("/analytics/summary", authed, staff, analyticsCtrl.GetSummary)

	storefront := v1.Group("/:locale", middleware.RequireLocale())
	storefront.GET("/storefront", storefrontCtrl.GetBranding)
	storefront.GET("/categories", storefrontCtrl.ListCategories)
	storefront.GET("/products", storefrontCtrl.ListProducts)
	storefront.GET("/products/:id", storefrontCtrl.GetProduct)

	return &testEnv{
		router:      router,
		db:          testDB,
		authService: authService,
		stylesheet:  stylesheet,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "text/css; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// register signs a user up; the first one becomes the owner.
func (e *testEnv) register(t *testing.T, email string) *util.TokenPair {
	t.Helper()
	_, tokens, err := e.authService.Register(context.Background(), email, "password123")
	require.NoError(t, err)
	return tokens
}

func (e *testEnv) seedCategory(t *testing.T, name string, parentID *uint, order int) *model.Category {
	t.Helper()
	c := &model.Category{Name: name, ParentID: parentID, OrderIndex: order}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *testEnv) seedProduct(t *testing.T, title string, categoryID uint, usd float64, order int) *model.Product {
	t.Helper()
	p := &model.Product{
		Title:          title,
		Description:    "**" + title + "**",
		PriceUSD:       &usd,
		CategoryID:     categoryID,
		ItemOrderIndex: order,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func ids[T any](items []T, id func(T) uint) []uint {
	out := make([]uint, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}
