package controller

import (
	"net/http"

	"github.com/donde/storefront-backend/internal/app/service"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// StorefrontController serves the locale-prefixed public routes. Every
// handler runs behind middleware.RequireLocale.
type StorefrontController struct {
	storefrontService service.StorefrontService
}

func NewStorefrontController(storefrontService service.StorefrontService) *StorefrontController {
	return &StorefrontController{storefrontService: storefrontService}
}

// GetBranding returns the localized header, banner, contact and theme data.
// GET /api/v1/:locale/storefront
func (ctrl *StorefrontController) GetBranding(c *gin.Context) {
	l := middleware.GetLocale(c)

	branding, err := ctrl.storefrontService.GetBranding(c.Request.Context(), l)
	if err != nil {
		respondServiceError(c, err, "load storefront")
		return
	}
	apperrors.Success(c, http.StatusOK, branding)
}

// ListCategories returns categories with names in the request locale.
// GET /api/v1/:locale/categories
func (ctrl *StorefrontController) ListCategories(c *gin.Context) {
	categories, err := ctrl.storefrontService.ListCategories(c.Request.Context(), middleware.GetLocale(c))
	if err != nil {
		respondServiceError(c, err, "fetch categories")
		return
	}
	apperrors.Success(c, http.StatusOK, categories)
}

// ListProducts returns the catalogue priced in the requested currency.
// GET /api/v1/:locale/products?categoryId=&currency=
func (ctrl *StorefrontController) ListProducts(c *gin.Context) {
	categoryID, ok := optionalUintQuery(c, "categoryId")
	if !ok {
		return
	}

	products, err := ctrl.storefrontService.ListProducts(
		c.Request.Context(),
		middleware.GetLocale(c),
		categoryID,
		c.Query("currency"),
	)
	if err != nil {
		respondServiceError(c, err, "fetch products")
		return
	}
	apperrors.Success(c, http.StatusOK, products)
}

// GetProduct returns a single product.
// GET /api/v1/:locale/products/:id?currency=
func (ctrl *StorefrontController) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.storefrontService.GetProduct(c.Request.Context(), middleware.GetLocale(c), id, c.Query("currency"))
	if err != nil {
		respondServiceError(c, err, "fetch product")
		return
	}
	apperrors.Success(c, http.StatusOK, product)
}
