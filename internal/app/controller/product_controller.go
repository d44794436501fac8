package controller

import (
	"net/http"

	"github.com/donde/storefront-backend/internal/app/service"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type ReorderProductsRequest struct {
	ProductIDs []uint `json:"productIds"`
}

// ListProducts returns products in display order.
// GET /api/v1/products?categoryId=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	categoryID, ok := optionalUintQuery(c, "categoryId")
	if !ok {
		return
	}

	products, err := ctrl.productService.ListProducts(c.Request.Context(), categoryID)
	if err != nil {
		respondServiceError(c, err, "fetch products")
		return
	}
	apperrors.Success(c, http.StatusOK, products)
}

// SearchProducts matches the query against title and description.
// GET /api/v1/products/search?q=&categoryId=&minPrice=&maxPrice=
func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	params := service.SearchParams{Query: c.Query("q")}
	var ok bool
	if params.CategoryID, ok = optionalUintQuery(c, "categoryId"); !ok {
		return
	}
	if params.MinPrice, ok = optionalFloatQuery(c, "minPrice"); !ok {
		return
	}
	if params.MaxPrice, ok = optionalFloatQuery(c, "maxPrice"); !ok {
		return
	}

	products, err := ctrl.productService.SearchProducts(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "search products")
		return
	}

	log.Debug("Product search", map[string]interface{}{
		"query":   params.Query,
		"results": len(products),
	})
	apperrors.Success(c, http.StatusOK, products)
}

// GetProduct
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "fetch product")
		return
	}
	apperrors.Success(c, http.StatusOK, product)
}

// CreateProduct appends a product to the end of the catalogue.
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product payload")
		return
	}

	product, err := ctrl.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id":  product.ID,
		"category_id": product.CategoryID,
	})
	apperrors.Success(c, http.StatusCreated, product)
}

// UpdateProduct
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product payload")
		return
	}

	product, err := ctrl.productService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "update product")
		return
	}

	log.Info("Product updated", map[string]interface{}{"product_id": id})
	apperrors.Success(c, http.StatusOK, product)
}

// DeleteProduct is owner-only.
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "delete product")
		return
	}

	log.Info("Product deleted", map[string]interface{}{"product_id": id})
	apperrors.SuccessWithMessage(c, http.StatusOK, nil, "Product deleted")
}

// ReorderProducts rewrites the catalogue order.
// POST /api/v1/products/reorder
func (ctrl *ProductController) ReorderProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ReorderProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reorder request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid reorder payload")
		return
	}

	products, err := ctrl.productService.ReorderProducts(c.Request.Context(), req.ProductIDs)
	if err != nil {
		respondServiceError(c, err, "reorder products")
		return
	}

	log.Info("Products reordered", map[string]interface{}{"count": len(req.ProductIDs)})
	apperrors.Success(c, http.StatusOK, products)
}

// MoveProductUp
// POST /api/v1/products/:id/move-up
func (ctrl *ProductController) MoveProductUp(c *gin.Context) {
	ctrl.move(c, true)
}

// MoveProductDown
// POST /api/v1/products/:id/move-down
func (ctrl *ProductController) MoveProductDown(c *gin.Context) {
	ctrl.move(c, false)
}

func (ctrl *ProductController) move(c *gin.Context, up bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	products, err := ctrl.productService.MoveProduct(c.Request.Context(), id, up)
	if err != nil {
		respondServiceError(c, err, "move product")
		return
	}
	apperrors.Success(c, http.StatusOK, products)
}
