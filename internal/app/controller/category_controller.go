package controller

import (
	"net/http"

	"github.com/donde/storefront-backend/internal/app/service"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/middleware"
	"github.com/donde/storefront-backend/pkg/patch"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// ReorderCategoriesRequest lists every sibling of one parent in display
// order. A missing parentId is inferred from the ids; null means top level.
type ReorderCategoriesRequest struct {
	CategoryIDs []uint            `json:"categoryIds"`
	ParentID    patch.Field[uint] `json:"parentId"`
}

// ListCategories returns every category in display order.
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch categories")
		return
	}
	apperrors.Success(c, http.StatusOK, categories)
}

// GetCategory
// GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "fetch category")
		return
	}
	apperrors.Success(c, http.StatusOK, category)
}

// CreateCategory appends a category to the end of its sibling group.
// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid category request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category payload")
		return
	}

	category, err := ctrl.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create category")
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	apperrors.Success(c, http.StatusCreated, category)
}

// UpdateCategory
// PUT /api/v1/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid category request", map[string]interface{}{
			"category_id": id,
			"error":       err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category payload")
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "update category")
		return
	}

	log.Info("Category updated", map[string]interface{}{"category_id": id})
	apperrors.Success(c, http.StatusOK, category)
}

// DeleteCategory is owner-only.
// DELETE /api/v1/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "delete category")
		return
	}

	log.Info("Category deleted", map[string]interface{}{"category_id": id})
	apperrors.SuccessWithMessage(c, http.StatusOK, nil, "Category deleted")
}

// ReorderCategories rewrites the order of one sibling group.
// POST /api/v1/categories/reorder
func (ctrl *CategoryController) ReorderCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ReorderCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reorder request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid reorder payload")
		return
	}

	categories, err := ctrl.categoryService.ReorderCategories(c.Request.Context(), req.ParentID, req.CategoryIDs)
	if err != nil {
		respondServiceError(c, err, "reorder categories")
		return
	}

	log.Info("Categories reordered", map[string]interface{}{"count": len(req.CategoryIDs)})
	apperrors.Success(c, http.StatusOK, categories)
}

// MoveCategoryUp swaps a category with its previous sibling.
// POST /api/v1/categories/:id/move-up
func (ctrl *CategoryController) MoveCategoryUp(c *gin.Context) {
	ctrl.move(c, true)
}

// MoveCategoryDown swaps a category with its next sibling.
// POST /api/v1/categories/:id/move-down
func (ctrl *CategoryController) MoveCategoryDown(c *gin.Context) {
	ctrl.move(c, false)
}

func (ctrl *CategoryController) move(c *gin.Context, up bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	categories, err := ctrl.categoryService.MoveCategory(c.Request.Context(), id, up)
	if err != nil {
		respondServiceError(c, err, "move category")
		return
	}
	apperrors.Success(c, http.StatusOK, categories)
}
