package service

import (
	"context"
	"errors"
	"strings"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/pkg/logger"
	"github.com/donde/storefront-backend/pkg/patch"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("category name already exists")
	ErrCategoryNameEmpty  = errors.New("category name is required")
	ErrInvalidParent      = errors.New("invalid parent category")
	ErrEmptyReorder       = errors.New("reorder list is empty")
	ErrDuplicateReorderID = errors.New("reorder list contains duplicate ids")
	ErrPartialReorder     = errors.New("reorder list must contain every sibling")
	ErrMixedParents       = errors.New("reorder list spans several parent categories")
)

// CategoryInput carries the editable fields of a category.
type CategoryInput struct {
	Name        string  `json:"name" binding:"required"`
	NameEn      *string `json:"name_en"`
	NameRu      *string `json:"name_ru"`
	NameHe      *string `json:"name_he"`
	NameAz      *string `json:"name_az"`
	Description string  `json:"description"`
	ParentID    *uint   `json:"parent_id"`
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	// ReorderCategories takes the complete ordered sibling group. parent picks
	// the group explicitly (null = top level); when absent the group of the
	// first known id is used. Unknown ids are dropped.
	ReorderCategories(ctx context.Context, parent patch.Field[uint], ids []uint) ([]model.Category, error)
	// MoveCategory swaps the category with its previous (up) or next sibling.
	// At either end of the group it is a no-op.
	MoveCategory(ctx context.Context, id uint, up bool) ([]model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, input CategoryInput) (*model.Category, error) {
	category := input.toModel()
	if category.Name == "" {
		return nil, ErrCategoryNameEmpty
	}
	if err := s.checkParent(ctx, 0, category.ParentID); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrCategoryNameExists
		}
		return nil, err
	}

	logger.Info("Category created", logger.Fields{
		"category_id": category.ID,
		"name":        category.Name,
		"parent_id":   category.ParentID,
	})
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*model.Category, error) {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}

	category := input.toModel()
	category.ID = id
	if category.Name == "" {
		return nil, ErrCategoryNameEmpty
	}
	if err := s.checkParent(ctx, id, category.ParentID); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrCategoryNameExists
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	logger.Info("Category updated", logger.Fields{"category_id": id})
	return s.GetCategory(ctx, id)
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	logger.Info("Category deleted", logger.Fields{"category_id": id})
	return nil
}

// checkParent rejects a missing parent, the category itself, and any of its
// descendants. id is 0 for a category that does not exist yet.
func (s *categoryService) checkParent(ctx context.Context, id uint, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	if id != 0 && *parentID == id {
		return ErrInvalidParent
	}

	all, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	parents := make(map[uint]*uint, len(all))
	for _, c := range all {
		parents[c.ID] = c.ParentID
	}
	if _, ok := parents[*parentID]; !ok {
		return ErrInvalidParent
	}
	if id == 0 {
		return nil
	}

	// walk up from the new parent; reaching id would create a cycle
	seen := make(map[uint]bool)
	for cur := parentID; cur != nil; cur = parents[*cur] {
		if *cur == id || seen[*cur] {
			return ErrInvalidParent
		}
		seen[*cur] = true
	}
	return nil
}

func (s *categoryService) ReorderCategories(ctx context.Context, parent patch.Field[uint], ids []uint) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyReorder
	}
	if hasDuplicates(ids) {
		return nil, ErrDuplicateReorderID
	}

	known, err := s.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Category, len(known))
	for _, c := range known {
		byID[c.ID] = c
	}

	kept := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := byID[id]; ok {
			kept = append(kept, id)
		}
	}
	if dropped := len(ids) - len(kept); dropped > 0 {
		logger.Warn("Dropping unknown category ids from reorder", logger.Fields{"dropped": dropped})
	}

	var group *uint
	switch {
	case parent.Set:
		group = parent.Ptr()
	case len(kept) > 0:
		group = byID[kept[0]].ParentID
	}

	for _, id := range kept {
		if !sameGroup(byID[id].ParentID, group) {
			return nil, ErrMixedParents
		}
	}

	siblings, err := s.categoryRepo.FindSiblings(ctx, group)
	if err != nil {
		return nil, err
	}
	// kept is duplicate-free and inside the group, so equal length means equal sets
	if len(siblings) != len(kept) {
		return nil, ErrPartialReorder
	}

	if len(kept) > 0 {
		if err := s.categoryRepo.Reorder(ctx, group, kept); err != nil {
			return nil, err
		}
	}

	logger.Info("Categories reordered", logger.Fields{
		"parent_id": group,
		"count":     len(kept),
	})
	return s.categoryRepo.FindSiblings(ctx, group)
}

func (s *categoryService) MoveCategory(ctx context.Context, id uint, up bool) ([]model.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	siblings, err := s.categoryRepo.FindSiblings(ctx, category.ParentID)
	if err != nil {
		return nil, err
	}

	pos := -1
	for i, c := range siblings {
		if c.ID == id {
			pos = i
			break
		}
	}
	target := pos + 1
	if up {
		target = pos - 1
	}
	if pos < 0 || target < 0 || target >= len(siblings) {
		return siblings, nil
	}

	if err := s.categoryRepo.Swap(ctx, id, siblings[target].ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return s.categoryRepo.FindSiblings(ctx, category.ParentID)
}

func (in CategoryInput) toModel() *model.Category {
	return &model.Category{
		Name:        strings.TrimSpace(in.Name),
		NameEn:      in.NameEn,
		NameRu:      in.NameRu,
		NameHe:      in.NameHe,
		NameAz:      in.NameAz,
		Description: in.Description,
		ParentID:    in.ParentID,
	}
}

func sameGroup(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func hasDuplicates(ids []uint) bool {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
