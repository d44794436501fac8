package repository

import (
	"context"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Category, error)
	// FindSiblings returns the group under parentID (nil = top level) in order.
	FindSiblings(ctx context.Context, parentID *uint) ([]model.Category, error)
	// Create appends the category to the end of its sibling group.
	Create(ctx context.Context, category *model.Category) error
	// Update saves editable fields. A parent change moves the category to
	// the end of its new group and closes the gap in the old one.
	Update(ctx context.Context, category *model.Category) error
	// Delete removes the category and compacts its former siblings.
	Delete(ctx context.Context, id uint) error
	// Reorder assigns indices 0..n-1 to ids within the parentID group.
	Reorder(ctx context.Context, parentID *uint, ids []uint) error
	// Swap exchanges the order_index of two categories.
	Swap(ctx context.Context, a, b uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

var categoryOrder = orderGroup{table: "categories", column: "order_index"}

func categoryGroup(parentID *uint) orderGroup {
	return orderGroup{
		table:  categoryOrder.table,
		column: categoryOrder.column,
		where: func(q *gorm.DB) *gorm.DB {
			if parentID == nil {
				return q.Where("parent_id IS NULL")
			}
			return q.Where("parent_id = ?", *parentID)
		},
	}
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Order("parent_id NULLS FIRST").
		Order("order_index").
		Order("id").
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	logger.Debug("Categories listed", logger.Fields{"count": len(categories)})
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Category, error) {
	var categories []model.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		logger.Error("Failed to load categories by id", err, logger.Fields{"count": len(ids)})
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindSiblings(ctx context.Context, parentID *uint) ([]model.Category, error) {
	var categories []model.Category
	err := categoryGroup(parentID).where(r.db.WithContext(ctx)).
		Order("order_index").
		Order("id").
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to load sibling categories", err, logger.Fields{"parent_id": parentID})
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	logger.Debug("Creating category in database", logger.Fields{
		"name":      category.Name,
		"parent_id": category.ParentID,
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := categoryGroup(category.ParentID).next(tx)
		if err != nil {
			return err
		}
		category.OrderIndex = next
		return tx.Create(category).Error
	})
	if err != nil {
		logger.Error("Failed to create category in database", err, logger.Fields{"name": category.Name})
		return err
	}

	logger.Debug("Category created in database", logger.Fields{
		"category_id": category.ID,
		"order_index": category.OrderIndex,
	})
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	logger.Debug("Updating category in database", logger.Fields{"category_id": category.ID})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Category
		if err := tx.First(&current, category.ID).Error; err != nil {
			return err
		}

		moved := !sameParent(current.ParentID, category.ParentID)
		if moved {
			next, err := categoryGroup(category.ParentID).next(tx)
			if err != nil {
				return err
			}
			category.OrderIndex = next
		} else {
			category.OrderIndex = current.OrderIndex
		}

		if err := tx.Model(category).
			Select("Name", "NameEn", "NameRu", "NameHe", "NameAz", "Description", "ParentID", "OrderIndex").
			Updates(category).Error; err != nil {
			return err
		}

		if moved {
			return categoryGroup(current.ParentID).compact(tx)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update category in database", err, logger.Fields{"category_id": category.ID})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting category from database", logger.Fields{"category_id": id})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Category
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}

		children, err := categoryGroup(&id).ids(tx)
		if err != nil {
			return err
		}
		topLevel, err := categoryGroup(nil).ids(tx)
		if err != nil {
			return err
		}

		// orphaned children are appended to the top level
		if err := tx.Model(&model.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if err := productOrder.compact(tx); err != nil {
			return err
		}
		if err := tx.Delete(&model.Category{}, id).Error; err != nil {
			return err
		}

		if current.ParentID != nil {
			if err := categoryGroup(current.ParentID).compact(tx); err != nil {
				return err
			}
		}
		order := make([]uint, 0, len(topLevel)+len(children))
		for _, cid := range topLevel {
			if cid != id {
				order = append(order, cid)
			}
		}
		return categoryGroup(nil).assign(tx, append(order, children...))
	})
	if err != nil {
		logger.Error("Failed to delete category from database", err, logger.Fields{"category_id": id})
		return err
	}
	return nil
}

func (r *categoryRepository) Reorder(ctx context.Context, parentID *uint, ids []uint) error {
	logger.Debug("Reordering categories", logger.Fields{
		"parent_id": parentID,
		"count":     len(ids),
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return categoryGroup(parentID).assign(tx, ids)
	})
	if err != nil {
		logger.Error("Failed to reorder categories", err, logger.Fields{"parent_id": parentID})
		return err
	}
	return nil
}

func (r *categoryRepository) Swap(ctx context.Context, a, b uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return categoryOrder.swap(tx, a, b)
	})
	if err != nil {
		logger.Error("Failed to swap categories", err, logger.Fields{"a": a, "b": b})
		return err
	}
	return nil
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
