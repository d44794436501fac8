package repository

import (
	"context"
	"strings"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows the catalog listing.
type ProductFilter struct {
	CategoryID *uint
}

// ProductSearch is a case-insensitive substring search over title and
// description. Prices compare against price_usd, falling back to price.
type ProductSearch struct {
	Query      string
	CategoryID *uint
	MinPrice   *float64
	MaxPrice   *float64
}

type ProductRepository interface {
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	// ListIDs returns every product id in display order.
	ListIDs(ctx context.Context) ([]uint, error)
	Search(ctx context.Context, search ProductSearch) ([]model.Product, error)
	// Create appends the product to the end of the catalog.
	Create(ctx context.Context, product *model.Product) error
	// Update saves editable fields; item_order_index is left alone.
	Update(ctx context.Context, product *model.Product) error
	// Delete removes the product and compacts the remaining order.
	Delete(ctx context.Context, id uint) error
	Reorder(ctx context.Context, ids []uint) error
	Swap(ctx context.Context, a, b uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// products share one global order
var productOrder = orderGroup{table: "products", column: "item_order_index"}

const effectivePriceSQL = "COALESCE(price_usd, price)"

func (r *productRepository) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products", logger.Fields{"category_id": filter.CategoryID})

	query := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	var products []model.Product
	if err := query.Order("item_order_index").Order("id").Find(&products).Error; err != nil {
		logger.Error("Failed to find products", err, logger.Fields{"category_id": filter.CategoryID})
		return nil, err
	}

	logger.Debug("Products found", logger.Fields{"count": len(products)})
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ListIDs(ctx context.Context) ([]uint, error) {
	ids, err := productOrder.ids(r.db.WithContext(ctx))
	if err != nil {
		logger.Error("Failed to list product ids", err)
		return nil, err
	}
	return ids, nil
}

func (r *productRepository) Search(ctx context.Context, search ProductSearch) ([]model.Product, error) {
	logger.Debug("Searching products", logger.Fields{
		"query":       search.Query,
		"category_id": search.CategoryID,
		"min_price":   search.MinPrice,
		"max_price":   search.MaxPrice,
	})

	pattern := "%" + strings.ToLower(search.Query) + "%"
	query := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	if search.CategoryID != nil {
		query = query.Where("category_id = ?", *search.CategoryID)
	}
	if search.MinPrice != nil {
		query = query.Where(effectivePriceSQL+" >= ?", *search.MinPrice)
	}
	if search.MaxPrice != nil {
		query = query.Where(effectivePriceSQL+" <= ?", *search.MaxPrice)
	}

	var products []model.Product
	if err := query.Order("title").Order("id").Find(&products).Error; err != nil {
		logger.Error("Failed to search products", err, logger.Fields{"query": search.Query})
		return nil, err
	}

	logger.Debug("Product search completed", logger.Fields{"count": len(products)})
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	logger.Debug("Creating product in database", logger.Fields{
		"title":       product.Title,
		"category_id": product.CategoryID,
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := productOrder.next(tx)
		if err != nil {
			return err
		}
		product.ItemOrderIndex = next
		return tx.Omit("Category").Create(product).Error
	})
	if err != nil {
		logger.Error("Failed to create product in database", err, logger.Fields{"title": product.Title})
		return err
	}

	logger.Debug("Product created in database", logger.Fields{
		"product_id":       product.ID,
		"item_order_index": product.ItemOrderIndex,
	})
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	err := r.db.WithContext(ctx).Model(product).
		Select("Title", "Description", "Price", "PriceUSD", "PriceEUR", "PriceILS", "PriceAZN", "ImageURL", "CategoryID").
		Updates(product).Error
	if err != nil {
		logger.Error("Failed to update product in database", err, logger.Fields{"product_id": product.ID})
		return err
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return productOrder.compact(tx)
	})
	if err != nil {
		logger.Error("Failed to delete product from database", err, logger.Fields{"product_id": id})
		return err
	}
	return nil
}

func (r *productRepository) Reorder(ctx context.Context, ids []uint) error {
	logger.Debug("Reordering products", logger.Fields{"count": len(ids)})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return productOrder.assign(tx, ids)
	})
	if err != nil {
		logger.Error("Failed to reorder products", err)
		return err
	}
	return nil
}

func (r *productRepository) Swap(ctx context.Context, a, b uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return productOrder.swap(tx, a, b)
	})
	if err != nil {
		logger.Error("Failed to swap products", err, logger.Fields{"a": a, "b": b})
		return err
	}
	return nil
}
