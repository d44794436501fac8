package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	"github.com/donde/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// MinSearchQueryLength is the shortest accepted search query, in characters.
const MinSearchQueryLength = 2

var (
	ErrProductNotFound         = errors.New("product not found")
	ErrProductCategoryNotFound = errors.New("product category not found")
	ErrProductTitleRequired    = errors.New("product title is required")
	ErrProductPriceRequired    = errors.New("product price_usd is required")
	ErrNegativePrice           = errors.New("product prices must not be negative")
	ErrSearchQueryTooShort     = errors.New("search query too short")
	ErrInvalidPriceRange       = errors.New("minimum price exceeds maximum price")
)

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price"`
	PriceUSD    *float64 `json:"price_usd" binding:"required"`
	PriceEUR    *float64 `json:"price_eur"`
	PriceILS    *float64 `json:"price_ils"`
	PriceAZN    *float64 `json:"price_azn"`
	ImageURL    string   `json:"image_url"`
	CategoryID  uint     `json:"category_id" binding:"required"`
}

type SearchParams struct {
	Query      string
	CategoryID *uint
	MinPrice   *float64
	MaxPrice   *float64
}

type ProductService interface {
	ListProducts(ctx context.Context, categoryID *uint) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, params SearchParams) ([]model.Product, error)
	// ReorderProducts takes the complete ordered catalog. Unknown ids are dropped.
	ReorderProducts(ctx context.Context, ids []uint) ([]model.Product, error)
	// MoveProduct swaps the product with its neighbour; a no-op at either end.
	MoveProduct(ctx context.Context, id uint, up bool) ([]model.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) ListProducts(ctx context.Context, categoryID *uint) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, repository.ProductFilter{CategoryID: categoryID})
}

func (s *productService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	product, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Info("Product created", logger.Fields{
		"product_id":  product.ID,
		"category_id": product.CategoryID,
	})
	return s.GetProduct(ctx, product.ID)
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*model.Product, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	product, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	product.ID = id

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", logger.Fields{"product_id": id})
	return s.GetProduct(ctx, id)
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deleted", logger.Fields{"product_id": id})
	return nil
}

func (s *productService) SearchProducts(ctx context.Context, params SearchParams) ([]model.Product, error) {
	q := strings.TrimSpace(params.Query)
	if utf8.RuneCountInString(q) < MinSearchQueryLength {
		return nil, ErrSearchQueryTooShort
	}
	if params.MinPrice != nil && params.MaxPrice != nil && *params.MinPrice > *params.MaxPrice {
		return nil, ErrInvalidPriceRange
	}

	return s.productRepo.Search(ctx, repository.ProductSearch{
		Query:      q,
		CategoryID: params.CategoryID,
		MinPrice:   params.MinPrice,
		MaxPrice:   params.MaxPrice,
	})
}

func (s *productService) ReorderProducts(ctx context.Context, ids []uint) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyReorder
	}
	if hasDuplicates(ids) {
		return nil, ErrDuplicateReorderID
	}

	all, err := s.productRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[uint]bool, len(all))
	for _, id := range all {
		known[id] = true
	}

	kept := make([]uint, 0, len(ids))
	for _, id := range ids {
		if known[id] {
			kept = append(kept, id)
		}
	}
	if dropped := len(ids) - len(kept); dropped > 0 {
		logger.Warn("Dropping unknown product ids from reorder", logger.Fields{"dropped": dropped})
	}
	if len(kept) != len(all) {
		return nil, ErrPartialReorder
	}

	if len(kept) > 0 {
		if err := s.productRepo.Reorder(ctx, kept); err != nil {
			return nil, err
		}
	}

	logger.Info("Products reordered", logger.Fields{"count": len(kept)})
	return s.productRepo.FindAll(ctx, repository.ProductFilter{})
}

func (s *productService) MoveProduct(ctx context.Context, id uint, up bool) ([]model.Product, error) {
	all, err := s.productRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	pos := -1
	for i, pid := range all {
		if pid == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, ErrProductNotFound
	}

	target := pos + 1
	if up {
		target = pos - 1
	}
	if target >= 0 && target < len(all) {
		if err := s.productRepo.Swap(ctx, id, all[target]); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
	}
	return s.productRepo.FindAll(ctx, repository.ProductFilter{})
}

func (s *productService) validate(ctx context.Context, input ProductInput) (*model.Product, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrProductTitleRequired
	}
	if input.PriceUSD == nil {
		return nil, ErrProductPriceRequired
	}
	for _, p := range []*float64{input.Price, input.PriceUSD, input.PriceEUR, input.PriceILS, input.PriceAZN} {
		if p != nil && *p < 0 {
			return nil, ErrNegativePrice
		}
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductCategoryNotFound
		}
		return nil, err
	}

	return &model.Product{
		Title:       title,
		Description: input.Description,
		Price:       input.Price,
		PriceUSD:    input.PriceUSD,
		PriceEUR:    input.PriceEUR,
		PriceILS:    input.PriceILS,
		PriceAZN:    input.PriceAZN,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
	}, nil
}
