package repository

import (
	"context"
	"time"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// PathCount is the number of views recorded for one path.
type PathCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

type PageViewRepository interface {
	Create(ctx context.Context, view *model.PageView) error
	// TopPaths returns the most viewed paths since the given time.
	TopPaths(ctx context.Context, since time.Time, limit int) ([]PathCount, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	// DeleteOlderThan purges views created before cutoff and returns how many.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type pageViewRepository struct {
	db *gorm.DB
}

func NewPageViewRepository(db *gorm.DB) PageViewRepository {
	return &pageViewRepository{db: db}
}

func (r *pageViewRepository) Create(ctx context.Context, view *model.PageView) error {
	if err := r.db.WithContext(ctx).Create(view).Error; err != nil {
		logger.Error("Failed to record page view", err, logger.Fields{"path": view.Path})
		return err
	}
	return nil
}

func (r *pageViewRepository) TopPaths(ctx context.Context, since time.Time, limit int) ([]PathCount, error) {
	var rows []PathCount
	err := r.db.WithContext(ctx).Model(&model.PageView{}).
		Select("path, COUNT(*) AS views").
		Where("created_at >= ?", since).
		Group("path").
		Order("views DESC").
		Order("path").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate page views", err)
		return nil, err
	}
	return rows, nil
}

func (r *pageViewRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PageView{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		logger.Error("Failed to count page views", err)
		return 0, err
	}
	return count, nil
}

func (r *pageViewRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.PageView{})
	if res.Error != nil {
		logger.Error("Failed to purge page views", res.Error, logger.Fields{"cutoff": cutoff})
		return 0, res.Error
	}
	logger.Debug("Page views purged", logger.Fields{"deleted": res.RowsAffected})
	return res.RowsAffected, nil
}
