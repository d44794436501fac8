package repository

import (
	"context"
	"errors"
	"time"

	"github.com/donde/storefront-backend/internal/app/model"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Get returns gorm.ErrRecordNotFound until the first write.
	Get(ctx context.Context) (*model.StoreSettings, error)
	// Upsert writes changes to the singleton row, creating it on first use,
	// and returns the full row as stored.
	Upsert(ctx context.Context, changes map[string]interface{}) (*model.StoreSettings, error)
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*model.StoreSettings, error) {
	var settings model.StoreSettings
	if err := r.db.WithContext(ctx).First(&settings, model.SettingsID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to load store settings", err)
		}
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, changes map[string]interface{}) (*model.StoreSettings, error) {
	logger.Debug("Upserting store settings", logger.Fields{
		"fields": len(changes),
	})

	db := r.db.WithContext(ctx)

	var existing model.StoreSettings
	err := db.Select("id").First(&existing, model.SettingsID).Error
	switch {
	case err == nil:
		if err := r.update(db, changes); err != nil {
			return nil, err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.create(db, changes); err != nil {
			if !apperrors.IsUniqueViolation(err) {
				logger.Error("Failed to create store settings", err)
				return nil, err
			}
			// a concurrent first write created the row; apply ours on top
			logger.Warn("Store settings created concurrently, retrying as update")
			if err := r.update(db, changes); err != nil {
				return nil, err
			}
		}

	default:
		logger.Error("Failed to look up store settings", err)
		return nil, err
	}

	settings, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("Store settings upserted", logger.Fields{
		"fields": len(changes),
	})
	return settings, nil
}

func (r *settingsRepository) create(db *gorm.DB, changes map[string]interface{}) error {
	now := time.Now()
	row := make(map[string]interface{}, len(changes)+3)
	for k, v := range changes {
		row[k] = v
	}
	row["id"] = model.SettingsID
	row["created_at"] = now
	row["updated_at"] = now

	// single statement, no implicit transaction
	return db.Session(&gorm.Session{SkipDefaultTransaction: true}).
		Model(&model.StoreSettings{}).
		Create(row).Error
}

func (r *settingsRepository) update(db *gorm.DB, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}

	row := make(map[string]interface{}, len(changes)+1)
	for k, v := range changes {
		row[k] = v
	}
	row["updated_at"] = time.Now()

	if err := db.Model(&model.StoreSettings{}).Where("id = ?", model.SettingsID).Updates(row).Error; err != nil {
		logger.Error("Failed to update store settings", err)
		return err
	}
	return nil
}
