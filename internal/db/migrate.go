package db

import (
	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// DefaultCategories are created on an empty catalog, in display order.
var DefaultCategories = []string{
	"Ritual Objects",
	"Shabbat Essentials",
	"Holiday-Specific",
	"Lifecycle & Simcha",
	"Books & Media",
	"Art & Home Decor",
}

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.StoreSettings{},
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.PageView{},
	}
}

// Migrate runs database migrations on DB and seeds the default catalog.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedDefaultCategories(DB); err != nil {
		logger.Error("Failed to seed default categories", err)
		return err
	}

	logger.Info("Database migrations completed successfully", logger.Fields{
		"models_count": len(models),
	})
	return nil
}

// SeedDefaultCategories inserts DefaultCategories when no category exists yet.
func SeedDefaultCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Debug("Categories already present, skipping seed", logger.Fields{
			"existing_count": count,
		})
		return nil
	}

	categories := make([]model.Category, 0, len(DefaultCategories))
	for i, name := range DefaultCategories {
		n := name
		categories = append(categories, model.Category{Name: name, NameEn: &n, OrderIndex: i})
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	logger.Info("Default categories seeded", logger.Fields{"count": len(categories)})
	return nil
}
