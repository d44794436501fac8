package service

import (
	"context"
	"sync"
	"testing"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/db"
	"github.com/donde/storefront-backend/internal/theme"
	"github.com/donde/storefront-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	util.BcryptCost = bcrypt.MinCost
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func uintPtr(u uint) *uint { return &u }

func seedCategory(t *testing.T, testDB *gorm.DB, name string, parentID *uint, order int) *model.Category {
	t.Helper()
	c := &model.Category{Name: name, ParentID: parentID, OrderIndex: order}
	require.NoError(t, testDB.Create(c).Error)
	return c
}

func categoryIDs(categories []model.Category) []uint {
	ids := make([]uint, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

func productIDs(products []model.Product) []uint {
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

type recordingSink struct {
	mu      sync.Mutex
	applied []theme.Palette
}

func (s *recordingSink) ApplyTheme(_ context.Context, p theme.Palette) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, p)
	return nil
}

func (s *recordingSink) last() (theme.Palette, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.applied) == 0 {
		return theme.Palette{}, false
	}
	return s.applied[len(s.applied)-1], true
}
