package repository

import (
	"context"
	"testing"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func price(v float64) *float64 { return &v }

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository, *model.Category) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	category := &model.Category{Name: "Ritual Objects"}
	require.NoError(t, testDB.Create(category).Error)

	return testDB, NewProductRepository(testDB), category
}

func createProducts(t *testing.T, repo ProductRepository, categoryID uint, titles ...string) []uint {
	t.Helper()
	ids := make([]uint, 0, len(titles))
	for _, title := range titles {
		p := &model.Product{Title: title, Description: title + " description", PriceUSD: price(10), CategoryID: categoryID}
		require.NoError(t, repo.Create(context.Background(), p))
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProductRepository_CreateAppends(t *testing.T) {
	_, repo, category := setupProductTest(t)
	ids := createProducts(t, repo, category.ID, "Menorah", "Kiddush Cup", "Challah Board")

	products, err := repo.FindAll(context.Background(), ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 3)
	for i, p := range products {
		assert.Equal(t, ids[i], p.ID)
		assert.Equal(t, i, p.ItemOrderIndex)
	}
}

func TestProductRepository_FilterByCategory(t *testing.T) {
	testDB, repo, category := setupProductTest(t)
	other := &model.Category{Name: "Books & Media"}
	require.NoError(t, testDB.Create(other).Error)

	createProducts(t, repo, category.ID, "Menorah")
	bookIDs := createProducts(t, repo, other.ID, "Siddur")

	products, err := repo.FindAll(context.Background(), ProductFilter{CategoryID: &other.ID})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, bookIDs[0], products[0].ID)
}

func TestProductRepository_Search(t *testing.T) {
	testDB, repo, category := setupProductTest(t)
	ctx := context.Background()

	items := []*model.Product{
		{Title: "Silver Kiddush Cup", Description: "Sterling", PriceUSD: price(120), CategoryID: category.ID},
		{Title: "Brass Candlesticks", Description: "For shabbat CANDLES", PriceUSD: price(45), CategoryID: category.ID},
		{Title: "Legacy Cup", Description: "Old listing", Price: price(30), CategoryID: category.ID},
	}
	for _, p := range items {
		require.NoError(t, testDB.Create(p).Error)
	}

	tests := []struct {
		name   string
		search ProductSearch
		want   []string
	}{
		{name: "Title match ordered by title", search: ProductSearch{Query: "cup"}, want: []string{"Legacy Cup", "Silver Kiddush Cup"}},
		{name: "Description case-insensitive", search: ProductSearch{Query: "candles"}, want: []string{"Brass Candlesticks"}},
		{name: "Min price", search: ProductSearch{Query: "cup", MinPrice: price(100)}, want: []string{"Silver Kiddush Cup"}},
		{name: "Max price uses legacy price", search: ProductSearch{Query: "cup", MaxPrice: price(50)}, want: []string{"Legacy Cup"}},
		{name: "No match", search: ProductSearch{Query: "tallit"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.Search(ctx, tt.search)
			require.NoError(t, err)
			titles := make([]string, 0, len(products))
			for _, p := range products {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestProductRepository_ReorderSwapDelete(t *testing.T) {
	_, repo, category := setupProductTest(t)
	ctx := context.Background()
	ids := createProducts(t, repo, category.ID, "A", "B", "C", "D")

	require.NoError(t, repo.Reorder(ctx, []uint{ids[3], ids[2], ids[1], ids[0]}))
	got, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{ids[3], ids[2], ids[1], ids[0]}, got)

	require.NoError(t, repo.Swap(ctx, ids[3], ids[2]))
	got, err = repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{ids[2], ids[3], ids[1], ids[0]}, got)

	require.NoError(t, repo.Delete(ctx, ids[3]))
	products, err := repo.FindAll(ctx, ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 3)
	for i, p := range products {
		assert.Equal(t, i, p.ItemOrderIndex)
	}

	assert.ErrorIs(t, repo.Delete(ctx, ids[3]), gorm.ErrRecordNotFound)
}

func TestProductRepository_UpdateKeepsOrder(t *testing.T) {
	_, repo, category := setupProductTest(t)
	ctx := context.Background()
	ids := createProducts(t, repo, category.ID, "A", "B")

	p, err := repo.FindByID(ctx, ids[1])
	require.NoError(t, err)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Ritual Objects", p.Category.Name)

	p.Title = "B2"
	p.PriceEUR = price(9.5)
	p.ItemOrderIndex = 7
	require.NoError(t, repo.Update(ctx, p))

	reloaded, err := repo.FindByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, "B2", reloaded.Title)
	assert.Equal(t, 9.5, *reloaded.PriceEUR)
	assert.Equal(t, 1, reloaded.ItemOrderIndex)
}
