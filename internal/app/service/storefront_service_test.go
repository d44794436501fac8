package service

import (
	"context"
	"testing"
	"time"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	"github.com/donde/storefront-backend/internal/locale"
	"github.com/donde/storefront-backend/internal/theme"
	"github.com/donde/storefront-backend/pkg/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupStorefrontServiceTest(t *testing.T) (StorefrontService, SettingsService, *gorm.DB) {
	testDB := setupTestDB(t)
	applier := theme.NewApplier(theme.NewResolver(theme.DefaultPalette, theme.DefaultHoverDarkenPercent))
	settings := NewSettingsService(repository.NewSettingsRepository(testDB), nil, time.Minute, applier)

	svc := NewStorefrontService(
		settings,
		repository.NewCategoryRepository(testDB),
		repository.NewProductRepository(testDB),
		[]string{"az"},
	)
	return svc, settings, testDB
}

func TestCurrency_PriceIn(t *testing.T) {
	full := &model.Product{
		Price:    floatPtr(1),
		PriceUSD: floatPtr(10),
		PriceEUR: floatPtr(9),
		PriceILS: floatPtr(37),
		PriceAZN: floatPtr(17),
	}
	usdOnly := &model.Product{Price: floatPtr(1), PriceUSD: floatPtr(10)}
	legacy := &model.Product{Price: floatPtr(5)}

	tests := []struct {
		name     string
		product  *model.Product
		currency Currency
		want     float64
	}{
		{"EUR set", full, CurrencyEUR, 9},
		{"ILS set", full, CurrencyILS, 37},
		{"AZN set", full, CurrencyAZN, 17},
		{"USD", full, CurrencyUSD, 10},
		{"EUR falls back to USD", usdOnly, CurrencyEUR, 10},
		{"falls back to legacy price", legacy, CurrencyAZN, 5},
		{"nothing set", &model.Product{}, CurrencyILS, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriceIn(tt.product, tt.currency))
		})
	}
}

func TestCurrency_Parse(t *testing.T) {
	c, err := ParseCurrency(" eur ")
	require.NoError(t, err)
	assert.Equal(t, CurrencyEUR, c)

	_, err = ParseCurrency("GBP")
	assert.ErrorIs(t, err, ErrCurrencyNotSupported)
}

func TestStorefrontService_GetBranding_Unconfigured(t *testing.T) {
	svc, _, _ := setupStorefrontServiceTest(t)

	b, err := svc.GetBranding(context.Background(), locale.HE)
	require.NoError(t, err)

	assert.Equal(t, "he", b.Locale)
	assert.Equal(t, "rtl", b.Direction)
	assert.Equal(t, "", b.SiteTitle)
	assert.Equal(t, "", b.HeaderTitle)
	assert.Equal(t, "עברית", b.LangLabel)
	assert.Equal(t, theme.DefaultPalette, b.Theme)
	assert.Equal(t, DefaultCurrency, b.DefaultCurrency)
	assert.Len(t, b.Currencies, 4)

	codes := make([]string, 0, len(b.Languages))
	for _, o := range b.Languages {
		codes = append(codes, o.Code)
	}
	assert.Equal(t, []string{"en", "he", "ru"}, codes)
}

func TestStorefrontService_GetBranding_Localized(t *testing.T) {
	svc, settings, _ := setupStorefrontServiceTest(t)
	ctx := context.Background()

	_, err := settings.UpsertSettings(ctx, &model.SettingsPatch{
		SiteTitle:     patch.Some("Legacy"),
		SiteTitleRu:   patch.Some("Магазин"),
		HeaderTitleEn: patch.Some("Welcome"),
		BannerTitleEn: patch.Some("Sale"),
		LangLabelRu:   patch.Some("RU"),
		BannerURL:     patch.Some("https://cdn/banner.png"),
		Phone:         patch.Some("123"),
		PrimaryColor:  patch.Some("#ff0000"),
		SetupConfig:   patch.Some(datatypes.JSON(`{"currencies":["ILS","USD"],"defaultCurrency":"ILS"}`)),
	})
	require.NoError(t, err)

	ru, err := svc.GetBranding(ctx, locale.RU)
	require.NoError(t, err)
	assert.Equal(t, "Магазин", ru.SiteTitle)
	assert.Equal(t, "Магазин", ru.HeaderTitle, "header title borrows the resolved site title")
	assert.Equal(t, "", ru.Banner.Title, "banner text never borrows")
	assert.Equal(t, "RU", ru.LangLabel)
	assert.Equal(t, "ltr", ru.Direction)

	en, err := svc.GetBranding(ctx, locale.EN)
	require.NoError(t, err)
	assert.Equal(t, "Legacy", en.SiteTitle)
	assert.Equal(t, "Welcome", en.HeaderTitle)
	assert.Equal(t, "Sale", en.Banner.Title)
	assert.Equal(t, "https://cdn/banner.png", en.Banner.BackgroundImage)
	assert.Equal(t, "123", en.Contact.Phone)
	assert.Equal(t, "#ff0000", en.Theme.Primary)
	assert.Equal(t, []Currency{CurrencyILS, CurrencyUSD}, en.Currencies)
	assert.Equal(t, CurrencyILS, en.DefaultCurrency)
}

func TestStorefrontService_ListCategories(t *testing.T) {
	svc, _, testDB := setupStorefrontServiceTest(t)

	rings := &model.Category{Name: "Rings", NameEn: strPtr("Rings"), NameHe: strPtr("טבעות")}
	require.NoError(t, testDB.Create(rings).Error)
	plain := &model.Category{Name: "Misc", OrderIndex: 1}
	require.NoError(t, testDB.Create(plain).Error)

	got, err := svc.ListCategories(context.Background(), locale.HE)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "טבעות", got[0].Name)
	assert.Equal(t, "Misc", got[1].Name)

	got, err = svc.ListCategories(context.Background(), locale.AZ)
	require.NoError(t, err)
	assert.Equal(t, "Rings", got[0].Name)
}

func TestStorefrontService_GetProduct(t *testing.T) {
	svc, settings, testDB := setupStorefrontServiceTest(t)
	ctx := context.Background()

	category := seedCategory(t, testDB, "Rings", nil, 0)
	product := &model.Product{
		Title:       "Silver ring",
		Description: "**Sterling** silver",
		PriceUSD:    floatPtr(100),
		PriceILS:    floatPtr(370),
		CategoryID:  category.ID,
	}
	require.NoError(t, testDB.Create(product).Error)

	view, err := svc.GetProduct(ctx, locale.EN, product.ID, "eur")
	require.NoError(t, err)
	assert.Equal(t, CurrencyEUR, view.Currency)
	assert.Equal(t, 100.0, view.Price)
	assert.Contains(t, view.DescriptionHTML, "<strong>Sterling</strong>")
	require.NotNil(t, view.Category)
	assert.Equal(t, "Rings", view.Category.Name)

	// no currency in the request: the store default applies
	_, err = settings.UpsertSettings(ctx, &model.SettingsPatch{
		SetupConfig: patch.Some(datatypes.JSON(`{"defaultCurrency":"ILS"}`)),
	})
	require.NoError(t, err)
	view, err = svc.GetProduct(ctx, locale.EN, product.ID, "")
	require.NoError(t, err)
	assert.Equal(t, CurrencyILS, view.Currency)
	assert.Equal(t, 370.0, view.Price)

	_, err = svc.GetProduct(ctx, locale.EN, product.ID, "GBP")
	assert.ErrorIs(t, err, ErrCurrencyNotSupported)

	_, err = svc.GetProduct(ctx, locale.EN, 9999, "USD")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestStorefrontService_ListProducts(t *testing.T) {
	svc, _, testDB := setupStorefrontServiceTest(t)

	a := seedCategory(t, testDB, "A", nil, 0)
	b := seedCategory(t, testDB, "B", nil, 1)
	require.NoError(t, testDB.Create(&model.Product{Title: "one", Description: "d", PriceUSD: floatPtr(1), CategoryID: a.ID}).Error)
	require.NoError(t, testDB.Create(&model.Product{Title: "two", Description: "d", PriceUSD: floatPtr(2), CategoryID: b.ID, ItemOrderIndex: 1}).Error)

	all, err := svc.ListProducts(context.Background(), locale.EN, nil, "USD")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyB, err := svc.ListProducts(context.Background(), locale.EN, &b.ID, "USD")
	require.NoError(t, err)
	require.Len(t, onlyB, 1)
	assert.Equal(t, "two", onlyB[0].Title)
	assert.Equal(t, 2.0, onlyB[0].Price)
}
