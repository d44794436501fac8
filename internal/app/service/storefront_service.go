package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	"github.com/donde/storefront-backend/internal/locale"
	"github.com/donde/storefront-backend/internal/theme"
	"github.com/donde/storefront-backend/pkg/logger"
	"github.com/yuin/goldmark"
	"gorm.io/gorm"
)

// TextStyle is the typography of one banner text block.
type TextStyle struct {
	FontFamily    string `json:"font_family"`
	FontSize      string `json:"font_size"`
	Color         string `json:"color"`
	Align         string `json:"align"`
	VerticalAlign string `json:"vertical_align"`
}

type Banner struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	BackgroundColor  string    `json:"background_color"`
	BackgroundImage  string    `json:"background_image"`
	TitleStyle       TextStyle `json:"title_style"`
	DescriptionStyle TextStyle `json:"description_style"`
}

type Contact struct {
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp"`
}

// Branding is the store settings resolved for one locale.
type Branding struct {
	Locale          string          `json:"locale"`
	Direction       string          `json:"direction"`
	SiteTitle       string          `json:"site_title"`
	HeaderTitle     string          `json:"header_title"`
	LangLabel       string          `json:"lang_label"`
	Tagline         string          `json:"tagline"`
	TopDescription  string          `json:"top_description"`
	LogoURL         string          `json:"logo_url"`
	FaviconURL      string          `json:"favicon_url"`
	Banner          Banner          `json:"banner"`
	Contact         Contact         `json:"contact"`
	Languages       []locale.Option `json:"languages"`
	Theme           theme.Palette   `json:"theme"`
	Currencies      []Currency      `json:"currencies"`
	DefaultCurrency Currency        `json:"default_currency"`
}

type LocalizedCategory struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
	OrderIndex  int    `json:"order_index"`
}

// ProductView is a product priced in one currency with its description rendered.
type ProductView struct {
	ID              uint               `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	DescriptionHTML string             `json:"description_html"`
	Price           float64            `json:"price"`
	Currency        Currency           `json:"currency"`
	ImageURL        string             `json:"image_url"`
	CategoryID      uint               `json:"category_id"`
	Category        *LocalizedCategory `json:"category,omitempty"`
}

type StorefrontService interface {
	GetBranding(ctx context.Context, l locale.Locale) (*Branding, error)
	ListCategories(ctx context.Context, l locale.Locale) ([]LocalizedCategory, error)
	// ListProducts prices every product in currency; "" picks the store default.
	ListProducts(ctx context.Context, l locale.Locale, categoryID *uint, currency string) ([]ProductView, error)
	GetProduct(ctx context.Context, l locale.Locale, id uint, currency string) (*ProductView, error)
}

type storefrontService struct {
	settingsService SettingsService
	categoryRepo    repository.CategoryRepository
	productRepo     repository.ProductRepository
	switcherExclude []string
	markdown        goldmark.Markdown
}

func NewStorefrontService(
	settingsService SettingsService,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	switcherExclude []string,
) StorefrontService {
	return &storefrontService{
		settingsService: settingsService,
		categoryRepo:    categoryRepo,
		productRepo:     productRepo,
		switcherExclude: switcherExclude,
		markdown:        goldmark.New(),
	}
}

// storeConfig is the part of setup_config the storefront reads.
type storeConfig struct {
	Currencies      []string `json:"currencies"`
	DefaultCurrency string   `json:"defaultCurrency"`
}

func readStoreConfig(settings *model.StoreSettings) storeConfig {
	var cfg storeConfig
	if settings == nil || !hasSetupConfig(settings.SetupConfig) {
		return cfg
	}
	if err := json.Unmarshal(settings.SetupConfig, &cfg); err != nil {
		logger.Warn("Ignoring malformed setup_config", logger.Fields{"error": err.Error()})
		return storeConfig{}
	}
	return cfg
}

func hasSetupConfig(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func (cfg storeConfig) currencies() []Currency {
	var out []Currency
	for _, code := range cfg.Currencies {
		if c, err := ParseCurrency(code); err == nil {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return SupportedCurrencies()
	}
	return out
}

func (cfg storeConfig) defaultCurrency() Currency {
	if c, err := ParseCurrency(cfg.DefaultCurrency); err == nil {
		return c
	}
	return DefaultCurrency
}

func (s *storefrontService) GetBranding(ctx context.Context, l locale.Locale) (*Branding, error) {
	settings, err := s.settingsService.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	cfg := readStoreConfig(settings)
	direction := "ltr"
	if l.IsRTL() {
		direction = "rtl"
	}

	b := &Branding{
		Locale:          l.String(),
		Direction:       direction,
		SiteTitle:       locale.Resolve(settings, locale.SiteTitle, l),
		HeaderTitle:     locale.Resolve(settings, locale.HeaderTitle, l),
		LangLabel:       locale.Resolve(settings, locale.LangLabel, l),
		Languages:       locale.SwitcherOptions(settings, s.switcherExclude),
		Theme:           s.settingsService.CurrentPalette(),
		Currencies:      cfg.currencies(),
		DefaultCurrency: cfg.defaultCurrency(),
		Banner: Banner{
			Title:       locale.Resolve(settings, locale.BannerTitle, l),
			Description: locale.Resolve(settings, locale.BannerDescription, l),
		},
	}

	if settings != nil {
		b.Tagline = str(settings.Tagline)
		b.TopDescription = str(settings.TopDescription)
		b.LogoURL = str(settings.LogoURL)
		b.FaviconURL = str(settings.FaviconURL)
		b.Banner.BackgroundColor = str(settings.BannerBackgroundColor)
		b.Banner.BackgroundImage = str(settings.BannerBackgroundImage)
		if b.Banner.BackgroundImage == "" {
			b.Banner.BackgroundImage = str(settings.BannerURL)
		}
		b.Banner.TitleStyle = TextStyle{
			FontFamily:    str(settings.BannerTitleFontFamily),
			FontSize:      str(settings.BannerTitleFontSize),
			Color:         str(settings.BannerTitleColor),
			Align:         str(settings.BannerTitleAlign),
			VerticalAlign: str(settings.BannerTitleVerticalAlign),
		}
		b.Banner.DescriptionStyle = TextStyle{
			FontFamily:    str(settings.BannerDescriptionFontFamily),
			FontSize:      str(settings.BannerDescriptionFontSize),
			Color:         str(settings.BannerDescriptionColor),
			Align:         str(settings.BannerDescriptionAlign),
			VerticalAlign: str(settings.BannerDescriptionVerticalAlign),
		}
		b.Contact = Contact{
			Address:  str(settings.Address),
			Phone:    str(settings.Phone),
			Email:    str(settings.Email),
			Whatsapp: str(settings.Whatsapp),
		}
	}

	return b, nil
}

func (s *storefrontService) ListCategories(ctx context.Context, l locale.Locale) ([]LocalizedCategory, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]LocalizedCategory, 0, len(categories))
	for i := range categories {
		out = append(out, localizeCategory(&categories[i], l))
	}
	return out, nil
}

func (s *storefrontService) ListProducts(ctx context.Context, l locale.Locale, categoryID *uint, currency string) ([]ProductView, error) {
	c, err := s.pickCurrency(ctx, currency)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindAll(ctx, repository.ProductFilter{CategoryID: categoryID})
	if err != nil {
		return nil, err
	}

	out := make([]ProductView, 0, len(products))
	for i := range products {
		view, err := s.view(&products[i], l, c)
		if err != nil {
			return nil, err
		}
		out = append(out, *view)
	}
	return out, nil
}

func (s *storefrontService) GetProduct(ctx context.Context, l locale.Locale, id uint, currency string) (*ProductView, error) {
	c, err := s.pickCurrency(ctx, currency)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.view(product, l, c)
}

func (s *storefrontService) pickCurrency(ctx context.Context, code string) (Currency, error) {
	if code != "" {
		return ParseCurrency(code)
	}
	settings, err := s.settingsService.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return readStoreConfig(settings).defaultCurrency(), nil
}

func (s *storefrontService) view(p *model.Product, l locale.Locale, c Currency) (*ProductView, error) {
	var html bytes.Buffer
	if err := s.markdown.Convert([]byte(p.Description), &html); err != nil {
		logger.Error("Failed to render product description", err, logger.Fields{
			"product_id": p.ID,
		})
		return nil, err
	}

	v := &ProductView{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		DescriptionHTML: html.String(),
		Price:           PriceIn(p, c),
		Currency:        c,
		ImageURL:        p.ImageURL,
		CategoryID:      p.CategoryID,
	}
	if p.Category != nil {
		lc := localizeCategory(p.Category, l)
		v.Category = &lc
	}
	return v, nil
}

func localizeCategory(c *model.Category, l locale.Locale) LocalizedCategory {
	return LocalizedCategory{
		ID:          c.ID,
		Name:        locale.CategoryName(c, l),
		Description: c.Description,
		ParentID:    c.ParentID,
		OrderIndex:  c.OrderIndex,
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
