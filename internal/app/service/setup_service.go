package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	apperrors "github.com/donde/storefront-backend/internal/errors"
	"github.com/donde/storefront-backend/internal/theme"
	"github.com/donde/storefront-backend/pkg/logger"
	"github.com/donde/storefront-backend/pkg/patch"
	"gorm.io/datatypes"
)

var (
	ErrStoreNameRequired     = errors.New("store name is required")
	ErrInvalidSetupColor     = errors.New("invalid colour in setup")
	ErrDefaultCurrencyNotSet = errors.New("default currency must be one of the store currencies")
)

// SetupRequest is the result of the first-run setup wizard.
type SetupRequest struct {
	StoreName        string   `json:"storeName" binding:"required"`
	StoreDescription string   `json:"storeDescription"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Whatsapp         string   `json:"whatsapp"`
	Address          string   `json:"address"`
	LogoURL          string   `json:"logoUrl"`
	PrimaryColor     string   `json:"primaryColor"`
	PrimaryHover     string   `json:"primaryHoverColor"`
	SecondaryColor   string   `json:"secondaryColor"`
	TextColor        string   `json:"textColor"`
	FooterBgColor    string   `json:"footerBgColor"`
	Currencies       []string `json:"currencies"`
	DefaultCurrency  string   `json:"defaultCurrency"`
	Categories       []string `json:"categories"`
	AcceptPayment    bool     `json:"acceptPayment"`
	OfferShipping    bool     `json:"offerShipping"`
}

// SetupConfig is the JSON document stored in store_settings.setup_config.
type SetupConfig struct {
	PrimaryColor      string     `json:"primaryColor"`
	PrimaryHoverColor string     `json:"primaryHoverColor,omitempty"`
	SecondaryColor    string     `json:"secondaryColor"`
	TextColor         string     `json:"textColor"`
	FooterBgColor     string     `json:"footerBgColor"`
	Currencies        []Currency `json:"currencies"`
	DefaultCurrency   Currency   `json:"defaultCurrency"`
	AcceptPayment     bool       `json:"acceptPayment"`
	OfferShipping     bool       `json:"offerShipping"`
	CompletedAt       time.Time  `json:"completedAt"`
}

var setupColorDefaults = SetupConfig{
	SecondaryColor: "#1a2847",
	TextColor:      "#2c1810",
	FooterBgColor:  "#1a2847",
}

type SetupStatus struct {
	Configured bool `json:"configured"`
}

type SetupService interface {
	// IsConfigured reports whether the setup wizard has been completed.
	IsConfigured(ctx context.Context) (bool, error)
	// IsClaimed reports whether a settings row exists, however it was written.
	IsClaimed(ctx context.Context) (bool, error)
	CompleteSetup(ctx context.Context, req SetupRequest) (*model.StoreSettings, error)
}

type setupService struct {
	settingsService SettingsService
	categoryRepo    repository.CategoryRepository
	now             func() time.Time
}

func NewSetupService(settingsService SettingsService, categoryRepo repository.CategoryRepository) SetupService {
	return &setupService{
		settingsService: settingsService,
		categoryRepo:    categoryRepo,
		now:             time.Now,
	}
}

func (s *setupService) IsConfigured(ctx context.Context) (bool, error) {
	settings, err := s.settingsService.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return settings != nil && hasSetupConfig(settings.SetupConfig), nil
}

func (s *setupService) IsClaimed(ctx context.Context) (bool, error) {
	settings, err := s.settingsService.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return settings != nil, nil
}

func (s *setupService) CompleteSetup(ctx context.Context, req SetupRequest) (*model.StoreSettings, error) {
	name := strings.TrimSpace(req.StoreName)
	if name == "" {
		return nil, ErrStoreNameRequired
	}

	cfg, err := s.buildConfig(req)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	p := &model.SettingsPatch{
		SiteTitle:    patch.Some(name),
		SiteTitleEn:  patch.Some(name),
		PrimaryColor: patch.Some(cfg.PrimaryColor),
		SetupConfig:  patch.Some(datatypes.JSON(raw)),
	}
	optional := []struct {
		field *patch.Field[string]
		value string
	}{
		{&p.TopDescription, req.StoreDescription},
		{&p.Email, req.Email},
		{&p.Phone, req.Phone},
		{&p.Whatsapp, req.Whatsapp},
		{&p.Address, req.Address},
		{&p.LogoURL, req.LogoURL},
	}
	for _, o := range optional {
		if v := strings.TrimSpace(o.value); v != "" {
			*o.field = patch.Some(v)
		}
	}

	if err := s.createCategories(ctx, req.Categories); err != nil {
		return nil, err
	}

	settings, err := s.settingsService.UpsertSettings(ctx, p)
	if err != nil {
		return nil, err
	}

	logger.Info("Store setup completed", logger.Fields{
		"store_name": name,
		"currencies": cfg.Currencies,
	})
	return settings, nil
}

func (s *setupService) buildConfig(req SetupRequest) (*SetupConfig, error) {
	cfg := setupColorDefaults
	cfg.PrimaryColor = theme.DefaultPalette.Primary
	cfg.AcceptPayment = req.AcceptPayment
	cfg.OfferShipping = req.OfferShipping
	cfg.CompletedAt = s.now().UTC()

	colors := []struct {
		in  string
		out *string
	}{
		{req.PrimaryColor, &cfg.PrimaryColor},
		{req.PrimaryHover, &cfg.PrimaryHoverColor},
		{req.SecondaryColor, &cfg.SecondaryColor},
		{req.TextColor, &cfg.TextColor},
		{req.FooterBgColor, &cfg.FooterBgColor},
	}
	for _, c := range colors {
		if c.in == "" {
			continue
		}
		normalized, err := theme.Normalize(c.in)
		if err != nil {
			return nil, ErrInvalidSetupColor
		}
		*c.out = normalized
	}

	for _, code := range req.Currencies {
		c, err := ParseCurrency(code)
		if err != nil {
			return nil, err
		}
		if !containsCurrency(cfg.Currencies, c) {
			cfg.Currencies = append(cfg.Currencies, c)
		}
	}
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = SupportedCurrencies()
	}

	cfg.DefaultCurrency = cfg.Currencies[0]
	if req.DefaultCurrency != "" {
		c, err := ParseCurrency(req.DefaultCurrency)
		if err != nil {
			return nil, err
		}
		if !containsCurrency(cfg.Currencies, c) {
			return nil, ErrDefaultCurrencyNotSet
		}
		cfg.DefaultCurrency = c
	}

	return &cfg, nil
}

// createCategories adds the wizard's categories; names that already exist are kept.
func (s *setupService) createCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		en := name
		err := s.categoryRepo.Create(ctx, &model.Category{Name: name, NameEn: &en})
		if err != nil && !apperrors.IsUniqueViolation(err) {
			return err
		}
	}
	return nil
}

func containsCurrency(list []Currency, c Currency) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}
