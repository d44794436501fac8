package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	"github.com/donde/storefront-backend/internal/theme"
	"github.com/donde/storefront-backend/pkg/logger"
	"github.com/donde/storefront-backend/pkg/redis"
	"gorm.io/gorm"
)

type SettingsService interface {
	// GetSettings returns nil, nil while the store has never been configured.
	GetSettings(ctx context.Context) (*model.StoreSettings, error)
	UpsertSettings(ctx context.Context, p *model.SettingsPatch) (*model.StoreSettings, error)
	// CurrentPalette is the palette last pushed to the theme sinks.
	CurrentPalette() theme.Palette
	// SyncTheme resolves the palette from the stored settings and applies it.
	SyncTheme(ctx context.Context) error
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	cache        redis.KV
	cacheTTL     time.Duration
	applier      *theme.Applier
}

// NewSettingsService wires the settings repository with a read-through cache
// and the theme applier. cache may be nil to disable caching.
func NewSettingsService(
	settingsRepo repository.SettingsRepository,
	cache redis.KV,
	cacheTTL time.Duration,
	applier *theme.Applier,
) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		applier:      applier,
	}
}

func (s *settingsService) GetSettings(ctx context.Context) (*model.StoreSettings, error) {
	if cached, ok := s.readCache(ctx); ok {
		return cached, nil
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.fillCache(ctx, settings)
	return settings, nil
}

func (s *settingsService) UpsertSettings(ctx context.Context, p *model.SettingsPatch) (*model.StoreSettings, error) {
	changes := p.Changes()

	settings, err := s.settingsRepo.Upsert(ctx, changes)
	if err != nil {
		logger.Error("Failed to save store settings", err, logger.Fields{
			"fields": len(changes),
		})
		return nil, err
	}

	s.writeCache(ctx, settings)

	logger.Info("Store settings saved", logger.Fields{
		"fields": len(changes),
	})

	// the save already succeeded; a failing sink is retried on the next apply
	eventColor := ""
	if p.PrimaryColor.Set && !p.PrimaryColor.Null {
		eventColor = p.PrimaryColor.Value
	}
	if err := s.applyTheme(ctx, settings, eventColor); err != nil {
		logger.Warn("Theme sinks rejected palette", logger.Fields{"error": err.Error()})
	}

	return settings, nil
}

func (s *settingsService) CurrentPalette() theme.Palette {
	if s.applier == nil {
		return theme.DefaultPalette
	}
	return s.applier.Current()
}

func (s *settingsService) SyncTheme(ctx context.Context) error {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	return s.applyTheme(ctx, settings, "")
}

func (s *settingsService) applyTheme(ctx context.Context, settings *model.StoreSettings, eventColor string) error {
	if s.applier == nil {
		return nil
	}
	_, err := s.applier.Apply(ctx, ThemeSources(settings, eventColor))
	return err
}

// ThemeSources collects the colour inputs stored in settings.
func ThemeSources(settings *model.StoreSettings, eventColor string) theme.Sources {
	src := theme.Sources{EventColor: eventColor}
	if settings != nil {
		if settings.PrimaryColor != nil {
			src.PrimaryColor = *settings.PrimaryColor
		}
		src.SetupConfig = settings.SetupConfig
	}
	return src
}

func (s *settingsService) readCache(ctx context.Context) (*model.StoreSettings, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, redis.SettingsKey)
	if err != nil {
		if !errors.Is(err, redis.ErrMiss) {
			logger.Warn("Settings cache read failed", logger.Fields{"error": err.Error()})
		}
		return nil, false
	}

	var settings model.StoreSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		logger.Warn("Discarding unreadable settings cache entry", logger.Fields{"error": err.Error()})
		s.invalidateCache(ctx)
		return nil, false
	}
	return &settings, true
}

// writeCache stores the row just saved, replacing whatever a reader cached.
func (s *settingsService) writeCache(ctx context.Context, settings *model.StoreSettings) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		s.invalidateCache(ctx)
		return
	}
	if err := s.cache.Set(ctx, redis.SettingsKey, string(raw), s.cacheTTL); err != nil {
		logger.Warn("Settings cache write failed", logger.Fields{"error": err.Error()})
		s.invalidateCache(ctx)
	}
}

// fillCache stores a row loaded on a miss. It never overwrites an entry, so a
// save that landed after the load keeps its row in the cache.
func (s *settingsService) fillCache(ctx context.Context, settings *model.StoreSettings) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if _, err := s.cache.SetNX(ctx, redis.SettingsKey, string(raw), s.cacheTTL); err != nil {
		logger.Warn("Settings cache fill failed", logger.Fields{"error": err.Error()})
	}
}

func (s *settingsService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, redis.SettingsKey); err != nil {
		logger.Warn("Settings cache invalidation failed", logger.Fields{"error": err.Error()})
	}
}
