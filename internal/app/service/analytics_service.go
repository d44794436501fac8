package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/donde/storefront-backend/internal/app/model"
	"github.com/donde/storefront-backend/internal/app/repository"
	"github.com/donde/storefront-backend/pkg/logger"
)

const (
	maxPathLength      = 2048
	maxUserAgentLength = 512
	defaultTopPaths    = 10
)

var (
	ErrPathRequired = errors.New("path is required")
	ErrPathTooLong  = errors.New("path is too long")
)

type AnalyticsSummary struct {
	Days     int                    `json:"days"`
	Total    int64                  `json:"total"`
	TopPaths []repository.PathCount `json:"top_paths"`
}

type AnalyticsService interface {
	RecordPageView(ctx context.Context, path, referrer, userAgent string) error
	Summary(ctx context.Context, days int) (*AnalyticsSummary, error)
	// PurgeExpired deletes page views older than the retention window.
	PurgeExpired(ctx context.Context) (int64, error)
}

type analyticsService struct {
	pageViewRepo  repository.PageViewRepository
	retentionDays int
	now           func() time.Time
}

func NewAnalyticsService(pageViewRepo repository.PageViewRepository, retentionDays int) AnalyticsService {
	return &analyticsService{
		pageViewRepo:  pageViewRepo,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (s *analyticsService) RecordPageView(ctx context.Context, path, referrer, userAgent string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrPathRequired
	}
	if len(path) > maxPathLength {
		return ErrPathTooLong
	}
	if len(userAgent) > maxUserAgentLength {
		userAgent = userAgent[:maxUserAgentLength]
	}

	return s.pageViewRepo.Create(ctx, &model.PageView{
		Path:      path,
		Referrer:  strings.TrimSpace(referrer),
		UserAgent: userAgent,
	})
}

func (s *analyticsService) Summary(ctx context.Context, days int) (*AnalyticsSummary, error) {
	if days <= 0 {
		days = 30
	}
	since := s.now().AddDate(0, 0, -days)

	total, err := s.pageViewRepo.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	top, err := s.pageViewRepo.TopPaths(ctx, since, defaultTopPaths)
	if err != nil {
		return nil, err
	}

	return &AnalyticsSummary{Days: days, Total: total, TopPaths: top}, nil
}

func (s *analyticsService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)

	deleted, err := s.pageViewRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	logger.Info("Expired page views purged", logger.Fields{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
	return deleted, nil
}
