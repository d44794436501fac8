package scheduler

import (
	"context"
	"time"

	"github.com/donde/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DefaultPurgeSchedule runs the purge every night at 03:30.
const DefaultPurgeSchedule = "30 3 * * *"

const purgeTimeout = 5 * time.Minute

// Purger deletes expired page views. service.AnalyticsService satisfies it.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// AnalyticsPurgeScheduler drops page views older than the retention window.
type AnalyticsPurgeScheduler struct {
	cron     *cron.Cron
	purger   Purger
	schedule string
}

func NewAnalyticsPurgeScheduler(purger Purger, schedule string) *AnalyticsPurgeScheduler {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	return &AnalyticsPurgeScheduler{
		cron:     cron.New(),
		purger:   purger,
		schedule: schedule,
	}
}

// Start registers the job and starts the cron loop. An invalid schedule
// is returned as an error and nothing is started.
func (s *AnalyticsPurgeScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		logger.Error("Failed to add cron job for analytics purge", err, logger.Fields{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Analytics purge scheduler started", logger.Fields{"schedule": s.schedule})
	return nil
}

// RunOnce purges immediately and returns the number of deleted rows.
func (s *AnalyticsPurgeScheduler) RunOnce(ctx context.Context) int64 {
	logger.Info("Starting scheduled analytics purge")

	deleted, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		logger.Error("Failed to purge expired page views", err)
		return 0
	}

	logger.Info("Analytics purge finished", logger.Fields{"deleted": deleted})
	return deleted
}

// Stop waits for a running purge to finish.
func (s *AnalyticsPurgeScheduler) Stop() {
	logger.Info("Stopping analytics purge scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Analytics purge scheduler stopped")
}
