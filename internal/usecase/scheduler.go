package usecase

import (
	"context"
	"log/slog"
	"time"

	"reviewgenius/internal/ports"
)

// Scheduler wires the cron driver with the catalog refresh use case.
type Scheduler struct {
	driver    ports.Scheduler
	refresher *Refresher
	logger    *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring refresh jobs.
func NewScheduler(driver ports.Scheduler, refresher *Refresher, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, refresher: refresher, logger: logger}
}

// Start registers the refresh job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.refresher == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.refresher.RefreshCatalog(ctx); err != nil && s.logger != nil {
			s.logger.Error("catalog refresh failed", "trigger", trigger, "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
