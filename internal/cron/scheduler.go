package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"boostbot/internal/catalog"
	"boostbot/internal/dispatch"
	"boostbot/internal/repository"
)

// Scheduler manages all cron jobs.
type Scheduler struct {
	cron       *cron.Cron
	catalog    *catalog.Catalog
	dispatcher *dispatch.Dispatcher
	links      *repository.PaymentLinkRepository
	sweepEvery time.Duration
	logger     *zap.Logger
}

// New creates a new cron scheduler.
func New(cat *catalog.Catalog, dispatcher *dispatch.Dispatcher, links *repository.PaymentLinkRepository, sweepEvery time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		catalog:    cat,
		dispatcher: dispatcher,
		links:      links,
		sweepEvery: sweepEvery,
		logger:     logger,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler...")

	sweepMinutes := int(s.sweepEvery.Minutes())
	if sweepMinutes < 1 {
		sweepMinutes = 5
	}

	// Pending fulfillment sweep
	s.cron.AddFunc(fmt.Sprintf("0 */%d * * * *", sweepMinutes), func() {
		defer s.recoverFromPanic("pendingSweep")
		s.logger.Debug("Running: pending fulfillment sweep")
		s.dispatcher.Sweep(context.Background())
	})

	// Catalog refresh - daily at 4 AM
	s.cron.AddFunc("0 0 4 * * *", func() {
		defer s.recoverFromPanic("catalogRefresh")
		s.logger.Debug("Running: catalog refresh")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.catalog.Load(ctx); err != nil {
			// the previous snapshot keeps serving
			s.logger.Warn("scheduled catalog refresh failed", zap.Error(err))
		}
	})

	// Stale payment-link cleanup - every hour
	s.cron.AddFunc("0 0 * * * *", func() {
		defer s.recoverFromPanic("linkCleanup")
		s.logger.Debug("Running: stale payment link cleanup")
		n, err := s.links.DeleteOlderThan(24 * time.Hour)
		if err != nil {
			s.logger.Error("payment link cleanup failed", zap.Error(err))
			return
		}
		if n > 0 {
			s.logger.Info("pruned stale payment links", zap.Int64("count", n))
		}
	})

	s.cron.Start()
	s.logger.Info("Cron scheduler started")
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) recoverFromPanic(jobName string) {
	if r := recover(); r != nil {
		s.logger.Error("Cron job panicked", zap.String("job", jobName), zap.Any("error", r))
	}
}
