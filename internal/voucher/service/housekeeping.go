package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/voucher/pkg/cachex"
)

// HousekeepingService periodically sweeps expired cache entries and logs
// dataset growth so a slowly filling disk shows up in the logs before it
// becomes a page.
type HousekeepingService struct {
	Redemptions *RedemptionService
	Cache       *cachex.Cache
	Logger      *slog.Logger
	Interval    time.Duration

	// Retention is how long expired cache entries stay eligible for
	// stale-while-revalidate before the sweep drops them.
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. Interval defaults
// to 15 minutes, retention to one hour.
func NewHousekeepingService(
	redemptions *RedemptionService,
	cache *cachex.Cache,
	logger *slog.Logger,
	interval time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	return &HousekeepingService{
		Redemptions: redemptions,
		Cache:       cache,
		Logger:      logger,
		Interval:    interval,
		Retention:   time.Hour,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the worker, blocking until any in-progress
// sweep finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run once on startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	removed := s.Cache.Sweep(s.Retention)

	ds, err := s.Redemptions.Dataset(context.Background())
	if err != nil {
		s.Logger.Error("housekeeping: failed to load dataset", "error", err)
		return
	}

	s.Logger.Info("housekeeping sweep completed",
		"cache_entries_removed", removed,
		"cache_entries_resident", s.Cache.Len(),
		"tokens", len(ds.Tokens),
		"redemptions", len(ds.Redemptions),
	)
}
