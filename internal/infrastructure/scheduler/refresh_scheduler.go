package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SnapshotRefresher is the slice of the snapshot cache the scheduler drives
type SnapshotRefresher interface {
	RefreshCatalog(ctx context.Context) error
	RefreshInventory(ctx context.Context) error
}

// RefreshSchedulerConfig holds the tick intervals
type RefreshSchedulerConfig struct {
	// CatalogInterval is how often the full catalog is re-fetched
	CatalogInterval time.Duration
	// InventoryInterval is how often stock counts are re-fetched
	InventoryInterval time.Duration
	// RefreshTimeout bounds a single refresh run
	RefreshTimeout time.Duration
}

// DefaultRefreshSchedulerConfig returns the default intervals
func DefaultRefreshSchedulerConfig() RefreshSchedulerConfig {
	return RefreshSchedulerConfig{
		CatalogInterval:   24 * time.Hour,
		InventoryInterval: 5 * time.Minute,
		RefreshTimeout:    2 * time.Minute,
	}
}

// RefreshScheduler keeps the snapshot cache warm in the background so
// storefront reads rarely pay for a vendor round trip. A failed tick is
// logged and the next tick tries again; the loop never dies.
type RefreshScheduler struct {
	config    RefreshSchedulerConfig
	refresher SnapshotRefresher
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewRefreshScheduler creates a new RefreshScheduler
func NewRefreshScheduler(config RefreshSchedulerConfig, refresher SnapshotRefresher, logger *zap.Logger) *RefreshScheduler {
	if config.CatalogInterval <= 0 {
		config.CatalogInterval = DefaultRefreshSchedulerConfig().CatalogInterval
	}
	if config.InventoryInterval <= 0 {
		config.InventoryInterval = DefaultRefreshSchedulerConfig().InventoryInterval
	}
	if config.RefreshTimeout <= 0 {
		config.RefreshTimeout = DefaultRefreshSchedulerConfig().RefreshTimeout
	}
	return &RefreshScheduler{
		config:    config,
		refresher: refresher,
		logger:    logger,
	}
}

// Start begins the background refresh loops. Idempotent.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(2)
	go s.runLoop(ctx, "catalog", s.config.CatalogInterval, s.refresher.RefreshCatalog)
	go s.runLoop(ctx, "inventory", s.config.InventoryInterval, s.refresher.RefreshInventory)

	s.logger.Info("Refresh scheduler started",
		zap.Duration("catalog_interval", s.config.CatalogInterval),
		zap.Duration("inventory_interval", s.config.InventoryInterval),
	)
	return nil
}

// Stop stops the refresh loops, waiting up to ctx for them to drain
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Refresh scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RefreshScheduler) runLoop(ctx context.Context, tier string, interval time.Duration, refresh func(context.Context) error) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, tier, refresh)
		}
	}
}

// runOnce executes one refresh, recovering from panics so a bad tick
// cannot take the loop down with it
func (s *RefreshScheduler) runOnce(ctx context.Context, tier string, refresh func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic in scheduled refresh",
				zap.String("tier", tier),
				zap.Any("panic", r))
		}
	}()

	refreshCtx, cancel := context.WithTimeout(ctx, s.config.RefreshTimeout)
	defer cancel()

	if err := refresh(refreshCtx); err != nil {
		s.logger.Warn("Scheduled refresh failed",
			zap.String("tier", tier),
			zap.Error(err))
	}
}
