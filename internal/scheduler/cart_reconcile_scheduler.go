package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/saascom/storefront-gateway/internal/app/cart"
	"github.com/saascom/storefront-gateway/pkg/logger"
)

// CartReconcileScheduler periodically reloads every active cart mirror from
// the backend, converging any drift left by failed mutations, and evicts
// mirrors that idled out.
type CartReconcileScheduler struct {
	cron     *cron.Cron
	manager  *cart.Manager
	interval time.Duration
}

func NewCartReconcileScheduler(manager *cart.Manager, interval time.Duration) *CartReconcileScheduler {
	return &CartReconcileScheduler{
		cron:     cron.New(),
		manager:  manager,
		interval: interval,
	}
}

// Start registers and starts the reconcile sweep
func (s *CartReconcileScheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		logger.Debug("Starting cart reconcile sweep", nil)

		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()

		s.manager.ReloadAll(ctx)
		if evicted := s.manager.EvictIdle(); evicted > 0 {
			logger.Info("Evicted idle cart mirrors", map[string]interface{}{
				"count": evicted,
			})
		}
	})
	if err != nil {
		logger.Error("Failed to register cart reconcile sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart reconcile scheduler started", map[string]interface{}{
		"interval": s.interval.String(),
	})
	return nil
}

// Stop stops the scheduler
func (s *CartReconcileScheduler) Stop() {
	logger.Info("Stopping cart reconcile scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart reconcile scheduler stopped", nil)
}
