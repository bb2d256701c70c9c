// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SubscriptionExpirer is the use case the sweeper drives
type SubscriptionExpirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// SubscriptionSweeperConfig holds configuration for the subscription sweeper
type SubscriptionSweeperConfig struct {
	// Interval is how often the sweep runs
	Interval time.Duration
	// Timeout bounds a single sweep
	Timeout time.Duration
}

// DefaultSubscriptionSweeperConfig returns default sweeper configuration
func DefaultSubscriptionSweeperConfig() SubscriptionSweeperConfig {
	return SubscriptionSweeperConfig{
		Interval: 24 * time.Hour,
		Timeout:  5 * time.Minute,
	}
}

// SubscriptionSweeper periodically expires overdue subscriptions. The sweep
// is idempotent, so overlapping instances across deployments are harmless.
type SubscriptionSweeper struct {
	config  SubscriptionSweeperConfig
	expirer SubscriptionExpirer
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSubscriptionSweeper creates a new subscription sweeper
func NewSubscriptionSweeper(config SubscriptionSweeperConfig, expirer SubscriptionExpirer, logger *zap.Logger) *SubscriptionSweeper {
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionSweeper{
		config:  config,
		expirer: expirer,
		logger:  logger,
	}
}

// Start starts the sweep loop
func (s *SubscriptionSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Subscription sweeper started",
		zap.Duration("interval", s.config.Interval))

	return nil
}

// Stop stops the sweep loop, waiting for an in-flight sweep to finish
func (s *SubscriptionSweeper) Stop(ctx context.Context) error {
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
		s.logger.Info("Subscription sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SubscriptionSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	// Run once at startup so a long interval never delays the first sweep
	s.sweep(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SubscriptionSweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	expired, err := s.expirer.ExpireOverdue(sweepCtx)
	if err != nil {
		s.logger.Error("subscription sweep failed", zap.Error(err))
		return
	}

	if expired > 0 {
		s.logger.Info("subscription sweep completed", zap.Int("expired", expired))
	}
}
