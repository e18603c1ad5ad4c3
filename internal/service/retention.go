package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adaptivegym/lyingoracle/internal/domain"
)

const (
	defaultRetentionInterval = 1 * time.Hour
	defaultRetentionMaxAge   = 30 * 24 * time.Hour
)

// RolloutRetentionService prunes persisted rollouts older than a retention
// window on a periodic schedule.
type RolloutRetentionService struct {
	rollouts domain.RolloutStore
	logger   *zap.Logger

	interval time.Duration
	maxAge   time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewRolloutRetentionService(rollouts domain.RolloutStore, logger *zap.Logger) *RolloutRetentionService {
	return &RolloutRetentionService{
		rollouts: rollouts,
		logger:   logger,
		interval: defaultRetentionInterval,
		maxAge:   defaultRetentionMaxAge,
		stopCh:   make(chan struct{}),
	}
}

func (s *RolloutRetentionService) SetInterval(d time.Duration) {
	s.interval = d
}

func (s *RolloutRetentionService) SetMaxAge(d time.Duration) {
	s.maxAge = d
}

// Start runs retention pruning on a periodic schedule in a background goroutine.
func (s *RolloutRetentionService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("rollout retention started",
			zap.Duration("interval", s.interval),
			zap.Duration("max_age", s.maxAge))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.run(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("rollout retention stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the retention loop.
func (s *RolloutRetentionService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *RolloutRetentionService) run(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.maxAge)
	deleted, err := s.rollouts.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to prune old rollouts", zap.Error(err))
	} else if deleted > 0 {
		s.logger.Info("pruned old rollouts",
			zap.Time("cutoff", cutoff),
			zap.Int64("count", deleted))
	}
}
