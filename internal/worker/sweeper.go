package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/observability"
	"github.com/spec-kit/support-bot/internal/service"
)

// Sweeper schedules the periodic lifecycle sweep. One pass runs per interval;
// a failed pass is reported and the loop continues. Cancellation is a clean
// stop: the loop drains on ctx.Done and Done() unblocks waiters.
type Sweeper struct {
	service  *service.TicketService
	metrics  *observability.Metrics
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
}

// NewSweeper constructs the sweeper.
func NewSweeper(svc *service.TicketService, metrics *observability.Metrics, logger *zap.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		service:  svc,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

// Done is closed once the loop has fully stopped.
func (s *Sweeper) Done() <-chan struct{} {
	return s.done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now().Unix()
	if err := s.service.SweepOnce(ctx, now); err != nil {
		s.metrics.IncSweepErrors()
		s.logger.Error("sweep pass failed", zap.Error(err))
		// Best-effort: the admin hears about a broken sweep, but a failed
		// report must not take the loop down either.
		if reportErr := s.service.NotifyAdmin(ctx, fmt.Sprintf("⚠️ Background sweep error: %v", err)); reportErr != nil {
			s.logger.Warn("sweep error report failed", zap.Error(reportErr))
		}
	}
}
