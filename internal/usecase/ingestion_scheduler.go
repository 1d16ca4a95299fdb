package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/platform/metrics"
)

type BatchRunner interface {
	DrainOnce(ctx context.Context) (BatchResult, error)
}

type IngestionSchedulerConfig struct {
	TickInterval time.Duration
	TickTimeout  time.Duration
}

// IngestionScheduler drives BatchRunner on a fixed tick. Ticks never overlap:
// the loop and on-demand runs share one lock.
type IngestionScheduler struct {
	runner  BatchRunner
	cfg     IngestionSchedulerConfig
	kick    chan struct{}
	mu      sync.Mutex
	logger  *logging.Logger
	metrics *metrics.Manager
	newID   func() string
}

func NewIngestionScheduler(runner BatchRunner, cfg IngestionSchedulerConfig, logger *logging.Logger, m *metrics.Manager) *IngestionScheduler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 30 * time.Second
	}
	if cfg.TickTimeout <= 0 {
		cfg.TickTimeout = 2 * time.Minute
	}
	return &IngestionScheduler{
		runner:  runner,
		cfg:     cfg,
		kick:    make(chan struct{}, 1),
		logger:  logging.OrDefault(logger).Named("ingestion_scheduler"),
		metrics: m,
		newID:   func() string { return uuid.NewString() },
	}
}

// Kick asks the loop for an extra tick. Kicks received while one is already
// queued are coalesced.
func (s *IngestionScheduler) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is done.
func (s *IngestionScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "ingestion scheduler started",
		"tick_interval", s.cfg.TickInterval.String(),
		"tick_timeout", s.cfg.TickTimeout.String(),
	)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ingestion scheduler stopped")
			return nil
		case <-ticker.C:
		case <-s.kick:
		}
		_, _ = s.RunOnce(ctx)
	}
}

// RunOnce runs a single tick bounded by the tick timeout.
func (s *IngestionScheduler) RunOnce(ctx context.Context) (BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickCtx, cancel := context.WithTimeout(ctx, s.cfg.TickTimeout)
	defer cancel()
	tickCtx, span := startUsecaseSpan(tickCtx, "usecase.IngestionScheduler.RunOnce")
	defer span.End()

	runID := s.newID()
	started := time.Now()
	result, err := s.runner.DrainOnce(tickCtx)
	took := time.Since(started)

	if err != nil {
		s.metrics.ObserveBatch("error", took, result.Requested)
		s.logger.ErrorContext(tickCtx, "ingestion tick failed",
			"run_id", runID,
			"duration_ms", took.Milliseconds(),
			"requested", result.Requested,
			"error", err,
		)
		return result, err
	}

	outcome := "ok"
	if result.Requested == 0 {
		outcome = "idle"
	}
	s.metrics.ObserveBatch(outcome, took, result.Requested)
	if result.Requested > 0 {
		s.logger.InfoContext(tickCtx, "ingestion tick completed",
			"run_id", runID,
			"duration_ms", took.Milliseconds(),
			"requested", result.Requested,
			"populated", result.Populated,
			"trashed", result.Trashed,
			"pending", result.Pending,
			"participants", result.Participants,
		)
	}
	return result, nil
}
