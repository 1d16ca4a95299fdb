package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
)

type countingRunner struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	overlap  atomic.Bool
	done     chan struct{}
	err      error
}

func (r *countingRunner) DrainOnce(ctx context.Context) (BatchResult, error) {
	if r.inFlight.Add(1) > 1 {
		r.overlap.Store(true)
	}
	defer r.inFlight.Add(-1)

	time.Sleep(5 * time.Millisecond)
	r.calls.Add(1)
	if r.done != nil {
		select {
		case r.done <- struct{}{}:
		default:
		}
	}
	return BatchResult{Requested: 3, Populated: 3}, r.err
}

func TestIngestionScheduler_KickRunsImmediately(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{done: make(chan struct{}, 1)}
	scheduler := NewIngestionScheduler(runner, IngestionSchedulerConfig{TickInterval: time.Hour}, logging.NewNop(), nil)

	ctx, cancel := context.WithCancel(t.Context())
	stopped := make(chan error, 1)
	go func() { stopped <- scheduler.Run(ctx) }()

	scheduler.Kick()
	select {
	case <-runner.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("kick did not trigger a tick")
	}

	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not stop after cancel")
	}
}

func TestIngestionScheduler_TicksPeriodically(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{}
	scheduler := NewIngestionScheduler(runner, IngestionSchedulerConfig{TickInterval: 10 * time.Millisecond}, logging.NewNop(), nil)

	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()
	_ = scheduler.Run(ctx)

	if runner.calls.Load() < 2 {
		t.Fatalf("expected several ticks, got %d", runner.calls.Load())
	}
}

func TestIngestionScheduler_RunOnceNeverOverlaps(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{}
	scheduler := NewIngestionScheduler(runner, IngestionSchedulerConfig{}, logging.NewNop(), nil)

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := scheduler.RunOnce(t.Context())
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("run once: %v", err)
		}
	}
	if runner.overlap.Load() {
		t.Fatalf("ticks overlapped")
	}
	if runner.calls.Load() != 8 {
		t.Fatalf("expected 8 ticks, got %d", runner.calls.Load())
	}
}

func TestIngestionScheduler_RunOnceReturnsRunnerError(t *testing.T) {
	t.Parallel()

	runner := &countingRunner{err: errors.New("db down")}
	scheduler := NewIngestionScheduler(runner, IngestionSchedulerConfig{}, logging.NewNop(), nil)

	if _, err := scheduler.RunOnce(t.Context()); err == nil {
		t.Fatalf("expected runner error")
	}
}
