package riot

import (
	"context"
	"sync"
	"time"
)

// windowLimit allows at most Max requests in any trailing Per interval.
type windowLimit struct {
	Max int
	Per time.Duration
}

// slidingWindow is a process-wide limiter over one or more trailing windows.
// A request is admitted only when every window has room.
type slidingWindow struct {
	mu      sync.Mutex
	limits  []windowLimit
	history [][]time.Time
	now     func() time.Time
}

func newSlidingWindow(limits ...windowLimit) *slidingWindow {
	active := make([]windowLimit, 0, len(limits))
	for _, limit := range limits {
		if limit.Max > 0 && limit.Per > 0 {
			active = append(active, limit)
		}
	}
	return &slidingWindow{
		limits:  active,
		history: make([][]time.Time, len(active)),
		now:     time.Now,
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (w *slidingWindow) Wait(ctx context.Context) error {
	if w == nil || len(w.limits) == 0 {
		return ctx.Err()
	}

	for {
		delay := w.reserve()
		if delay <= 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve records a request and returns zero, or returns how long to wait
// before the fullest window frees a slot.
func (w *slidingWindow) reserve() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	var delay time.Duration
	for i, limit := range w.limits {
		cutoff := now.Add(-limit.Per)
		kept := w.history[i][:0]
		for _, at := range w.history[i] {
			if at.After(cutoff) {
				kept = append(kept, at)
			}
		}
		w.history[i] = kept

		if len(kept) >= limit.Max {
			if wait := kept[0].Add(limit.Per).Sub(now); wait > delay {
				delay = wait
			}
		}
	}
	if delay > 0 {
		return delay
	}

	for i := range w.history {
		w.history[i] = append(w.history[i], now)
	}
	return 0
}
