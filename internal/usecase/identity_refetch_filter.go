package usecase

import (
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	refetchFilterCapacity = 100_000
	refetchFilterFPRate   = 0.01
)

// refetchFilter remembers keys the account lookup recently answered with not
// found. It keeps a current and a previous generation so a key stays
// remembered for at least one full window after it was added. A false
// positive only postpones a lookup until the key ages out.
type refetchFilter struct {
	mu        sync.Mutex
	current   *bloom.BloomFilter
	previous  *bloom.BloomFilter
	window    time.Duration
	rotatedAt time.Time
	now       func() time.Time
}

func newRefetchFilter(window time.Duration, now func() time.Time) *refetchFilter {
	if now == nil {
		now = time.Now
	}
	return &refetchFilter{
		current:   bloom.NewWithEstimates(refetchFilterCapacity, refetchFilterFPRate),
		previous:  bloom.NewWithEstimates(refetchFilterCapacity, refetchFilterFPRate),
		window:    window,
		rotatedAt: now(),
		now:       now,
	}
}

func (f *refetchFilter) rotateLocked() {
	if f.window <= 0 {
		return
	}
	now := f.now()
	elapsed := now.Sub(f.rotatedAt)
	if elapsed < f.window {
		return
	}
	if elapsed >= 2*f.window {
		f.current.ClearAll()
	}
	f.current, f.previous = f.previous.ClearAll(), f.current
	f.rotatedAt = now
}

func (f *refetchFilter) Contains(key string) bool {
	if f == nil || f.window <= 0 {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rotateLocked()
	return f.current.TestString(key) || f.previous.TestString(key)
}

func (f *refetchFilter) Add(key string) {
	if f == nil || f.window <= 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rotateLocked()
	f.current.AddString(key)
}
