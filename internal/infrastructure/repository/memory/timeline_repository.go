package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
)

type TimelineRepository struct {
	mu      sync.RWMutex
	byMatch map[int64]map[int64]timeline.Entry
}

func NewTimelineRepository() *TimelineRepository {
	return &TimelineRepository{byMatch: make(map[int64]map[int64]timeline.Entry)}
}

func (r *TimelineRepository) ListByMatch(_ context.Context, matchID int64) ([]timeline.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byMatch[matchID]
	out := make([]timeline.Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IdentityID < out[j].IdentityID })
	return out, nil
}

func (r *TimelineRepository) InsertMany(_ context.Context, entries []timeline.Entry) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, entry := range entries {
		byIdentity, ok := r.byMatch[entry.MatchID]
		if !ok {
			byIdentity = make(map[int64]timeline.Entry)
			r.byMatch[entry.MatchID] = byIdentity
		}
		if _, exists := byIdentity[entry.IdentityID]; exists {
			continue
		}
		byIdentity[entry.IdentityID] = entry
		inserted++
	}
	return inserted, nil
}
