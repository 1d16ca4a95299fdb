package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
)

// MatchRepository keeps a logical attempt clock per stub in place of the SQL
// updated_at column, so ListStubs orders the same way.
type MatchRepository struct {
	mu        sync.RWMutex
	nextID    int64
	byID      map[int64]lolmatch.Match
	byKey     map[string]int64
	clock     int64
	attempted map[int64]int64
}

func NewMatchRepository(matches []lolmatch.Match) *MatchRepository {
	r := &MatchRepository{
		byID:      make(map[int64]lolmatch.Match, len(matches)),
		byKey:     make(map[string]int64, len(matches)),
		attempted: make(map[int64]int64),
	}
	for _, m := range matches {
		if m.ID > r.nextID {
			r.nextID = m.ID
		}
		r.byID[m.ID] = m
		r.byKey[m.MatchKey] = m.ID
	}
	return r
}

func (r *MatchRepository) InsertStubs(_ context.Context, keys []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, key := range keys {
		if _, ok := r.byKey[key]; ok {
			continue
		}
		r.nextID++
		r.byID[r.nextID] = lolmatch.Match{
			ID:       r.nextID,
			MatchKey: key,
			Platform: lolmatch.PlatformFromKey(key),
			Status:   lolmatch.StatusStub,
		}
		r.byKey[key] = r.nextID
		inserted++
	}
	return inserted, nil
}

func (r *MatchRepository) ExistingKeys(_ context.Context, keys []string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := r.byKey[key]; ok {
			out[key] = struct{}{}
		}
	}
	return out, nil
}

func (r *MatchRepository) ListStubs(_ context.Context, limit int) ([]lolmatch.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lolmatch.Match, 0)
	for _, m := range r.byID {
		if m.Status == lolmatch.StatusStub {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := r.attempted[out[i].ID], r.attempted[out[j].ID]
		if ai != aj {
			return ai < aj
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (lolmatch.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	return m, ok, nil
}

func (r *MatchRepository) IDsByKeys(_ context.Context, keys []string) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64, len(keys))
	for _, key := range keys {
		if id, ok := r.byKey[key]; ok {
			out[key] = id
		}
	}
	return out, nil
}

func (r *MatchRepository) Populate(_ context.Context, details []lolmatch.Detail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range details {
		id, ok := r.byKey[d.MatchKey]
		if !ok {
			continue
		}
		m := r.byID[id]
		if m.Status != lolmatch.StatusStub {
			continue
		}
		startedAt, endedAt := d.StartedAt, d.EndedAt
		m.Status = lolmatch.StatusPopulated
		m.QueueID = d.QueueID
		m.MapID = d.MapID
		m.GameMode = d.GameMode
		m.Version = d.Version
		m.DurationSeconds = d.DurationSeconds
		m.StartedAt = &startedAt
		m.EndedAt = &endedAt
		r.byID[id] = m
	}
	return nil
}

func (r *MatchRepository) MarkTrashed(_ context.Context, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		id, ok := r.byKey[key]
		if !ok {
			continue
		}
		m := r.byID[id]
		if m.Status != lolmatch.StatusStub {
			continue
		}
		m.Status = lolmatch.StatusTrashed
		r.byID[id] = m
	}
	return nil
}

func (r *MatchRepository) TouchPending(_ context.Context, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clock++
	for _, key := range keys {
		id, ok := r.byKey[key]
		if !ok || r.byID[id].Status != lolmatch.StatusStub {
			continue
		}
		r.attempted[id] = r.clock
	}
	return nil
}

// Snapshot returns every stored match ordered by id.
func (r *MatchRepository) Snapshot() []lolmatch.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lolmatch.Match, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
