package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
)

// IdentityRepository applies the same freshness guard as the SQL upsert:
// a row is only overwritten by a strictly newer observation.
type IdentityRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]identity.Identity
	byKey  map[string]int64
}

func NewIdentityRepository(items []identity.Identity) *IdentityRepository {
	r := &IdentityRepository{
		byID:  make(map[int64]identity.Identity, len(items)),
		byKey: make(map[string]int64, len(items)),
	}
	for _, item := range items {
		if item.ID > r.nextID {
			r.nextID = item.ID
		}
		r.byID[item.ID] = item
		r.byKey[item.PUUID] = item.ID
	}
	return r
}

func (r *IdentityRepository) FindByKeys(_ context.Context, puuids []string) (map[string]identity.Stored, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]identity.Stored, len(puuids))
	for _, key := range puuids {
		id, ok := r.byKey[key]
		if !ok {
			continue
		}
		row := r.byID[id]
		out[key] = identity.Stored{ID: row.ID, PUUID: row.PUUID, UpdatedAt: row.UpdatedAt}
	}
	return out, nil
}

func (r *IdentityRepository) Upsert(_ context.Context, observations []identity.Observation) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int64, len(observations))
	for _, obs := range observations {
		id, ok := r.byKey[obs.PUUID]
		if !ok {
			r.nextID++
			id = r.nextID
			r.byKey[obs.PUUID] = id
			r.byID[id] = apply(identity.Identity{ID: id, PUUID: obs.PUUID}, obs)
		} else if row := r.byID[id]; obs.ObservedAt.After(row.UpdatedAt) {
			r.byID[id] = apply(row, obs)
		}
		out[obs.PUUID] = id
	}
	return out, nil
}

func (r *IdentityRepository) UpdateNewer(_ context.Context, observations []identity.Observation) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for _, obs := range observations {
		id, ok := r.byKey[obs.PUUID]
		if !ok {
			continue
		}
		row := r.byID[id]
		if !obs.ObservedAt.After(row.UpdatedAt) {
			continue
		}
		r.byID[id] = apply(row, obs)
		updated++
	}
	return updated, nil
}

func (r *IdentityRepository) UpdateNames(_ context.Context, observations []identity.Observation) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for _, obs := range observations {
		id, ok := r.byKey[obs.PUUID]
		if !ok {
			continue
		}
		row := r.byID[id]
		row.GameName = obs.GameName
		row.TagLine = obs.TagLine
		r.byID[id] = row
		updated++
	}
	return updated, nil
}

func (r *IdentityRepository) GetByID(_ context.Context, id int64) (identity.Identity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byID[id]
	return row, ok, nil
}

func (r *IdentityRepository) ListDisplayConflicts(_ context.Context, puuids []string) ([]identity.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make(map[identity.DisplayKey][]int64)
	for id, row := range r.byID {
		if row.GameName == "" || row.TagLine == "" {
			continue
		}
		key := identity.DisplayKey{GameName: row.GameName, TagLine: row.TagLine, Platform: row.Platform}
		groups[key] = append(groups[key], id)
	}

	wanted := make(map[string]struct{}, len(puuids))
	for _, key := range puuids {
		wanted[key] = struct{}{}
	}

	var out []identity.Identity
	for _, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		touched := false
		for _, id := range ids {
			if _, ok := wanted[r.byID[id].PUUID]; ok {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}
		for _, id := range ids {
			out = append(out, r.byID[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Snapshot returns every stored identity ordered by id.
func (r *IdentityRepository) Snapshot() []identity.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]identity.Identity, 0, len(r.byID))
	for _, row := range r.byID {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func apply(row identity.Identity, obs identity.Observation) identity.Identity {
	row.GameName = obs.GameName
	row.TagLine = obs.TagLine
	row.Platform = obs.Platform
	row.AccountLevel = obs.AccountLevel
	row.IconID = obs.IconID
	row.UpdatedAt = obs.ObservedAt
	return row
}
