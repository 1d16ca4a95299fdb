package identity

import "context"

// Repository persists identities. Every write is guarded so that an older
// observation never overwrites a newer stored row.
type Repository interface {
	FindByKeys(ctx context.Context, puuids []string) (map[string]Stored, error)
	// Upsert inserts observations and refreshes existing rows whose stored
	// timestamp is older. The returned map covers every input key, including
	// rows the freshness guard left unchanged.
	Upsert(ctx context.Context, observations []Observation) (map[string]int64, error)
	// UpdateNewer applies observations to existing rows whose stored
	// timestamp is older and returns how many rows changed.
	UpdateNewer(ctx context.Context, observations []Observation) (int, error)
	// UpdateNames overwrites the Riot id of existing rows without touching
	// their freshness timestamp.
	UpdateNames(ctx context.Context, observations []Observation) (int, error)
	GetByID(ctx context.Context, id int64) (Identity, bool, error)
	// ListDisplayConflicts returns every identity whose Riot id collides on
	// the same platform with one of the given keys' rows, those rows included.
	ListDisplayConflicts(ctx context.Context, puuids []string) ([]Identity, error)
}
