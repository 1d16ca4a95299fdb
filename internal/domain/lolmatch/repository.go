package lolmatch

import "context"

// Repository persists match rows and their lifecycle transitions.
type Repository interface {
	// InsertStubs creates stub rows for keys not yet stored and reports how
	// many were new. Existing keys are left untouched.
	InsertStubs(ctx context.Context, keys []string) (int, error)
	ExistingKeys(ctx context.Context, keys []string) (map[string]struct{}, error)
	// ListStubs returns stubs least recently attempted first, ties broken by id.
	ListStubs(ctx context.Context, limit int) ([]Match, error)
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	// IDsByKeys maps match keys to internal ids.
	IDsByKeys(ctx context.Context, keys []string) (map[string]int64, error)
	// Populate writes detail onto rows that are still stubs.
	Populate(ctx context.Context, details []Detail) error
	// MarkTrashed moves rows that are still stubs to trashed.
	MarkTrashed(ctx context.Context, keys []string) error
	// TouchPending records an ingestion attempt on stubs that stayed pending,
	// moving them behind untried stubs in ListStubs.
	TouchPending(ctx context.Context, keys []string) error
}
