package timeline

import "context"

// Repository persists reconstructed timelines. Entries are immutable once
// stored.
type Repository interface {
	ListByMatch(ctx context.Context, matchID int64) ([]Entry, error)
	// InsertMany writes entries, ignoring (match, identity) pairs already stored.
	InsertMany(ctx context.Context, entries []Entry) (int, error)
}
