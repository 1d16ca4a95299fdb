package participant

import (
	"context"
	"time"
)

// Repository persists participant rows and serves the player match list.
type Repository interface {
	// InsertMany writes rows, skipping any (match, identity) pair already stored.
	InsertMany(ctx context.Context, rows []Participant) (int, error)
	ListByIdentity(ctx context.Context, identityID int64, filter Filter) ([]MatchRow, error)
	Summarize(ctx context.Context, identityID int64, filter Filter) (Summary, error)
	ListPUUIDsByMatch(ctx context.Context, matchID int64) (map[string]int64, error)
}

// Filter narrows a player's match list. Zero values mean "no filter".
type Filter struct {
	ChampionID int
	QueueID    int
	StartAt    *time.Time
	EndAt      *time.Time
	Limit      int
	Offset     int
}

// MatchRow is a participant line joined with its match header.
type MatchRow struct {
	Participant
	MatchKey        string
	Platform        string
	QueueID         int
	GameMode        string
	Version         string
	DurationSeconds int
	EndedAt         *time.Time
}

// Summary aggregates a filtered match list.
type Summary struct {
	TotalMatches         int
	TotalWins            int
	AvgKills             float64
	AvgDeaths            float64
	AvgAssists           float64
	AvgKDA               float64
	AvgKillParticipation float64
}
