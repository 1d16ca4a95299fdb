package identity

import (
	"strings"
	"time"
)

// BotKey is the external key the provider assigns to every bot participant.
const BotKey = "BOT"

// Identity is a player account keyed by its external key (puuid). Names may
// lag behind or be blank and are never used for matching.
type Identity struct {
	ID           int64
	PUUID        string
	GameName     string
	TagLine      string
	Platform     string
	AccountLevel int
	IconID       int
	UpdatedAt    time.Time
}

// Observation is one sighting of a player, either as a match participant or
// from an account lookup. ObservedAt orders competing observations.
type Observation struct {
	PUUID        string
	GameName     string
	TagLine      string
	Platform     string
	AccountLevel int
	IconID       int
	ObservedAt   time.Time
}

// Stored is the minimal view of a persisted identity needed to decide
// whether an observation is fresher.
type Stored struct {
	ID        int64
	PUUID     string
	UpdatedAt time.Time
}

func IsBot(puuid string) bool {
	return strings.TrimSpace(puuid) == BotKey
}

// HasDisplayName reports whether both halves of the Riot id are present.
func (o Observation) HasDisplayName() bool {
	return strings.TrimSpace(o.GameName) != "" && strings.TrimSpace(o.TagLine) != ""
}

// NewerThan reports whether the observation is strictly newer than a stored row.
func (o Observation) NewerThan(stored Stored) bool {
	return o.ObservedAt.After(stored.UpdatedAt)
}

// DisplayKey groups identities that claim the same visible Riot id.
type DisplayKey struct {
	GameName string
	TagLine  string
	Platform string
}
