package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
)

// MatchProvider is the game statistics API as seen by the pipeline. Missing
// resources are reported with an error wrapping ErrNotFound.
type MatchProvider interface {
	ListMatchIDs(ctx context.Context, platform, playerKey string, start, count int) ([]string, error)
	FetchMatch(ctx context.Context, matchKey string) (ExternalMatch, error)
	FetchTimeline(ctx context.Context, matchKey string) (ExternalTimeline, error)
	FetchIdentity(ctx context.Context, platform, playerKey string) (ExternalIdentity, error)
}

type ExternalMatch struct {
	MatchKey        string
	Platform        string
	GameID          int64
	GameMode        string
	Version         string
	QueueID         int
	MapID           int
	DurationSeconds int
	StartedAt       time.Time
	EndedAt         time.Time
	Teams           []ExternalTeam
	Participants    []ExternalParticipant
}

type ExternalTeam struct {
	TeamID        int
	Win           bool
	ChampionKills int
}

type ExternalParticipant struct {
	PUUID                  string
	GameName               string
	TagLine                string
	SummonerLevel          int
	ProfileIconID          int
	ChampionID             int
	TeamID                 int
	ChampLevel             int
	Kills                  int
	Deaths                 int
	Assists                int
	DamageDealtToChampions int
	DamageTaken            int
	GoldEarned             int
	WardsPlaced            int
	TotalMinionsKilled     int
	DoubleKills            int
	TripleKills            int
	QuadraKills            int
	PentaKills             int
	Summoner1ID            int
	Summoner2ID            int
	Items                  [7]int
	Perks                  participant.Perks
}

type ExternalTimelineParticipant struct {
	ParticipantID int
	PUUID         string
}

// ExternalTimeline is a match's frame events flattened in arrival order.
type ExternalTimeline struct {
	MatchKey     string
	Participants []ExternalTimelineParticipant
	Events       []timeline.Event
}

type ExternalIdentity struct {
	PUUID    string
	GameName string
	TagLine  string
}

func (m ExternalMatch) winningTeam() (int, bool) {
	for _, team := range m.Teams {
		if team.Win {
			return team.TeamID, true
		}
	}
	return 0, false
}

func (m ExternalMatch) teamKills() map[int]int {
	out := make(map[int]int, len(m.Teams))
	for _, team := range m.Teams {
		out[team.TeamID] = team.ChampionKills
	}
	return out
}
