package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/domain/gamedata"
	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
	"github.com/stretchr/testify/mock"
)

type providerMock struct {
	mock.Mock
}

func (m *providerMock) ListMatchIDs(ctx context.Context, platform, playerKey string, start, count int) ([]string, error) {
	args := m.Called(ctx, platform, playerKey, start, count)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *providerMock) FetchMatch(ctx context.Context, matchKey string) (ExternalMatch, error) {
	args := m.Called(ctx, matchKey)
	match, _ := args.Get(0).(ExternalMatch)
	return match, args.Error(1)
}

func (m *providerMock) FetchTimeline(ctx context.Context, matchKey string) (ExternalTimeline, error) {
	args := m.Called(ctx, matchKey)
	tl, _ := args.Get(0).(ExternalTimeline)
	return tl, args.Error(1)
}

func (m *providerMock) FetchIdentity(ctx context.Context, platform, playerKey string) (ExternalIdentity, error) {
	args := m.Called(ctx, platform, playerKey)
	account, _ := args.Get(0).(ExternalIdentity)
	return account, args.Error(1)
}

func newProviderMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *providerMock {
	m := &providerMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func testCatalog() *gamedata.Catalog {
	catalog, err := gamedata.Load()
	if err != nil {
		panic(err)
	}
	return catalog
}

func keyRange(prefix string, from, to int) []string {
	out := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, fmt.Sprintf("%s_%d", prefix, i))
	}
	return out
}

// sampleMatch builds a structurally valid two-team match where team 100 wins.
// Participants are given as puuid:team pairs.
func sampleMatch(key string, endedAt time.Time, players ...ExternalParticipant) ExternalMatch {
	return ExternalMatch{
		MatchKey:        key,
		Platform:        "EUW1",
		GameID:          6912345678,
		GameMode:        "CLASSIC",
		Version:         "14.3.567.1234",
		QueueID:         420,
		MapID:           11,
		DurationSeconds: 1800,
		StartedAt:       endedAt.Add(-30 * time.Minute),
		EndedAt:         endedAt,
		Teams: []ExternalTeam{
			{TeamID: 100, Win: true, ChampionKills: 20},
			{TeamID: 200, Win: false, ChampionKills: 10},
		},
		Participants: players,
	}
}

func player(puuid, name, tag string, team int) ExternalParticipant {
	return ExternalParticipant{
		PUUID:              puuid,
		GameName:           name,
		TagLine:            tag,
		SummonerLevel:      30,
		ProfileIconID:      7,
		ChampionID:         103,
		TeamID:             team,
		ChampLevel:         18,
		Kills:              5,
		Deaths:             2,
		Assists:            5,
		TotalMinionsKilled: 180,
	}
}

func participantFilterAll() participant.Filter {
	return participant.Filter{}
}
