package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type ingestionFixture struct {
	matches      *memory.MatchRepository
	identities   *memory.IdentityRepository
	participants *memory.ParticipantRepository
	provider     *providerMock
	service      *MatchIngestionService
}

func newIngestionFixture(t *testing.T, keys ...string) ingestionFixture {
	t.Helper()
	return newIngestionFixtureWithBatch(t, 10, keys...)
}

func newIngestionFixtureWithBatch(t *testing.T, batchSize int, keys ...string) ingestionFixture {
	t.Helper()

	matches := memory.NewMatchRepository(nil)
	if _, err := matches.InsertStubs(t.Context(), keys); err != nil {
		t.Fatalf("seed stubs: %v", err)
	}
	identities := memory.NewIdentityRepository(nil)
	participants := memory.NewParticipantRepository(matches, identities)
	provider := newProviderMock(t)
	logger := logging.NewNop()

	service := NewMatchIngestionService(
		matches,
		participants,
		NewMatchFetcher(provider, 4, logger, nil),
		NewMatchClassifier(testCatalog()),
		NewIdentityReconciler(identities, provider, IdentityReconcilerConfig{}, logger, nil),
		NewIdentityConflictResolver(identities, provider, logger),
		MatchIngestionConfig{BatchSize: batchSize},
		logger,
		nil,
	)
	return ingestionFixture{
		matches:      matches,
		identities:   identities,
		participants: participants,
		provider:     provider,
		service:      service,
	}
}

func TestMatchIngestionService_IsIdempotent(t *testing.T) {
	t.Parallel()

	fx := newIngestionFixture(t, "EUW1_1", "EUW1_2")
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx.provider.On("FetchMatch", mock.Anything, "EUW1_1").Return(sampleMatch("EUW1_1", ended,
		player("p1", "Alpha", "EUW", 100),
		player("p2", "Bravo", "EUW", 200),
		player(identity.BotKey, "", "", 200),
	), nil)
	fx.provider.On("FetchMatch", mock.Anything, "EUW1_2").Return(sampleMatch("EUW1_2", ended.Add(time.Hour),
		player("p1", "Alpha", "EUW", 200),
		player("p3", "Charlie", "EUW", 100),
	), nil)

	stubs, err := fx.matches.ListStubs(t.Context(), 10)
	if err != nil {
		t.Fatalf("list stubs: %v", err)
	}

	first, err := fx.service.ProcessBatch(t.Context(), stubs)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Populated != 2 || first.Participants != 4 || first.Pending != 0 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	identitiesAfterFirst := fx.identities.Snapshot()
	second, err := fx.service.ProcessBatch(t.Context(), stubs)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Participants != 0 {
		t.Fatalf("expected no new participant rows on rerun, got %d", second.Participants)
	}
	if got := fx.participants.Len(); got != 4 {
		t.Fatalf("expected 4 participant rows, got %d", got)
	}
	identitiesAfterSecond := fx.identities.Snapshot()
	if len(identitiesAfterSecond) != 3 || len(identitiesAfterFirst) != 3 {
		t.Fatalf("expected 3 identities, got %d then %d", len(identitiesAfterFirst), len(identitiesAfterSecond))
	}
	for i := range identitiesAfterFirst {
		if identitiesAfterFirst[i] != identitiesAfterSecond[i] {
			t.Fatalf("identity changed on rerun: %+v vs %+v", identitiesAfterFirst[i], identitiesAfterSecond[i])
		}
	}
	for _, m := range fx.matches.Snapshot() {
		if m.Status != lolmatch.StatusPopulated || m.Version != "14.3" {
			t.Fatalf("unexpected match row: %+v", m)
		}
	}
}

func TestMatchIngestionService_TrashesAndKeepsFailuresPending(t *testing.T) {
	t.Parallel()

	fx := newIngestionFixture(t, "EUW1_1", "EUW1_2", "EUW1_3")
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	swarm := sampleMatch("EUW1_2", ended, player("p9", "Swarm", "EUW", 100))
	swarm.GameMode = "STRAWBERRY"

	fx.provider.On("FetchMatch", mock.Anything, "EUW1_1").Return(sampleMatch("EUW1_1", ended, player("p1", "Alpha", "EUW", 100)), nil).Once()
	fx.provider.On("FetchMatch", mock.Anything, "EUW1_2").Return(swarm, nil).Once()
	fx.provider.On("FetchMatch", mock.Anything, "EUW1_3").Return(ExternalMatch{}, errors.New("503")).Once()

	result, err := fx.service.DrainOnce(t.Context())
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if result.Populated != 1 || result.Trashed != 1 || result.Pending != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	statuses := map[string]string{}
	for _, m := range fx.matches.Snapshot() {
		statuses[m.MatchKey] = m.Status
	}
	if statuses["EUW1_1"] != lolmatch.StatusPopulated ||
		statuses["EUW1_2"] != lolmatch.StatusTrashed ||
		statuses["EUW1_3"] != lolmatch.StatusStub {
		t.Fatalf("unexpected statuses: %+v", statuses)
	}

	stubs, _ := fx.matches.ListStubs(t.Context(), 10)
	if len(stubs) != 1 || stubs[0].MatchKey != "EUW1_3" {
		t.Fatalf("expected only the failed key to stay pending, got %+v", stubs)
	}
	if got := len(fx.identities.Snapshot()); got != 1 {
		t.Fatalf("trashed participants must not create identities, got %d", got)
	}
}

func TestMatchIngestionService_FailingStubsDoNotStarveBacklog(t *testing.T) {
	t.Parallel()

	fx := newIngestionFixtureWithBatch(t, 2, "EUW1_1", "EUW1_2", "EUW1_3")
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx.provider.On("FetchMatch", mock.Anything, "EUW1_1").Return(ExternalMatch{}, ErrNotFound)
	fx.provider.On("FetchMatch", mock.Anything, "EUW1_2").Return(ExternalMatch{}, ErrNotFound)
	fx.provider.On("FetchMatch", mock.Anything, "EUW1_3").Return(sampleMatch("EUW1_3", ended, player("p1", "Alpha", "EUW", 100)), nil).Once()

	first, err := fx.service.DrainOnce(t.Context())
	if err != nil {
		t.Fatalf("first drain: %v", err)
	}
	if first.Requested != 2 || first.Pending != 2 {
		t.Fatalf("expected the two oldest stubs to stay pending, got %+v", first)
	}

	second, err := fx.service.DrainOnce(t.Context())
	if err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if second.Populated != 1 {
		t.Fatalf("expected the untried stub to be picked up on the next tick, got %+v", second)
	}

	statuses := map[string]string{}
	for _, m := range fx.matches.Snapshot() {
		statuses[m.MatchKey] = m.Status
	}
	if statuses["EUW1_3"] != lolmatch.StatusPopulated {
		t.Fatalf("expected EUW1_3 populated, got %+v", statuses)
	}
	if statuses["EUW1_1"] != lolmatch.StatusStub || statuses["EUW1_2"] != lolmatch.StatusStub {
		t.Fatalf("failing keys must stay stub, got %+v", statuses)
	}
}

func TestMatchIngestionService_CountsConflictRenames(t *testing.T) {
	t.Parallel()

	fx := newIngestionFixture(t, "EUW1_1")
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, err := fx.identities.Upsert(t.Context(), []identity.Observation{
		{PUUID: "p-old", GameName: "Alpha", TagLine: "EUW", Platform: "EUW1", ObservedAt: ended.Add(-24 * time.Hour)},
	}); err != nil {
		t.Fatalf("seed identity: %v", err)
	}
	fx.provider.On("FetchMatch", mock.Anything, "EUW1_1").Return(sampleMatch("EUW1_1", ended, player("p1", "Alpha", "EUW", 100)), nil).Once()
	fx.provider.On("FetchIdentity", mock.Anything, "EUW1", "p-old").Return(ExternalIdentity{PUUID: "p-old", GameName: "Retired", TagLine: "EUW"}, nil).Once()
	fx.provider.On("FetchIdentity", mock.Anything, "EUW1", "p1").Return(ExternalIdentity{PUUID: "p1", GameName: "Alpha", TagLine: "EUW"}, nil).Once()

	result, err := fx.service.DrainOnce(t.Context())
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if result.Populated != 1 || result.Renamed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, row := range fx.identities.Snapshot() {
		if row.PUUID == "p-old" && row.GameName != "Retired" {
			t.Fatalf("expected stale holder renamed, got %+v", row)
		}
		if row.PUUID == "p1" && row.GameName != "Alpha" {
			t.Fatalf("expected current holder kept, got %+v", row)
		}
	}
}

func TestMatchIngestionService_ComputesParticipantStats(t *testing.T) {
	t.Parallel()

	fx := newIngestionFixture(t, "EUW1_1")
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx.provider.On("FetchMatch", mock.Anything, "EUW1_1").Return(sampleMatch("EUW1_1", ended,
		player("p1", "Alpha", "EUW", 100),
		player("p2", "Bravo", "EUW", 200),
	), nil).Once()

	if _, err := fx.service.DrainOnce(t.Context()); err != nil {
		t.Fatalf("drain: %v", err)
	}

	ids, _ := fx.identities.FindByKeys(t.Context(), []string{"p1", "p2"})
	rows, err := fx.participants.ListByIdentity(t.Context(), ids["p1"].ID, participantFilterAll())
	if err != nil {
		t.Fatalf("list participant rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if !row.Won || row.KDA != 5 || row.KillParticipation != 0.5 || row.CSPerMinute != 6 {
		t.Fatalf("unexpected stats: won=%v kda=%v kp=%v cs=%v", row.Won, row.KDA, row.KillParticipation, row.CSPerMinute)
	}

	loser, _ := fx.participants.ListByIdentity(t.Context(), ids["p2"].ID, participantFilterAll())
	if len(loser) != 1 || loser[0].Won || loser[0].KillParticipation != 1 {
		t.Fatalf("unexpected losing row: %+v", loser)
	}
}
