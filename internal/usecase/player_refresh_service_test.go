package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/infrastructure/repository/memory"
	lolmatchmock "github.com/riskibarqy/rift-ledger/internal/mocks/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type kickCounter struct {
	kicks int
}

func (k *kickCounter) Kick() { k.kicks++ }

func TestPlayerRefreshService_InsertsOnlyUnknownKeys(t *testing.T) {
	t.Parallel()

	matches := memory.NewMatchRepository([]lolmatch.Match{
		{ID: 1, MatchKey: "EUW1_2", Platform: "EUW1", Status: lolmatch.StatusPopulated},
	})
	provider := newProviderMock(t)
	provider.On("ListMatchIDs", mock.Anything, "EUW1", "p1", 0, 3).Return([]string{"EUW1_3", "EUW1_2", "EUW1_1"}, nil).Once()

	kicker := &kickCounter{}
	service := NewPlayerRefreshService(
		NewMatchIDSource(provider, logging.NewNop()),
		matches,
		kicker,
		PlayerRefreshConfig{MaxMatches: 3},
		logging.NewNop(),
		nil,
	)

	result, err := service.TriggerIngestion(t.Context(), "p1", "euw1", 50)
	if err != nil {
		t.Fatalf("trigger ingestion: %v", err)
	}
	if result.Discovered != 3 || result.Known != 1 || result.Inserted != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if kicker.kicks != 1 {
		t.Fatalf("expected one kick, got %d", kicker.kicks)
	}

	stubs, _ := matches.ListStubs(t.Context(), 10)
	if len(stubs) != 2 {
		t.Fatalf("expected two stubs, got %+v", stubs)
	}
	for _, stub := range stubs {
		if stub.Platform != "EUW1" {
			t.Fatalf("stub platform not derived from key: %+v", stub)
		}
	}
}

func TestPlayerRefreshService_RejectsUnknownPlatform(t *testing.T) {
	t.Parallel()

	service := NewPlayerRefreshService(
		NewMatchIDSource(newProviderMock(t), logging.NewNop()),
		memory.NewMatchRepository(nil),
		nil,
		PlayerRefreshConfig{},
		logging.NewNop(),
		nil,
	)
	if _, err := service.TriggerIngestion(t.Context(), "p1", "MOON1", 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlayerRefreshService_UpstreamFailure(t *testing.T) {
	t.Parallel()

	provider := newProviderMock(t)
	provider.On("ListMatchIDs", mock.Anything, "KR", "p1", 0, 100).Return(nil, errors.New("429")).Once()

	kicker := &kickCounter{}
	service := NewPlayerRefreshService(
		NewMatchIDSource(provider, logging.NewNop()),
		memory.NewMatchRepository(nil),
		kicker,
		PlayerRefreshConfig{},
		logging.NewNop(),
		nil,
	)
	if _, err := service.TriggerIngestion(t.Context(), "p1", "KR", 0); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if kicker.kicks != 0 {
		t.Fatalf("failed refresh must not kick the scheduler")
	}
}

func TestPlayerRefreshService_StoreErrorsDoNotKick(t *testing.T) {
	t.Parallel()

	provider := newProviderMock(t)
	provider.On("ListMatchIDs", mock.Anything, "NA1", "p1", 0, 2).Return([]string{"NA1_2", "NA1_1"}, nil).Once()

	repo := lolmatchmock.NewRepository(t)
	repo.On("ExistingKeys", mock.Anything, []string{"NA1_2", "NA1_1"}).Return(map[string]struct{}{"NA1_1": {}}, nil).Once()
	repo.On("InsertStubs", mock.Anything, []string{"NA1_2"}).Return(0, errors.New("connection reset")).Once()

	kicker := &kickCounter{}
	service := NewPlayerRefreshService(
		NewMatchIDSource(provider, logging.NewNop()),
		repo,
		kicker,
		PlayerRefreshConfig{MaxMatches: 2},
		logging.NewNop(),
		nil,
	)

	result, err := service.TriggerIngestion(t.Context(), "p1", "NA1", 0)
	if err == nil {
		t.Fatalf("expected store error to propagate")
	}
	if result.Known != 1 || result.Inserted != 0 {
		t.Fatalf("unexpected partial result: %+v", result)
	}
	if kicker.kicks != 0 {
		t.Fatalf("expected no kick after a failed insert, got %d", kicker.kicks)
	}
}
