package riot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/platform/resilience"
	"github.com/riskibarqy/rift-ledger/internal/usecase"
)

const matchPayload = `{
  "metadata": {"matchId": "EUW1_7001", "participants": ["p1", "p2"]},
  "info": {
    "gameDuration": 1865,
    "gameStartTimestamp": 1767261600000,
    "gameEndTimestamp": 1767263465000,
    "gameId": 7001,
    "gameMode": "CLASSIC",
    "gameVersion": "14.3.567.1234",
    "mapId": 11,
    "platformId": "EUW1",
    "queueId": 420,
    "teams": [
      {"teamId": 100, "win": true, "objectives": {"champion": {"first": true, "kills": 31}}},
      {"teamId": 200, "win": false, "objectives": {"champion": {"first": false, "kills": 18}}}
    ],
    "participants": [
      {
        "puuid": "p1", "riotIdGameName": "Alpha", "riotIdTagline": "EUW",
        "summonerLevel": 312, "profileIcon": 29, "championId": 103, "teamId": 100,
        "champLevel": 17, "kills": 9, "deaths": 2, "assists": 11,
        "totalDamageDealtToChampions": 31000, "totalDamageTaken": 14000,
        "goldEarned": 14200, "wardsPlaced": 12, "totalMinionsKilled": 201,
        "doubleKills": 2, "tripleKills": 1, "summoner1Id": 4, "summoner2Id": 14,
        "item0": 6655, "item1": 3020, "item6": 3340,
        "perks": {
          "statPerks": {"defense": 5001, "flex": 5008, "offense": 5005},
          "styles": [
            {"description": "primaryStyle", "style": 8100, "selections": [{"perk": 8112}, {"perk": 8139}, {"perk": 8138}, {"perk": 8135}]},
            {"description": "subStyle", "style": 8200, "selections": [{"perk": 8226}, {"perk": 8210}]}
          ]
        }
      },
      {"puuid": "BOT", "championId": 1, "teamId": 200}
    ]
  }
}`

const timelinePayload = `{
  "metadata": {"matchId": "EUW1_7001", "participants": ["p1", "p2"]},
  "info": {
    "frameInterval": 60000,
    "participants": [{"participantId": 1, "puuid": "p1"}, {"participantId": 2, "puuid": "p2"}],
    "frames": [
      {"timestamp": 0, "events": [{"type": "ITEM_PURCHASED", "timestamp": 1500, "participantId": 1, "itemId": 1055}]},
      {"timestamp": 60000, "events": [
        {"type": "SKILL_LEVEL_UP", "timestamp": 61000, "participantId": 1, "skillSlot": 1},
        {"type": "ITEM_UNDO", "timestamp": 62000, "participantId": 2, "beforeId": 1056, "afterId": 0}
      ]}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg ClientConfig) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURLTemplate = server.URL + "/{route}"
	cfg.APIKey = "test-key"
	cfg.RetryBackoff = time.Millisecond
	cfg.Logger = logging.NewNop()
	return NewClient(cfg)
}

func TestClientFetchMatch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/europe/lol/match/v5/matches/EUW1_7001" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Riot-Token") != "test-key" {
			t.Errorf("missing api key header")
		}
		_, _ = w.Write([]byte(matchPayload))
	}, ClientConfig{})

	got, err := client.FetchMatch(context.Background(), "EUW1_7001")
	if err != nil {
		t.Fatalf("fetch match: %v", err)
	}
	if got.MatchKey != "EUW1_7001" || got.Platform != "EUW1" || got.QueueID != 420 || got.DurationSeconds != 1865 {
		t.Fatalf("unexpected header fields: %+v", got)
	}
	if !got.EndedAt.Equal(time.UnixMilli(1767263465000)) {
		t.Fatalf("unexpected ended at: %v", got.EndedAt)
	}
	if len(got.Teams) != 2 || got.Teams[0].ChampionKills != 31 || !got.Teams[0].Win {
		t.Fatalf("unexpected teams: %+v", got.Teams)
	}

	p := got.Participants[0]
	if p.GameName != "Alpha" || p.TagLine != "EUW" || p.TotalMinionsKilled != 201 || p.Items[6] != 3340 {
		t.Fatalf("unexpected participant: %+v", p)
	}
	if p.Perks.PrimaryStyleID != 8100 || p.Perks.PrimarySelection3ID != 8135 || p.Perks.SubSelection2ID != 8210 || p.Perks.OffenseID != 5005 {
		t.Fatalf("unexpected perks: %+v", p.Perks)
	}
	if got.Participants[1].PUUID != "BOT" {
		t.Fatalf("expected bot participant to be passed through")
	}
}

func TestClientFetchTimelineFlattensFrames(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(timelinePayload))
	}, ClientConfig{})

	got, err := client.FetchTimeline(context.Background(), "EUW1_7001")
	if err != nil {
		t.Fatalf("fetch timeline: %v", err)
	}
	if len(got.Participants) != 2 || got.Participants[1].PUUID != "p2" {
		t.Fatalf("unexpected participants: %+v", got.Participants)
	}
	if len(got.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got.Events))
	}
	if got.Events[1].Type != timeline.EventSkillLevelUp || got.Events[1].SkillSlot != 1 {
		t.Fatalf("unexpected skill event: %+v", got.Events[1])
	}
	if got.Events[2].Type != timeline.EventItemUndo || got.Events[2].BeforeID != 1056 {
		t.Fatalf("unexpected undo event: %+v", got.Events[2])
	}
}

func TestClientRoutesByPlatform(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		paths []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		mu.Unlock()
		switch {
		case r.URL.Path == "/asia/riot/account/v1/accounts/by-puuid/p1":
			_, _ = w.Write([]byte(`{"puuid":"p1","gameName":"Zed","tagLine":"SG2"}`))
		default:
			_, _ = w.Write([]byte(`["SG2_1","SG2_2"]`))
		}
	}, ClientConfig{})

	ids, err := client.ListMatchIDs(context.Background(), "sg2", "p1", 100, 50)
	if err != nil {
		t.Fatalf("list match ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("unexpected ids: %v", ids)
	}
	account, err := client.FetchIdentity(context.Background(), "SG2", "p1")
	if err != nil {
		t.Fatalf("fetch identity: %v", err)
	}
	if account.GameName != "Zed" || account.TagLine != "SG2" {
		t.Fatalf("unexpected account: %+v", account)
	}

	mu.Lock()
	defer mu.Unlock()
	if paths[0] != "/sea/lol/match/v5/matches/by-puuid/p1/ids?count=50&start=100" {
		t.Fatalf("unexpected match ids path: %s", paths[0])
	}

	if _, err := client.ListMatchIDs(context.Background(), "XX9", "p1", 0, 10); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown platform, got %v", err)
	}
}

func TestClientRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte(`{"puuid":"p1","gameName":"Alpha","tagLine":"EUW"}`))
		}
	}, ClientConfig{MaxRetries: 2})

	got, err := client.FetchIdentity(context.Background(), "EUW1", "p1")
	if err != nil {
		t.Fatalf("fetch identity: %v", err)
	}
	if got.GameName != "Alpha" || calls.Load() != 3 {
		t.Fatalf("expected success on third attempt, got %+v after %d calls", got, calls.Load())
	}
}

func TestClientNotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, ClientConfig{MaxRetries: 3})

	_, err := client.FetchMatch(context.Background(), "EUW1_404")
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single request, got %d", calls.Load())
	}
}

func TestClientCircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, ClientConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for range 2 {
		if _, err := client.FetchMatch(context.Background(), "EUW1_1"); !errors.Is(err, usecase.ErrUpstreamUnavailable) {
			t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
		}
	}
	if _, err := client.FetchMatch(context.Background(), "EUW1_1"); !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable from open circuit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected open circuit to short-circuit the third call, got %d requests", calls.Load())
	}
}

func TestClientCancelledCallerDoesNotFailSharedRequest(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	arrived := make(chan struct{})
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(arrived)
		}
		<-release
		if r.Context().Err() != nil {
			t.Errorf("shared request was cancelled: %v", r.Context().Err())
			return
		}
		_, _ = w.Write([]byte(matchPayload))
	}, ClientConfig{})

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := client.FetchMatch(leaderCtx, "EUW1_7001")
		leaderErr <- err
	}()
	<-arrived

	type fetchResult struct {
		matchKey string
		err      error
	}
	followerDone := make(chan fetchResult, 1)
	go func() {
		got, err := client.FetchMatch(context.Background(), "EUW1_7001")
		followerDone <- fetchResult{matchKey: got.MatchKey, err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelLeader()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected leader to return context.Canceled, got %v", err)
	}

	close(release)
	res := <-followerDone
	if res.err != nil {
		t.Fatalf("follower fetch: %v", res.err)
	}
	if res.matchKey != "EUW1_7001" {
		t.Fatalf("unexpected match key %q", res.matchKey)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream request, got %d", calls.Load())
	}
}
