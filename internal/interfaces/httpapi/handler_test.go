package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	gotKey, gotPlatform string
	gotMax              int
	result              usecase.RefreshResult
	err                 error
}

func (f *fakeRefresher) TriggerIngestion(_ context.Context, playerKey, platform string, maxMatches int) (usecase.RefreshResult, error) {
	f.gotKey, f.gotPlatform, f.gotMax = playerKey, platform, maxMatches
	return f.result, f.err
}

type fakeRunner struct {
	calls  int
	result usecase.BatchResult
	err    error
}

func (f *fakeRunner) RunOnce(context.Context) (usecase.BatchResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeTimelines struct {
	entries []timeline.Entry
	err     error
}

func (f *fakeTimelines) EnsureTimeline(context.Context, int64) ([]timeline.Entry, error) {
	return f.entries, f.err
}

type fakeMatches struct {
	gotID      int64
	gotPage    int
	gotFilters usecase.MatchFilters
	page       usecase.MatchPage
	err        error
}

func (f *fakeMatches) GetMatchesForPlayer(_ context.Context, identityID int64, page int, filters usecase.MatchFilters) (usecase.MatchPage, error) {
	f.gotID, f.gotPage, f.gotFilters = identityID, page, filters
	return f.page, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type testDeps struct {
	refresher *fakeRefresher
	runner    *fakeRunner
	timelines *fakeTimelines
	matches   *fakeMatches
	pinger    fakePinger
}

func newTestRouter(t *testing.T, deps *testDeps) http.Handler {
	t.Helper()
	handler := NewHandler(deps.refresher, deps.runner, deps.timelines, deps.matches, deps.pinger, logging.NewNop())
	return NewRouter(handler, RouterConfig{
		CORSAllowedOrigins: []string{"*"},
		InternalJobToken:   "job-token",
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	}, logging.NewNop())
}

func newDeps() *testDeps {
	return &testDeps{
		refresher: &fakeRefresher{},
		runner:    &fakeRunner{},
		timelines: &fakeTimelines{},
		matches:   &fakeMatches{},
	}
}

func serve(router http.Handler, method, target, body string, internal bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if internal {
		req.Header.Set("X-Internal-Job-Token", "job-token")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestHealthz(t *testing.T) {
	deps := newDeps()
	rec := serve(newTestRouter(t, deps), http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	deps.pinger = fakePinger{err: errors.New("connection refused")}
	rec = serve(newTestRouter(t, deps), http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	rec := serve(newTestRouter(t, newDeps()), http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")
}

func TestRefreshPlayer(t *testing.T) {
	deps := newDeps()
	deps.refresher.result = usecase.RefreshResult{PlayerKey: "puuid-1", Platform: "EUW1", Discovered: 20, Inserted: 12}
	router := newTestRouter(t, deps)

	rec := serve(router, http.MethodPost, "/v1/internal/players/puuid-1/refresh", `{"platform":"euw1","max_matches":20}`, true)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, "puuid-1", deps.refresher.gotKey)
	assert.Equal(t, "euw1", deps.refresher.gotPlatform)
	assert.Equal(t, 20, deps.refresher.gotMax)
	assert.EqualValues(t, 12, decodeData(t, rec)["inserted"])
}

func TestRefreshPlayer_RejectsBadRequests(t *testing.T) {
	router := newTestRouter(t, newDeps())

	rec := serve(router, http.MethodPost, "/v1/internal/players/puuid-1/refresh", `{"platform":"EUW1"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodPost, "/v1/internal/players/puuid-1/refresh", `{"max_matches":5}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/v1/internal/players/puuid-1/refresh", `{"platform":"EUW1","extra":true}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/v1/internal/players/puuid-1/refresh", `{"platform":"EUW1","max_matches":5000}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshPlayer_UpstreamFailureIsStillProcessing(t *testing.T) {
	deps := newDeps()
	deps.refresher.err = fmt.Errorf("%w: list match ids: 503", usecase.ErrUpstreamUnavailable)

	rec := serve(newTestRouter(t, deps), http.MethodPost, "/v1/internal/players/puuid-1/refresh", `{"platform":"EUW1"}`, true)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "still processing")
}

func TestRunIngestJob(t *testing.T) {
	deps := newDeps()
	deps.runner.result = usecase.BatchResult{Requested: 3, Populated: 2, Trashed: 1}

	rec := serve(newTestRouter(t, deps), http.MethodPost, "/v1/internal/jobs/ingest", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, deps.runner.calls)
	data := decodeData(t, rec)
	assert.EqualValues(t, 2, data["populated"])
	assert.EqualValues(t, 1, data["trashed"])
}

func TestGetMatchTimeline(t *testing.T) {
	deps := newDeps()
	deps.timelines.entries = []timeline.Entry{
		{MatchID: 9, IdentityID: 4, Items: []timeline.Bucket{{Minute: 0, Items: []timeline.ItemEvent{{TimestampMs: 1500, ItemID: 1055, Action: timeline.ActionPurchased}}}}, Skills: []int{1, 3}},
		{MatchID: 9, IdentityID: 5},
	}
	router := newTestRouter(t, deps)

	rec := serve(router, http.MethodGet, "/v1/matches/9/timeline", "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	participants, _ := data["participants"].([]any)
	require.Len(t, participants, 2)
	second := participants[1].(map[string]any)
	assert.Equal(t, []any{}, second["skills"])
	assert.Equal(t, []any{}, second["items"])

	rec = serve(router, http.MethodGet, "/v1/matches/abc/timeline", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	deps.timelines.err = fmt.Errorf("%w: match id=9", usecase.ErrNotFound)
	rec = serve(router, http.MethodGet, "/v1/matches/9/timeline", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListIdentityMatches(t *testing.T) {
	deps := newDeps()
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := participant.MatchRow{MatchKey: "EUW1_1", Platform: "EUW1", QueueID: 420, EndedAt: &ended}
	row.MatchID = 11
	row.ChampionID = 103
	row.Kills, row.Deaths, row.Assists = 7, 2, 9
	row.KDA = 8
	deps.matches.page = usecase.MatchPage{
		Identity:   identity.Identity{ID: 4, PUUID: "puuid-4", GameName: "Faker", TagLine: "KR1"},
		Page:       2,
		PerPage:    usecase.MatchesPerPage,
		TotalPages: 3,
		Matches:    []usecase.MatchView{{MatchRow: row, QueueName: "Ranked Solo/Duo", ChampionName: "Ahri"}},
		Summary:    participant.Summary{TotalMatches: 41, TotalWins: 22, AvgKDA: 3.5},
	}

	rec := serve(newTestRouter(t, deps), http.MethodGet,
		"/v1/identities/4/matches?page=2&champion_id=103&queue_id=420&start_date=2026-03-01&end_date=2026-03-02", "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.EqualValues(t, 4, deps.matches.gotID)
	assert.Equal(t, 2, deps.matches.gotPage)
	assert.Equal(t, 103, deps.matches.gotFilters.ChampionID)
	assert.Equal(t, 420, deps.matches.gotFilters.QueueID)
	require.NotNil(t, deps.matches.gotFilters.StartAt)
	require.NotNil(t, deps.matches.gotFilters.EndAt)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *deps.matches.gotFilters.StartAt)
	assert.Equal(t, time.Date(2026, 3, 2, 23, 59, 59, 999999999, time.UTC), *deps.matches.gotFilters.EndAt)

	data := decodeData(t, rec)
	assert.EqualValues(t, 3, data["total_pages"])
	matches, _ := data["matches"].([]any)
	require.Len(t, matches, 1)
	first := matches[0].(map[string]any)
	assert.Equal(t, "Ahri", first["champion_name"])
	assert.Equal(t, "Ranked Solo/Duo", first["queue_name"])
	summary := data["summary"].(map[string]any)
	assert.EqualValues(t, 41, summary["total_matches"])
}

func TestListIdentityMatches_InvalidQuery(t *testing.T) {
	router := newTestRouter(t, newDeps())
	for _, target := range []string{
		"/v1/identities/0/matches",
		"/v1/identities/4/matches?page=0",
		"/v1/identities/4/matches?champion_id=x",
		"/v1/identities/4/matches?start_date=03-01-2026",
		"/v1/identities/4/matches?queue_id=-1",
	} {
		rec := serve(router, http.MethodGet, target, "", false)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestRecoverPanic(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/1/timeline", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
