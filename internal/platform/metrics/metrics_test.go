package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestManager_CountsAndExposes(t *testing.T) {
	m := NewManager()

	m.ObserveBatch("ok", 250*time.Millisecond, 40)
	m.AddMatches("populated", 38)
	m.AddMatches("trashed", 2)
	m.AddMatches("pending", 0)
	m.AddIdentityActions("insert", 12)
	m.IncTimelineBuild("built")
	m.ObserveUpstream("match", "ok", 80*time.Millisecond)
	m.SetBreakerOpen("riot", true)

	if got := testutil.ToFloat64(m.matchesByOutcome.WithLabelValues("populated")); got != 38 {
		t.Fatalf("populated=%v want 38", got)
	}
	if got := testutil.ToFloat64(m.matchesByOutcome.WithLabelValues("pending")); got != 0 {
		t.Fatalf("pending=%v want 0", got)
	}
	if got := testutil.ToFloat64(m.backlogSize); got != 40 {
		t.Fatalf("last batch size=%v want 40", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics handler, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"rift_ledger_ingestion_matches_total",
		"rift_ledger_upstream_circuit_open",
		"rift_ledger_timeline_builds_total",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in exposition", want)
		}
	}
}

func TestManager_NilIsNoop(t *testing.T) {
	var m *Manager
	m.ObserveBatch("ok", time.Second, 1)
	m.AddMatches("populated", 1)
	m.IncTimelineBuild("built")
	m.SetBreakerOpen("riot", false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil manager handler, got %d", rec.Code)
	}
}
