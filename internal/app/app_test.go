package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/config"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                config.EnvDev,
		StorageDriver:         config.StorageMemory,
		HTTPAddr:              ":0",
		ReadTimeout:           time.Second,
		WriteTimeout:          time.Second,
		CORSAllowedOrigins:    []string{"*"},
		RiotBaseURLTemplate:   "http://127.0.0.1:1/{route}",
		RiotTimeout:           time.Second,
		RiotRatePerSecond:     15,
		RiotRatePerTwoMinutes: 90,
		MaxMatches:            20,
		IngestionBatchSize:    10,
		TrashedGameModes:      []string{"STRAWBERRY"},
		MetricsEnabled:        true,
	}
}

func TestNew_MemoryStorageServesSystemRoutes(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	srv, err := a.NewHTTPServer()
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "rift_ledger_") {
		t.Fatalf("metrics status=%d", rec.Code)
	}
}

func TestNew_EmptyStoreIsIdle(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	result, err := a.Scheduler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if result.Requested != 0 {
		t.Fatalf("expected idle tick, got %+v", result)
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if _, err := a.NewHTTPServer(); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
