package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/rift-ledger/external/riot"
	"github.com/riskibarqy/rift-ledger/internal/config"
	"github.com/riskibarqy/rift-ledger/internal/domain/gamedata"
	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
	"github.com/riskibarqy/rift-ledger/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/rift-ledger/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/rift-ledger/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/rift-ledger/internal/interfaces/httpapi"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/platform/metrics"
	"github.com/riskibarqy/rift-ledger/internal/platform/resilience"
	"github.com/riskibarqy/rift-ledger/internal/usecase"
)

type repositories struct {
	matches      lolmatch.Repository
	identities   identity.Repository
	participants participant.Repository
	timelines    timeline.Repository
}

// App holds the wired services shared by the API server and the backfill
// command.
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	Metrics   *metrics.Manager
	Scheduler *usecase.IngestionScheduler
	Refresh   *usecase.PlayerRefreshService
	Timelines *usecase.TimelineService
	Matches   *usecase.MatchQueryService

	db *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	logger = logging.OrDefault(logger)

	catalog, err := gamedata.Load()
	if err != nil {
		return nil, fmt.Errorf("load game data catalog: %w", err)
	}
	catalog = catalog.WithTrashedModes(cfg.TrashedGameModes)

	var m *metrics.Manager
	if cfg.MetricsEnabled {
		m = metrics.NewManager(metrics.WithGoCollectors())
	}

	a := &App{Config: cfg, Logger: logger, Metrics: m}

	repos, err := a.openRepositories(ctx)
	if err != nil {
		return nil, err
	}

	provider := riot.NewClient(riot.ClientConfig{
		HTTPClient:        &http.Client{Timeout: cfg.RiotTimeout},
		BaseURLTemplate:   cfg.RiotBaseURLTemplate,
		APIKey:            cfg.RiotAPIKey,
		Timeout:           cfg.RiotTimeout,
		MaxRetries:        cfg.RiotMaxRetries,
		RatePerSecond:     cfg.RiotRatePerSecond,
		RatePerTwoMinutes: cfg.RiotRatePerTwoMinutes,
		Logger:            logger,
		Metrics:           m,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.RiotCircuitEnabled,
			FailureThreshold: cfg.RiotCircuitFailureCount,
			OpenTimeout:      cfg.RiotCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.RiotCircuitHalfOpenMaxReq,
		},
	})

	fetcher := usecase.NewMatchFetcher(provider, cfg.IngestionFetchConcurrency, logger, m)
	reconciler := usecase.NewIdentityReconciler(repos.identities, provider, usecase.IdentityReconcilerConfig{
		Concurrency:    cfg.IngestionIdentityConcurrency,
		NotFoundWindow: cfg.IdentityNotFoundWindow,
	}, logger, m)
	conflicts := usecase.NewIdentityConflictResolver(repos.identities, provider, logger)
	ingestion := usecase.NewMatchIngestionService(
		repos.matches,
		repos.participants,
		fetcher,
		usecase.NewMatchClassifier(catalog),
		reconciler,
		conflicts,
		usecase.MatchIngestionConfig{BatchSize: cfg.IngestionBatchSize},
		logger,
		m,
	)

	a.Scheduler = usecase.NewIngestionScheduler(ingestion, usecase.IngestionSchedulerConfig{
		TickInterval: cfg.IngestionTickInterval,
		TickTimeout:  cfg.IngestionTickTimeout,
	}, logger, m)
	a.Refresh = usecase.NewPlayerRefreshService(
		usecase.NewMatchIDSource(provider, logger),
		repos.matches,
		a.Scheduler,
		usecase.PlayerRefreshConfig{MaxMatches: cfg.MaxMatches},
		logger,
		m,
	)
	a.Timelines = usecase.NewTimelineService(
		repos.matches,
		repos.participants,
		repos.timelines,
		provider,
		usecase.TimelineServiceConfig{CacheTTL: cfg.TimelineCacheTTL},
		logger,
		m,
	)
	a.Matches = usecase.NewMatchQueryService(cache.NewIdentityRepository(repos.identities, cfg.IdentityCacheTTL), repos.participants, catalog)

	return a, nil
}

func (a *App) openRepositories(ctx context.Context) (repositories, error) {
	if a.Config.StorageDriver == config.StorageMemory {
		a.Logger.Warn("using in-memory storage, data is lost on restart")
		matches := memory.NewMatchRepository(nil)
		identities := memory.NewIdentityRepository(nil)
		return repositories{
			matches:      matches,
			identities:   identities,
			participants: memory.NewParticipantRepository(matches, identities),
			timelines:    memory.NewTimelineRepository(),
		}, nil
	}

	db, err := OpenDB(ctx, a.Config)
	if err != nil {
		return repositories{}, err
	}
	a.db = db
	return repositories{
		matches:      postgres.NewMatchRepository(db, a.Config.DBChunkSize),
		identities:   postgres.NewIdentityRepository(db, a.Config.DBChunkSize),
		participants: postgres.NewParticipantRepository(db, a.Config.DBChunkSize),
		timelines:    postgres.NewTimelineRepository(db),
	}, nil
}

// NewHTTPServer builds the API server over the wired services.
func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var pinger httpapi.Pinger
	if a.db != nil {
		pinger = a.db
	}
	handler := httpapi.NewHandler(a.Refresh, a.Scheduler, a.Timelines, a.Matches, pinger, a.Logger)

	var metricsHandler http.Handler
	if a.Metrics != nil {
		metricsHandler = a.Metrics.Handler()
	}
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
		InternalJobToken:   a.Config.InternalJobToken,
		MetricsHandler:     metricsHandler,
	}, a.Logger)

	return &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}

func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}
