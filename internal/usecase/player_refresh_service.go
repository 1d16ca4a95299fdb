package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/platform/metrics"
)

const defaultMaxMatches = 100

type Kicker interface {
	Kick()
}

type PlayerRefreshConfig struct {
	MaxMatches int
}

type RefreshResult struct {
	PlayerKey  string `json:"player_key"`
	Platform   string `json:"platform"`
	Discovered int    `json:"discovered"`
	Known      int    `json:"known"`
	Inserted   int    `json:"inserted"`
}

// PlayerRefreshService discovers a player's recent matches and queues the
// unknown ones as stubs for the ingestion scheduler.
type PlayerRefreshService struct {
	source    *MatchIDSource
	matchRepo lolmatch.Repository
	kicker    Kicker
	cfg       PlayerRefreshConfig
	logger    *logging.Logger
	metrics   *metrics.Manager
}

func NewPlayerRefreshService(
	source *MatchIDSource,
	matchRepo lolmatch.Repository,
	kicker Kicker,
	cfg PlayerRefreshConfig,
	logger *logging.Logger,
	m *metrics.Manager,
) *PlayerRefreshService {
	if cfg.MaxMatches <= 0 {
		cfg.MaxMatches = defaultMaxMatches
	}
	return &PlayerRefreshService{
		source:    source,
		matchRepo: matchRepo,
		kicker:    kicker,
		cfg:       cfg,
		logger:    logging.OrDefault(logger).Named("player_refresh"),
		metrics:   m,
	}
}

// TriggerIngestion collects up to maxMatches ids, capped by the configured
// ceiling, stores the new ones as stubs and kicks the scheduler. A
// non-positive maxMatches uses the ceiling.
func (s *PlayerRefreshService) TriggerIngestion(ctx context.Context, playerKey, platform string, maxMatches int) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerRefreshService.TriggerIngestion")
	defer span.End()

	playerKey = strings.TrimSpace(playerKey)
	platform = lolmatch.NormalizePlatform(platform)
	if playerKey == "" {
		return RefreshResult{}, fmt.Errorf("%w: player key is required", ErrInvalidInput)
	}
	if !lolmatch.IsKnownPlatform(platform) {
		return RefreshResult{}, fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, platform)
	}
	if maxMatches <= 0 || maxMatches > s.cfg.MaxMatches {
		maxMatches = s.cfg.MaxMatches
	}

	result := RefreshResult{PlayerKey: playerKey, Platform: platform}
	keys, err := s.source.Collect(ctx, platform, playerKey, maxMatches)
	if err != nil {
		return result, err
	}
	result.Discovered = len(keys)

	known, err := s.matchRepo.ExistingKeys(ctx, keys)
	if err != nil {
		return result, fmt.Errorf("lookup known matches: %w", err)
	}
	fresh := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := known[key]; ok {
			continue
		}
		fresh = append(fresh, key)
	}
	result.Known = len(keys) - len(fresh)

	if len(fresh) > 0 {
		inserted, err := s.matchRepo.InsertStubs(ctx, fresh)
		if err != nil {
			return result, fmt.Errorf("insert stub matches: %w", err)
		}
		result.Inserted = inserted
		s.metrics.AddMatches("discovered", inserted)
	}

	if s.kicker != nil && result.Inserted > 0 {
		s.kicker.Kick()
	}

	s.logger.InfoContext(ctx, "player refresh queued",
		"player_key", playerKey,
		"platform", platform,
		"discovered", result.Discovered,
		"inserted", result.Inserted,
	)
	return result, nil
}
