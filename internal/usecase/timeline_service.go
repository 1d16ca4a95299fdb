package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
	"github.com/riskibarqy/rift-ledger/internal/platform/cache"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/platform/metrics"
)

const defaultTimelineCacheTTL = 10 * time.Minute

type TimelineServiceConfig struct {
	CacheTTL time.Duration
}

// TimelineService returns a match's stored timelines, reconstructing them on
// first request. Concurrent requests for one match share a single load.
type TimelineService struct {
	matchRepo       lolmatch.Repository
	participantRepo participant.Repository
	timelineRepo    timeline.Repository
	provider        MatchProvider
	cache           *cache.Store[[]timeline.Entry]
	logger          *logging.Logger
	metrics         *metrics.Manager
}

func NewTimelineService(
	matchRepo lolmatch.Repository,
	participantRepo participant.Repository,
	timelineRepo timeline.Repository,
	provider MatchProvider,
	cfg TimelineServiceConfig,
	logger *logging.Logger,
	m *metrics.Manager,
) *TimelineService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultTimelineCacheTTL
	}
	return &TimelineService{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		timelineRepo:    timelineRepo,
		provider:        provider,
		cache:           cache.NewStore[[]timeline.Entry](cfg.CacheTTL),
		logger:          logging.OrDefault(logger).Named("timeline"),
		metrics:         m,
	}
}

func (s *TimelineService) EnsureTimeline(ctx context.Context, matchID int64) ([]timeline.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TimelineService.EnsureTimeline")
	defer span.End()

	if matchID <= 0 {
		return nil, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}
	return s.cache.GetOrLoad(ctx, strconv.FormatInt(matchID, 10), func(ctx context.Context) ([]timeline.Entry, error) {
		return s.load(ctx, matchID)
	})
}

func (s *TimelineService) load(ctx context.Context, matchID int64) ([]timeline.Entry, error) {
	stored, err := s.timelineRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list timelines by match: %w", err)
	}
	if len(stored) > 0 {
		s.metrics.IncTimelineBuild("stored")
		return stored, nil
	}

	match, ok, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if !ok || match.Status == lolmatch.StatusTrashed {
		return nil, fmt.Errorf("%w: match id=%d", ErrNotFound, matchID)
	}
	if match.Status != lolmatch.StatusPopulated {
		return nil, fmt.Errorf("%w: match id=%d is still being ingested", ErrUpstreamUnavailable, matchID)
	}

	raw, err := s.provider.FetchTimeline(ctx, match.MatchKey)
	if err != nil {
		s.metrics.IncTimelineBuild("upstream_error")
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: timeline for %s", ErrNotFound, match.MatchKey)
		}
		return nil, fmt.Errorf("%w: fetch timeline %s: %v", ErrUpstreamUnavailable, match.MatchKey, err)
	}

	identityIDs, err := s.participantRepo.ListPUUIDsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match participants: %w", err)
	}
	mapping := make(map[int]int64, len(raw.Participants))
	var bots []int
	for _, p := range raw.Participants {
		if identity.IsBot(p.PUUID) {
			bots = append(bots, p.ParticipantID)
			continue
		}
		if id, ok := identityIDs[p.PUUID]; ok {
			mapping[p.ParticipantID] = id
		}
	}

	entries, err := timeline.Reconstruct(matchID, mapping, bots, raw.Events)
	if err != nil {
		s.metrics.IncTimelineBuild("join_error")
		s.logger.ErrorContext(ctx, "timeline reconstruction abandoned",
			"match_id", matchID,
			"match_key", match.MatchKey,
			"error", err,
		)
		return nil, err
	}

	if _, err := s.timelineRepo.InsertMany(ctx, entries); err != nil {
		return nil, fmt.Errorf("insert timelines: %w", err)
	}
	s.metrics.IncTimelineBuild("built")
	return entries, nil
}
