package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
)

// ProviderPageCap is the largest page the match id listing accepts.
const ProviderPageCap = 100

// MatchIDSource pages through a player's match ids, most recent first.
type MatchIDSource struct {
	provider MatchProvider
	pageCap  int
	logger   *logging.Logger
}

func NewMatchIDSource(provider MatchProvider, logger *logging.Logger) *MatchIDSource {
	return &MatchIDSource{
		provider: provider,
		pageCap:  ProviderPageCap,
		logger:   logging.OrDefault(logger).Named("match_id_source"),
	}
}

// Collect returns up to limit distinct match keys. A failure on the first page
// is reported as ErrUpstreamUnavailable. A failure on a later page ends the
// walk and the keys gathered so far are returned.
func (s *MatchIDSource) Collect(ctx context.Context, platform, playerKey string, limit int) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchIDSource.Collect")
	defer span.End()

	playerKey = strings.TrimSpace(playerKey)
	if playerKey == "" {
		return nil, fmt.Errorf("%w: player key is required", ErrInvalidInput)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: max matches must be greater than zero", ErrInvalidInput)
	}

	window := min(limit, s.pageCap)
	seen := make(map[string]struct{}, limit)
	out := make([]string, 0, limit)

	for start, page := 0, 0; len(out) < limit; page++ {
		ids, err := s.provider.ListMatchIDs(ctx, platform, playerKey, start, window)
		if err != nil {
			if page == 0 {
				return nil, fmt.Errorf("%w: list match ids player=%s: %v", ErrUpstreamUnavailable, playerKey, err)
			}
			s.logger.WarnContext(ctx, "match id paging stopped early",
				"player_key", playerKey,
				"start", start,
				"collected", len(out),
				"error", err,
			)
			break
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
		start += len(ids)
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
