package usecase

import (
	"context"
	"errors"

	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/platform/metrics"
	"github.com/sourcegraph/conc/iter"
)

const defaultFetchConcurrency = 8

// MatchFetcher downloads match records with bounded parallelism.
type MatchFetcher struct {
	provider    MatchProvider
	concurrency int
	logger      *logging.Logger
	metrics     *metrics.Manager
}

func NewMatchFetcher(provider MatchProvider, concurrency int, logger *logging.Logger, m *metrics.Manager) *MatchFetcher {
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}
	return &MatchFetcher{
		provider:    provider,
		concurrency: concurrency,
		logger:      logging.OrDefault(logger).Named("match_fetcher"),
		metrics:     m,
	}
}

type fetchOutcome struct {
	match ExternalMatch
	ok    bool
}

// Fetch returns the records that could be fetched, in the order of keys.
// Keys that fail are logged and left out; callers keep them pending.
func (f *MatchFetcher) Fetch(ctx context.Context, keys []string) []ExternalMatch {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFetcher.Fetch")
	defer span.End()

	if len(keys) == 0 {
		return nil
	}

	mapper := iter.Mapper[string, fetchOutcome]{MaxGoroutines: f.concurrency}
	outcomes := mapper.Map(keys, func(key *string) fetchOutcome {
		if ctx.Err() != nil {
			return fetchOutcome{}
		}
		match, err := f.provider.FetchMatch(ctx, *key)
		if err != nil {
			f.metrics.AddMatches("fetch_failed", 1)
			f.logger.WarnContext(ctx, "match fetch failed, keeping key pending",
				"match_key", *key,
				"not_found", errors.Is(err, ErrNotFound),
				"error", err,
			)
			return fetchOutcome{}
		}
		if match.MatchKey == "" {
			match.MatchKey = *key
		}
		return fetchOutcome{match: match, ok: true}
	})

	out := make([]ExternalMatch, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.ok {
			out = append(out, outcome.match)
		}
	}
	return out
}
