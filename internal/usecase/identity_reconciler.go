package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/platform/metrics"
)

const defaultIdentityConcurrency = 4

type IdentityReconcilerConfig struct {
	Concurrency    int
	NotFoundWindow time.Duration
}

// IdentityReconciler resolves every participant of a batch to an identity
// row, creating or refreshing rows as needed.
type IdentityReconciler struct {
	identityRepo identity.Repository
	provider     MatchProvider
	cfg          IdentityReconcilerConfig
	notFound     *refetchFilter
	logger       *logging.Logger
	metrics      *metrics.Manager
}

func NewIdentityReconciler(
	identityRepo identity.Repository,
	provider MatchProvider,
	cfg IdentityReconcilerConfig,
	logger *logging.Logger,
	m *metrics.Manager,
) *IdentityReconciler {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultIdentityConcurrency
	}
	return &IdentityReconciler{
		identityRepo: identityRepo,
		provider:     provider,
		cfg:          cfg,
		notFound:     newRefetchFilter(cfg.NotFoundWindow, time.Now),
		logger:       logging.OrDefault(logger).Named("identity_reconciler"),
		metrics:      m,
	}
}

// IdentityPlan is the write plan computed for one batch.
type IdentityPlan struct {
	Inserts []identity.Observation
	Updates []identity.Observation
	Refetch []identity.Observation
	Known   map[string]int64
}

// Candidates merges the participants of all matches by external key. Later
// matches in the slice win. Bots are skipped.
func Candidates(matches []ExternalMatch) []identity.Observation {
	byKey := make(map[string]int, 16*len(matches))
	out := make([]identity.Observation, 0, 10*len(matches))
	for _, m := range matches {
		platform := m.Platform
		if platform == "" {
			platform = lolmatch.PlatformFromKey(m.MatchKey)
		}
		for _, p := range m.Participants {
			key := strings.TrimSpace(p.PUUID)
			if key == "" || identity.IsBot(key) {
				continue
			}
			obs := identity.Observation{
				PUUID:        key,
				GameName:     strings.TrimSpace(p.GameName),
				TagLine:      strings.TrimSpace(p.TagLine),
				Platform:     platform,
				AccountLevel: p.SummonerLevel,
				IconID:       p.ProfileIconID,
				ObservedAt:   m.EndedAt,
			}
			if idx, ok := byKey[key]; ok {
				out[idx] = obs
				continue
			}
			byKey[key] = len(out)
			out = append(out, obs)
		}
	}
	return out
}

// Plan decides, per candidate, between insert, update, re-fetch or no write.
func Plan(candidates []identity.Observation, stored map[string]identity.Stored) IdentityPlan {
	plan := IdentityPlan{Known: make(map[string]int64, len(candidates))}
	for _, c := range candidates {
		existing, ok := stored[c.PUUID]
		if !ok {
			plan.Inserts = append(plan.Inserts, c)
			continue
		}
		plan.Known[c.PUUID] = existing.ID
		if !c.NewerThan(existing) {
			continue
		}
		if !c.HasDisplayName() {
			plan.Refetch = append(plan.Refetch, c)
			continue
		}
		plan.Updates = append(plan.Updates, c)
	}
	return plan
}

// Reconcile returns external key to identity id for every participant it
// could resolve. Store errors abort the call; lookup failures do not.
func (r *IdentityReconciler) Reconcile(ctx context.Context, matches []ExternalMatch) (map[string]int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityReconciler.Reconcile")
	defer span.End()

	candidates := Candidates(matches)
	if len(candidates) == 0 {
		return map[string]int64{}, nil
	}

	keys := make([]string, 0, len(candidates))
	for _, c := range candidates {
		keys = append(keys, c.PUUID)
	}
	stored, err := r.identityRepo.FindByKeys(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("find identities by key: %w", err)
	}

	plan := Plan(candidates, stored)
	refetched := r.refetch(ctx, plan.Refetch)
	inserts := append(plan.Inserts, refetched...)

	ids := plan.Known
	if len(inserts) > 0 {
		inserted, err := r.identityRepo.Upsert(ctx, inserts)
		if err != nil {
			return nil, fmt.Errorf("upsert identities: %w", err)
		}
		for key, id := range inserted {
			ids[key] = id
		}
	}
	if len(plan.Updates) > 0 {
		if _, err := r.identityRepo.UpdateNewer(ctx, plan.Updates); err != nil {
			return nil, fmt.Errorf("update identities: %w", err)
		}
	}

	r.metrics.AddIdentityActions("insert", len(plan.Inserts))
	r.metrics.AddIdentityActions("update", len(plan.Updates))
	r.metrics.AddIdentityActions("refetch", len(plan.Refetch))
	r.metrics.AddIdentityActions("refetched", len(refetched))

	r.logger.DebugContext(ctx, "identities reconciled",
		"candidates", len(candidates),
		"inserted", len(plan.Inserts),
		"updated", len(plan.Updates),
		"refetch_queued", len(plan.Refetch),
		"refetched", len(refetched),
	)
	return ids, nil
}

// refetch looks up the Riot id of candidates whose match payload had none.
// Only lookups that return both halves of the Riot id are kept.
func (r *IdentityReconciler) refetch(ctx context.Context, queued []identity.Observation) []identity.Observation {
	if len(queued) == 0 {
		return nil
	}

	pool, err := ants.NewPool(r.cfg.Concurrency)
	if err != nil {
		r.logger.ErrorContext(ctx, "create identity lookup pool failed", "error", err)
		return nil
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		out     = make([]identity.Observation, 0, len(queued))
		workers sync.WaitGroup
	)
	for _, candidate := range queued {
		if r.notFound.Contains(candidate.PUUID) {
			continue
		}
		candidate := candidate
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			resolved, ok := r.lookup(ctx, candidate)
			if !ok {
				return
			}
			mu.Lock()
			out = append(out, resolved)
			mu.Unlock()
		}); err != nil {
			workers.Done()
			r.logger.WarnContext(ctx, "submit identity lookup failed", "puuid", candidate.PUUID, "error", err)
		}
	}
	workers.Wait()
	return out
}

func (r *IdentityReconciler) lookup(ctx context.Context, candidate identity.Observation) (identity.Observation, bool) {
	account, err := r.provider.FetchIdentity(ctx, candidate.Platform, candidate.PUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.notFound.Add(candidate.PUUID)
		}
		r.logger.WarnContext(ctx, "identity lookup failed, skipping this cycle", "puuid", candidate.PUUID, "error", err)
		return identity.Observation{}, false
	}

	candidate.GameName = strings.TrimSpace(account.GameName)
	candidate.TagLine = strings.TrimSpace(account.TagLine)
	if !candidate.HasDisplayName() {
		r.logger.WarnContext(ctx, "identity lookup returned no riot id", "puuid", candidate.PUUID)
		return identity.Observation{}, false
	}
	return candidate, true
}
