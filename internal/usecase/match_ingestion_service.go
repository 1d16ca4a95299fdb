package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/platform/metrics"
)

const defaultIngestionBatchSize = 100

type MatchIngestionConfig struct {
	BatchSize int
}

type BatchResult struct {
	Requested    int `json:"requested"`
	Fetched      int `json:"fetched"`
	Populated    int `json:"populated"`
	Trashed      int `json:"trashed"`
	Pending      int `json:"pending"`
	Participants int `json:"participants"`
	Renamed      int `json:"renamed"`
}

// MatchIngestionService turns stub matches into populated or trashed rows.
// Terminal statuses are written last, so an interrupted batch leaves its
// matches as stubs and the next batch picks them up again.
type MatchIngestionService struct {
	matchRepo       lolmatch.Repository
	participantRepo participant.Repository
	fetcher         *MatchFetcher
	classifier      *MatchClassifier
	reconciler      *IdentityReconciler
	conflicts       *IdentityConflictResolver
	cfg             MatchIngestionConfig
	logger          *logging.Logger
	metrics         *metrics.Manager
}

func NewMatchIngestionService(
	matchRepo lolmatch.Repository,
	participantRepo participant.Repository,
	fetcher *MatchFetcher,
	classifier *MatchClassifier,
	reconciler *IdentityReconciler,
	conflicts *IdentityConflictResolver,
	cfg MatchIngestionConfig,
	logger *logging.Logger,
	m *metrics.Manager,
) *MatchIngestionService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultIngestionBatchSize
	}
	return &MatchIngestionService{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		fetcher:         fetcher,
		classifier:      classifier,
		reconciler:      reconciler,
		conflicts:       conflicts,
		cfg:             cfg,
		logger:          logging.OrDefault(logger).Named("match_ingestion"),
		metrics:         m,
	}
}

// DrainOnce processes one bounded batch of stub matches.
func (s *MatchIngestionService) DrainOnce(ctx context.Context) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchIngestionService.DrainOnce")
	defer span.End()

	stubs, err := s.matchRepo.ListStubs(ctx, s.cfg.BatchSize)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list stub matches: %w", err)
	}
	return s.ProcessBatch(ctx, stubs)
}

func (s *MatchIngestionService) ProcessBatch(ctx context.Context, stubs []lolmatch.Match) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchIngestionService.ProcessBatch")
	defer span.End()

	result := BatchResult{Requested: len(stubs)}
	if len(stubs) == 0 {
		return result, nil
	}

	matchIDs := make(map[string]int64, len(stubs))
	keys := make([]string, 0, len(stubs))
	for _, stub := range stubs {
		if lolmatch.IsTerminal(stub.Status) {
			continue
		}
		matchIDs[stub.MatchKey] = stub.ID
		keys = append(keys, stub.MatchKey)
	}

	fetched := s.fetcher.Fetch(ctx, keys)
	result.Fetched = len(fetched)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	usable, trashed := s.classifier.Classify(fetched)

	identityIDs, err := s.reconciler.Reconcile(ctx, usable)
	if err != nil {
		return result, err
	}

	rows := make([]participant.Participant, 0, 10*len(usable))
	details := make([]lolmatch.Detail, 0, len(usable))
	for _, m := range usable {
		matchID, ok := matchIDs[m.MatchKey]
		if !ok {
			s.logger.WarnContext(ctx, "fetched match has no stub row", "match_key", m.MatchKey)
			continue
		}
		rows = append(rows, s.participantRows(ctx, matchID, m, identityIDs)...)
		details = append(details, detailOf(m))
	}

	written, err := s.participantRepo.InsertMany(ctx, rows)
	if err != nil {
		return result, fmt.Errorf("insert participants: %w", err)
	}
	result.Participants = written

	if err := s.matchRepo.Populate(ctx, details); err != nil {
		return result, fmt.Errorf("populate matches: %w", err)
	}
	result.Populated = len(details)

	if len(trashed) > 0 {
		trashedKeys := make([]string, 0, len(trashed))
		for _, m := range trashed {
			trashedKeys = append(trashedKeys, m.MatchKey)
		}
		if err := s.matchRepo.MarkTrashed(ctx, trashedKeys); err != nil {
			return result, fmt.Errorf("mark matches trashed: %w", err)
		}
		result.Trashed = len(trashedKeys)
		s.logger.InfoContext(ctx, "matches trashed", "match_keys", trashedKeys)
	}
	if err := s.touchPending(ctx, keys, details, trashed); err != nil {
		return result, err
	}
	result.Pending = len(keys) - result.Populated - result.Trashed

	if s.conflicts != nil && len(identityIDs) > 0 {
		puuids := make([]string, 0, len(identityIDs))
		for key := range identityIDs {
			puuids = append(puuids, key)
		}
		renamed, err := s.conflicts.Resolve(ctx, puuids)
		if err != nil {
			s.logger.WarnContext(ctx, "identity conflict resolution failed", "error", err)
		}
		result.Renamed = renamed
	}

	s.metrics.AddMatches("populated", result.Populated)
	s.metrics.AddMatches("trashed", result.Trashed)
	s.metrics.AddMatches("pending", result.Pending)
	return result, nil
}

// touchPending pushes keys that reached neither terminal status behind the
// rest of the backlog, so a run of failing stubs cannot starve newer ones.
func (s *MatchIngestionService) touchPending(ctx context.Context, keys []string, populated []lolmatch.Detail, trashed []ExternalMatch) error {
	done := make(map[string]struct{}, len(populated)+len(trashed))
	for _, d := range populated {
		done[d.MatchKey] = struct{}{}
	}
	for _, m := range trashed {
		done[m.MatchKey] = struct{}{}
	}

	pending := make([]string, 0, len(keys)-len(done))
	for _, key := range keys {
		if _, ok := done[key]; !ok {
			pending = append(pending, key)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	if err := s.matchRepo.TouchPending(ctx, pending); err != nil {
		return fmt.Errorf("touch pending matches: %w", err)
	}
	return nil
}

func (s *MatchIngestionService) participantRows(ctx context.Context, matchID int64, m ExternalMatch, identityIDs map[string]int64) []participant.Participant {
	winner, hasWinner := m.winningTeam()
	teamKills := m.teamKills()

	out := make([]participant.Participant, 0, len(m.Participants))
	for _, p := range m.Participants {
		if identity.IsBot(p.PUUID) {
			continue
		}
		identityID, ok := identityIDs[p.PUUID]
		if !ok {
			s.logger.WarnContext(ctx, "participant has no identity, skipping", "match_key", m.MatchKey, "puuid", p.PUUID)
			continue
		}
		out = append(out, participant.Participant{
			MatchID:                matchID,
			IdentityID:             identityID,
			ChampionID:             p.ChampionID,
			TeamID:                 p.TeamID,
			Won:                    hasWinner && p.TeamID == winner,
			ChampLevel:             p.ChampLevel,
			Kills:                  p.Kills,
			Deaths:                 p.Deaths,
			Assists:                p.Assists,
			DamageDealtToChampions: p.DamageDealtToChampions,
			DamageTaken:            p.DamageTaken,
			GoldEarned:             p.GoldEarned,
			WardsPlaced:            p.WardsPlaced,
			CS:                     p.TotalMinionsKilled,
			DoubleKills:            p.DoubleKills,
			TripleKills:            p.TripleKills,
			QuadraKills:            p.QuadraKills,
			PentaKills:             p.PentaKills,
			SummonerSpell1ID:       p.Summoner1ID,
			SummonerSpell2ID:       p.Summoner2ID,
			Items:                  p.Items,
			Perks:                  p.Perks,
			Stats: participant.ComputeStats(
				p.Kills, p.Deaths, p.Assists,
				teamKills[p.TeamID],
				p.TotalMinionsKilled,
				m.DurationSeconds,
			),
		})
	}
	return out
}

func detailOf(m ExternalMatch) lolmatch.Detail {
	return lolmatch.Detail{
		MatchKey:        m.MatchKey,
		QueueID:         m.QueueID,
		MapID:           m.MapID,
		GameMode:        m.GameMode,
		Version:         lolmatch.VersionMajorMinor(m.Version),
		DurationSeconds: m.DurationSeconds,
		StartedAt:       m.StartedAt,
		EndedAt:         m.EndedAt,
	}
}
