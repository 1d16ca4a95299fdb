package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/domain/gamedata"
	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
)

const MatchesPerPage = 20

type MatchFilters struct {
	ChampionID int
	QueueID    int
	StartAt    *time.Time
	EndAt      *time.Time
}

type MatchView struct {
	participant.MatchRow
	QueueName    string
	ChampionName string
}

type MatchPage struct {
	Identity   identity.Identity
	Page       int
	PerPage    int
	TotalPages int
	Matches    []MatchView
	Summary    participant.Summary
}

// MatchQueryService serves a player's ingested matches. It only reads.
type MatchQueryService struct {
	identityRepo    identity.Repository
	participantRepo participant.Repository
	catalog         *gamedata.Catalog
}

func NewMatchQueryService(identityRepo identity.Repository, participantRepo participant.Repository, catalog *gamedata.Catalog) *MatchQueryService {
	return &MatchQueryService{
		identityRepo:    identityRepo,
		participantRepo: participantRepo,
		catalog:         catalog,
	}
}

func (s *MatchQueryService) GetMatchesForPlayer(ctx context.Context, identityID int64, page int, filters MatchFilters) (MatchPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.GetMatchesForPlayer")
	defer span.End()

	if identityID <= 0 {
		return MatchPage{}, fmt.Errorf("%w: identity id must be greater than zero", ErrInvalidInput)
	}
	if filters.StartAt != nil && filters.EndAt != nil && filters.EndAt.Before(*filters.StartAt) {
		return MatchPage{}, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	if page < 1 {
		page = 1
	}

	player, ok, err := s.identityRepo.GetByID(ctx, identityID)
	if err != nil {
		return MatchPage{}, fmt.Errorf("get identity: %w", err)
	}
	if !ok {
		return MatchPage{}, fmt.Errorf("%w: identity id=%d", ErrNotFound, identityID)
	}

	filter := participant.Filter{
		ChampionID: filters.ChampionID,
		QueueID:    filters.QueueID,
		StartAt:    filters.StartAt,
		EndAt:      filters.EndAt,
		Limit:      MatchesPerPage,
		Offset:     (page - 1) * MatchesPerPage,
	}
	summary, err := s.participantRepo.Summarize(ctx, identityID, filter)
	if err != nil {
		return MatchPage{}, fmt.Errorf("summarize matches: %w", err)
	}
	rows, err := s.participantRepo.ListByIdentity(ctx, identityID, filter)
	if err != nil {
		return MatchPage{}, fmt.Errorf("list matches: %w", err)
	}

	views := make([]MatchView, 0, len(rows))
	for _, row := range rows {
		views = append(views, MatchView{
			MatchRow:     row,
			QueueName:    s.catalog.QueueName(row.QueueID),
			ChampionName: s.catalog.ChampionName(row.ChampionID),
		})
	}

	return MatchPage{
		Identity:   player,
		Page:       page,
		PerPage:    MatchesPerPage,
		TotalPages: (summary.TotalMatches + MatchesPerPage - 1) / MatchesPerPage,
		Matches:    views,
		Summary:    summary,
	}, nil
}
