package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
)

type participantKey struct {
	matchID    int64
	identityID int64
}

type ParticipantRepository struct {
	mu         sync.RWMutex
	nextID     int64
	rows       map[participantKey]participant.Participant
	matches    *MatchRepository
	identities *IdentityRepository
}

func NewParticipantRepository(matches *MatchRepository, identities *IdentityRepository) *ParticipantRepository {
	return &ParticipantRepository{
		rows:       make(map[participantKey]participant.Participant),
		matches:    matches,
		identities: identities,
	}
}

func (r *ParticipantRepository) InsertMany(_ context.Context, rows []participant.Participant) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, row := range rows {
		key := participantKey{matchID: row.MatchID, identityID: row.IdentityID}
		if _, ok := r.rows[key]; ok {
			continue
		}
		r.nextID++
		row.ID = r.nextID
		r.rows[key] = row
		inserted++
	}
	return inserted, nil
}

func (r *ParticipantRepository) ListByIdentity(ctx context.Context, identityID int64, filter participant.Filter) ([]participant.MatchRow, error) {
	rows := r.filtered(ctx, identityID, filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(rows) {
			return []participant.MatchRow{}, nil
		}
		rows = rows[filter.Offset:]
	}
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

func (r *ParticipantRepository) Summarize(ctx context.Context, identityID int64, filter participant.Filter) (participant.Summary, error) {
	rows := r.filtered(ctx, identityID, filter)
	summary := participant.Summary{TotalMatches: len(rows)}
	if len(rows) == 0 {
		return summary, nil
	}

	var kills, deaths, assists, kda, kp float64
	for _, row := range rows {
		if row.Won {
			summary.TotalWins++
		}
		kills += float64(row.Kills)
		deaths += float64(row.Deaths)
		assists += float64(row.Assists)
		kda += row.KDA
		kp += row.KillParticipation
	}
	n := float64(len(rows))
	summary.AvgKills = round2(kills / n)
	summary.AvgDeaths = round2(deaths / n)
	summary.AvgAssists = round2(assists / n)
	summary.AvgKDA = round2(kda / n)
	summary.AvgKillParticipation = round2(kp / n)
	return summary, nil
}

func (r *ParticipantRepository) ListPUUIDsByMatch(ctx context.Context, matchID int64) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64)
	for key := range r.rows {
		if key.matchID != matchID {
			continue
		}
		row, ok, _ := r.identities.GetByID(ctx, key.identityID)
		if ok {
			out[row.PUUID] = row.ID
		}
	}
	return out, nil
}

// filtered returns populated match rows for the identity, most recent first.
func (r *ParticipantRepository) filtered(ctx context.Context, identityID int64, filter participant.Filter) []participant.MatchRow {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.MatchRow, 0)
	for key, row := range r.rows {
		if key.identityID != identityID {
			continue
		}
		m, ok, _ := r.matches.GetByID(ctx, key.matchID)
		if !ok || m.EndedAt == nil {
			continue
		}
		if filter.ChampionID > 0 && row.ChampionID != filter.ChampionID {
			continue
		}
		if filter.QueueID > 0 && m.QueueID != filter.QueueID {
			continue
		}
		if filter.StartAt != nil && m.EndedAt.Before(*filter.StartAt) {
			continue
		}
		if filter.EndAt != nil && m.EndedAt.After(*filter.EndAt) {
			continue
		}
		out = append(out, participant.MatchRow{
			Participant:     row,
			MatchKey:        m.MatchKey,
			Platform:        m.Platform,
			QueueID:         m.QueueID,
			GameMode:        m.GameMode,
			Version:         m.Version,
			DurationSeconds: m.DurationSeconds,
			EndedAt:         m.EndedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EndedAt.Equal(*out[j].EndedAt) {
			return out[i].EndedAt.After(*out[j].EndedAt)
		}
		return out[i].MatchID > out[j].MatchID
	})
	return out
}

// Len reports how many participant rows are stored.
func (r *ParticipantRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
