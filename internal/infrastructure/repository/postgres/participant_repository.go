package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
	qb "github.com/riskibarqy/rift-ledger/internal/platform/querybuilder"
)

var participantMatchColumns = []string{
	"m.match_key",
	"m.platform",
	"m.queue_id",
	"COALESCE(m.game_mode, '') AS game_mode",
	"COALESCE(m.version, '') AS version",
	"m.duration_seconds",
	"m.ended_at",
}

const participantSummaryColumns = `COUNT(*) AS total_matches,
    COALESCE(SUM(CASE WHEN p.won THEN 1 ELSE 0 END), 0) AS total_wins,
    COALESCE(ROUND(AVG(p.kills)::numeric, 2), 0) AS avg_kills,
    COALESCE(ROUND(AVG(p.deaths)::numeric, 2), 0) AS avg_deaths,
    COALESCE(ROUND(AVG(p.assists)::numeric, 2), 0) AS avg_assists,
    COALESCE(ROUND(AVG(p.kda)::numeric, 2), 0) AS avg_kda,
    COALESCE(ROUND(AVG(p.kill_participation)::numeric, 2), 0) AS avg_kill_participation`

type ParticipantRepository struct {
	db        *sqlx.DB
	chunkSize int
}

func NewParticipantRepository(db *sqlx.DB, chunkSize int) *ParticipantRepository {
	return &ParticipantRepository{db: db, chunkSize: chunkSizeOr(chunkSize)}
}

func (r *ParticipantRepository) InsertMany(ctx context.Context, rows []participant.Participant) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	inserted := 0
	err := withTx(ctx, r.db, "insert participants", func(tx *sqlx.Tx) error {
		for _, part := range chunks(rows, r.chunkSize) {
			query, args, err := participantInsertSQL(part)
			if err != nil {
				return fmt.Errorf("build insert participants query: %w", err)
			}
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("insert participants: %w", err)
			}
			inserted += rowsAffected(res)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *ParticipantRepository) ListByIdentity(ctx context.Context, identityID int64, filter participant.Filter) ([]participant.MatchRow, error) {
	columns := append(qb.ColumnsOf(participantTableModel{}, "p"), participantMatchColumns...)
	query, args, err := participantFilterQuery(qb.Select(columns...), identityID, filter).
		OrderBy("m.ended_at DESC", "m.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select participant matches query: %w", err)
	}

	var rows []participantMatchRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select participant matches identity=%d: %w", identityID, err)
	}

	out := make([]participant.MatchRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, participant.MatchRow{
			Participant:     participantFromRow(row.participantTableModel),
			MatchKey:        row.MatchKey,
			Platform:        row.Platform,
			QueueID:         int(row.QueueID.Int64),
			GameMode:        row.GameMode,
			Version:         row.Version,
			DurationSeconds: int(row.DurationSeconds.Int64),
			EndedAt:         nullTimeToPtr(row.EndedAt),
		})
	}
	return out, nil
}

func (r *ParticipantRepository) Summarize(ctx context.Context, identityID int64, filter participant.Filter) (participant.Summary, error) {
	query, args, err := participantFilterQuery(qb.Select(participantSummaryColumns), identityID, filter).ToSQL()
	if err != nil {
		return participant.Summary{}, fmt.Errorf("build summarize participant matches query: %w", err)
	}

	var row participantSummaryModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return participant.Summary{}, fmt.Errorf("summarize participant matches identity=%d: %w", identityID, err)
	}
	return participant.Summary(row), nil
}

func (r *ParticipantRepository) ListPUUIDsByMatch(ctx context.Context, matchID int64) (map[string]int64, error) {
	query, args, err := qb.Select("p.identity_id", "i.puuid").From("participants p").
		Join("JOIN identities i ON i.id = p.identity_id").
		Where(qb.Eq("p.match_id", matchID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match participants query: %w", err)
	}

	var rows []participantKeyModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match participants match=%d: %w", matchID, err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.PUUID] = row.IdentityID
	}
	return out, nil
}

func participantFilterQuery(b *qb.SelectBuilder, identityID int64, filter participant.Filter) *qb.SelectBuilder {
	b.From("participants p").
		Join("JOIN matches m ON m.id = p.match_id").
		Where(
			qb.Eq("p.identity_id", identityID),
			qb.Eq("m.status", lolmatch.StatusPopulated),
		)
	if filter.ChampionID > 0 {
		b.Where(qb.Eq("p.champion_id", filter.ChampionID))
	}
	if filter.QueueID > 0 {
		b.Where(qb.Eq("m.queue_id", filter.QueueID))
	}
	if filter.StartAt != nil {
		b.Where(qb.Gte("m.ended_at", filter.StartAt.UTC()))
	}
	if filter.EndAt != nil {
		b.Where(qb.Lte("m.ended_at", filter.EndAt.UTC()))
	}
	return b
}

func participantInsertSQL(rows []participant.Participant) (string, []any, error) {
	ints := func(pick func(p participant.Participant) int) []int64 {
		out := make([]int64, len(rows))
		for i, row := range rows {
			out[i] = int64(pick(row))
		}
		return out
	}
	ids := func(pick func(p participant.Participant) int64) []int64 {
		out := make([]int64, len(rows))
		for i, row := range rows {
			out[i] = pick(row)
		}
		return out
	}
	floats := func(pick func(p participant.Participant) float64) []float64 {
		out := make([]float64, len(rows))
		for i, row := range rows {
			out[i] = pick(row)
		}
		return out
	}
	won := make([]bool, len(rows))
	for i, row := range rows {
		won[i] = row.Won
	}

	b := qb.Unnest("participants")
	qb.Column(b, "match_id", "BIGINT", ids(func(p participant.Participant) int64 { return p.MatchID }))
	qb.Column(b, "identity_id", "BIGINT", ids(func(p participant.Participant) int64 { return p.IdentityID }))
	qb.Column(b, "champion_id", "INT", ints(func(p participant.Participant) int { return p.ChampionID }))
	qb.Column(b, "team_id", "INT", ints(func(p participant.Participant) int { return p.TeamID }))
	qb.Column(b, "won", "BOOLEAN", won)
	qb.Column(b, "champ_level", "INT", ints(func(p participant.Participant) int { return p.ChampLevel }))
	qb.Column(b, "kills", "INT", ints(func(p participant.Participant) int { return p.Kills }))
	qb.Column(b, "deaths", "INT", ints(func(p participant.Participant) int { return p.Deaths }))
	qb.Column(b, "assists", "INT", ints(func(p participant.Participant) int { return p.Assists }))
	qb.Column(b, "damage_dealt_to_champions", "INT", ints(func(p participant.Participant) int { return p.DamageDealtToChampions }))
	qb.Column(b, "damage_taken", "INT", ints(func(p participant.Participant) int { return p.DamageTaken }))
	qb.Column(b, "gold_earned", "INT", ints(func(p participant.Participant) int { return p.GoldEarned }))
	qb.Column(b, "wards_placed", "INT", ints(func(p participant.Participant) int { return p.WardsPlaced }))
	qb.Column(b, "cs", "INT", ints(func(p participant.Participant) int { return p.CS }))
	qb.Column(b, "double_kills", "INT", ints(func(p participant.Participant) int { return p.DoubleKills }))
	qb.Column(b, "triple_kills", "INT", ints(func(p participant.Participant) int { return p.TripleKills }))
	qb.Column(b, "quadra_kills", "INT", ints(func(p participant.Participant) int { return p.QuadraKills }))
	qb.Column(b, "penta_kills", "INT", ints(func(p participant.Participant) int { return p.PentaKills }))
	qb.Column(b, "summoner_spell1_id", "INT", ints(func(p participant.Participant) int { return p.SummonerSpell1ID }))
	qb.Column(b, "summoner_spell2_id", "INT", ints(func(p participant.Participant) int { return p.SummonerSpell2ID }))
	for slot := range 7 {
		qb.Column(b, fmt.Sprintf("item%d", slot), "INT", ints(func(p participant.Participant) int { return p.Items[slot] }))
	}
	qb.Column(b, "perk_defense_id", "INT", ints(func(p participant.Participant) int { return p.Perks.DefenseID }))
	qb.Column(b, "perk_flex_id", "INT", ints(func(p participant.Participant) int { return p.Perks.FlexID }))
	qb.Column(b, "perk_offense_id", "INT", ints(func(p participant.Participant) int { return p.Perks.OffenseID }))
	qb.Column(b, "perk_primary_style_id", "INT", ints(func(p participant.Participant) int { return p.Perks.PrimaryStyleID }))
	qb.Column(b, "perk_sub_style_id", "INT", ints(func(p participant.Participant) int { return p.Perks.SubStyleID }))
	qb.Column(b, "perk_primary_selection_id", "INT", ints(func(p participant.Participant) int { return p.Perks.PrimarySelectionID }))
	qb.Column(b, "perk_primary_selection1_id", "INT", ints(func(p participant.Participant) int { return p.Perks.PrimarySelection1ID }))
	qb.Column(b, "perk_primary_selection2_id", "INT", ints(func(p participant.Participant) int { return p.Perks.PrimarySelection2ID }))
	qb.Column(b, "perk_primary_selection3_id", "INT", ints(func(p participant.Participant) int { return p.Perks.PrimarySelection3ID }))
	qb.Column(b, "perk_sub_selection1_id", "INT", ints(func(p participant.Participant) int { return p.Perks.SubSelection1ID }))
	qb.Column(b, "perk_sub_selection2_id", "INT", ints(func(p participant.Participant) int { return p.Perks.SubSelection2ID }))
	qb.Column(b, "kda", "DOUBLE PRECISION", floats(func(p participant.Participant) float64 { return p.KDA }))
	qb.Column(b, "kill_participation", "DOUBLE PRECISION", floats(func(p participant.Participant) float64 { return p.KillParticipation }))
	qb.Column(b, "cs_per_minute", "DOUBLE PRECISION", floats(func(p participant.Participant) float64 { return p.CSPerMinute }))
	return b.Suffix("ON CONFLICT (match_id, identity_id) DO NOTHING").InsertSQL()
}

func participantFromRow(row participantTableModel) participant.Participant {
	return participant.Participant{
		ID:                     row.ID,
		MatchID:                row.MatchID,
		IdentityID:             row.IdentityID,
		ChampionID:             row.ChampionID,
		TeamID:                 row.TeamID,
		Won:                    row.Won,
		ChampLevel:             row.ChampLevel,
		Kills:                  row.Kills,
		Deaths:                 row.Deaths,
		Assists:                row.Assists,
		DamageDealtToChampions: row.DamageDealtToChampions,
		DamageTaken:            row.DamageTaken,
		GoldEarned:             row.GoldEarned,
		WardsPlaced:            row.WardsPlaced,
		CS:                     row.CS,
		DoubleKills:            row.DoubleKills,
		TripleKills:            row.TripleKills,
		QuadraKills:            row.QuadraKills,
		PentaKills:             row.PentaKills,
		SummonerSpell1ID:       row.SummonerSpell1ID,
		SummonerSpell2ID:       row.SummonerSpell2ID,
		Items:                  [7]int{row.Item0, row.Item1, row.Item2, row.Item3, row.Item4, row.Item5, row.Item6},
		Perks: participant.Perks{
			DefenseID:           row.PerkDefenseID,
			FlexID:              row.PerkFlexID,
			OffenseID:           row.PerkOffenseID,
			PrimaryStyleID:      row.PerkPrimaryStyleID,
			SubStyleID:          row.PerkSubStyleID,
			PrimarySelectionID:  row.PerkPrimarySelection,
			PrimarySelection1ID: row.PerkPrimarySelection1,
			PrimarySelection2ID: row.PerkPrimarySelection2,
			PrimarySelection3ID: row.PerkPrimarySelection3,
			SubSelection1ID:     row.PerkSubSelection1,
			SubSelection2ID:     row.PerkSubSelection2,
		},
		Stats: participant.Stats{
			KDA:               row.KDA,
			KillParticipation: row.KillParticipation,
			CSPerMinute:       row.CSPerMinute,
		},
	}
}
