package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	qb "github.com/riskibarqy/rift-ledger/internal/platform/querybuilder"
)

type MatchRepository struct {
	db        *sqlx.DB
	chunkSize int
}

func NewMatchRepository(db *sqlx.DB, chunkSize int) *MatchRepository {
	return &MatchRepository{db: db, chunkSize: chunkSizeOr(chunkSize)}
}

func (r *MatchRepository) InsertStubs(ctx context.Context, keys []string) (int, error) {
	keys = uniqueStrings(keys)
	if len(keys) == 0 {
		return 0, nil
	}

	inserted := 0
	for _, part := range chunks(keys, r.chunkSize) {
		query, args, err := matchStubInsertSQL(part)
		if err != nil {
			return inserted, fmt.Errorf("build insert match stubs query: %w", err)
		}
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("insert match stubs: %w", err)
		}
		inserted += rowsAffected(res)
	}
	return inserted, nil
}

func (r *MatchRepository) ExistingKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	rows, err := r.selectKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		out[row.MatchKey] = struct{}{}
	}
	return out, nil
}

func (r *MatchRepository) IDsByKeys(ctx context.Context, keys []string) (map[string]int64, error) {
	rows, err := r.selectKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.MatchKey] = row.ID
	}
	return out, nil
}

func (r *MatchRepository) selectKeys(ctx context.Context, keys []string) ([]matchKeyModel, error) {
	keys = uniqueStrings(keys)
	out := make([]matchKeyModel, 0, len(keys))
	for _, part := range chunks(keys, r.chunkSize) {
		query, args, err := qb.Select("id", "match_key").From("matches").
			Where(qb.Any("match_key", part)).
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build select match keys query: %w", err)
		}

		var rows []matchKeyModel
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("select match keys: %w", err)
		}
		out = append(out, rows...)
	}
	return out, nil
}

func (r *MatchRepository) ListStubs(ctx context.Context, limit int) ([]lolmatch.Match, error) {
	query, args, err := qb.Select(qb.ColumnsOf(matchTableModel{}, "")...).From("matches").
		Where(qb.Eq("status", lolmatch.StatusStub)).
		OrderBy("updated_at", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stub matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stub matches: %w", err)
	}

	out := make([]lolmatch.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (lolmatch.Match, bool, error) {
	query, args, err := qb.Select(qb.ColumnsOf(matchTableModel{}, "")...).From("matches").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return lolmatch.Match{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return lolmatch.Match{}, false, nil
		}
		return lolmatch.Match{}, false, fmt.Errorf("select match id=%d: %w", id, err)
	}
	return matchFromRow(row), true, nil
}

// Populate fills detail columns of matches that are still stubs. Populated and
// trashed rows are left untouched, so replaying a batch is a no-op.
func (r *MatchRepository) Populate(ctx context.Context, details []lolmatch.Detail) error {
	if len(details) == 0 {
		return nil
	}

	return withTx(ctx, r.db, "populate matches", func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		for _, part := range chunks(details, r.chunkSize) {
			query, args, err := matchPopulateSQL(part, now)
			if err != nil {
				return fmt.Errorf("build populate matches query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("populate matches: %w", err)
			}
		}
		return nil
	})
}

func (r *MatchRepository) MarkTrashed(ctx context.Context, keys []string) error {
	return r.updateStubs(ctx, keys, "trash matches", matchTrashSQL)
}

func (r *MatchRepository) TouchPending(ctx context.Context, keys []string) error {
	return r.updateStubs(ctx, keys, "touch pending matches", matchTouchSQL)
}

func (r *MatchRepository) updateStubs(ctx context.Context, keys []string, op string, build func([]string) (string, []any, error)) error {
	keys = uniqueStrings(keys)
	for _, part := range chunks(keys, r.chunkSize) {
		query, args, err := build(part)
		if err != nil {
			return fmt.Errorf("build %s query: %w", op, err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func matchTrashSQL(keys []string) (string, []any, error) {
	return qb.Update("matches").
		Set("status", lolmatch.StatusTrashed).
		SetExpr("updated_at", "NOW()").
		Where(qb.Any("match_key", keys), qb.Eq("status", lolmatch.StatusStub)).
		ToSQL()
}

func matchTouchSQL(keys []string) (string, []any, error) {
	return qb.Update("matches").
		SetExpr("updated_at", "NOW()").
		Where(qb.Any("match_key", keys), qb.Eq("status", lolmatch.StatusStub)).
		ToSQL()
}

func matchStubInsertSQL(keys []string) (string, []any, error) {
	platforms := make([]string, len(keys))
	for i, key := range keys {
		platforms[i] = lolmatch.PlatformFromKey(key)
	}

	b := qb.Unnest("matches")
	qb.Column(b, "match_key", "VARCHAR(32)", keys)
	qb.Column(b, "platform", "VARCHAR(8)", platforms)
	return b.Suffix("ON CONFLICT (match_key) DO NOTHING").InsertSQL()
}

func matchPopulateSQL(details []lolmatch.Detail, now time.Time) (string, []any, error) {
	n := len(details)
	var (
		keys      = make([]string, n)
		statuses  = make([]string, n)
		queues    = make([]int64, n)
		maps      = make([]int64, n)
		modes     = make([]string, n)
		versions  = make([]string, n)
		durations = make([]int64, n)
		started   = make([]time.Time, n)
		ended     = make([]time.Time, n)
		updated   = make([]time.Time, n)
	)
	for i, d := range details {
		keys[i] = d.MatchKey
		statuses[i] = lolmatch.StatusPopulated
		queues[i] = int64(d.QueueID)
		maps[i] = int64(d.MapID)
		modes[i] = d.GameMode
		versions[i] = d.Version
		durations[i] = int64(d.DurationSeconds)
		started[i] = d.StartedAt.UTC()
		ended[i] = d.EndedAt.UTC()
		updated[i] = now
	}

	b := qb.Unnest("matches")
	qb.Column(b, "match_key", "VARCHAR(32)", keys)
	qb.Column(b, "status", "VARCHAR(16)", statuses)
	qb.Column(b, "queue_id", "INT", queues)
	qb.Column(b, "map_id", "INT", maps)
	qb.Column(b, "game_mode", "VARCHAR(32)", modes)
	qb.Column(b, "version", "VARCHAR(16)", versions)
	qb.Column(b, "duration_seconds", "INT", durations)
	qb.Column(b, "started_at", "TIMESTAMPTZ", started)
	qb.Column(b, "ended_at", "TIMESTAMPTZ", ended)
	qb.Column(b, "updated_at", "TIMESTAMPTZ", updated)
	return b.UpdateSQL("match_key", "matches.status = 'stub'")
}

func matchFromRow(row matchTableModel) lolmatch.Match {
	return lolmatch.Match{
		ID:              row.ID,
		MatchKey:        row.MatchKey,
		Platform:        row.Platform,
		Status:          row.Status,
		QueueID:         int(row.QueueID.Int64),
		MapID:           int(row.MapID.Int64),
		GameMode:        row.GameMode.String,
		Version:         row.Version.String,
		DurationSeconds: int(row.DurationSeconds.Int64),
		StartedAt:       nullTimeToPtr(row.StartedAt),
		EndedAt:         nullTimeToPtr(row.EndedAt),
	}
}
