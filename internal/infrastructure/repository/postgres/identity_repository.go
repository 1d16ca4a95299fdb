package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
	qb "github.com/riskibarqy/rift-ledger/internal/platform/querybuilder"
)

const identityUpsertSuffix = `ON CONFLICT (puuid) DO UPDATE SET
    game_name = EXCLUDED.game_name,
    tag_line = EXCLUDED.tag_line,
    platform = EXCLUDED.platform,
    account_level = EXCLUDED.account_level,
    icon_id = EXCLUDED.icon_id,
    updated_at = EXCLUDED.updated_at
WHERE identities.updated_at < EXCLUDED.updated_at
RETURNING id, puuid`

type IdentityRepository struct {
	db        *sqlx.DB
	chunkSize int
}

func NewIdentityRepository(db *sqlx.DB, chunkSize int) *IdentityRepository {
	return &IdentityRepository{db: db, chunkSize: chunkSizeOr(chunkSize)}
}

func (r *IdentityRepository) FindByKeys(ctx context.Context, puuids []string) (map[string]identity.Stored, error) {
	puuids = uniqueStrings(puuids)
	out := make(map[string]identity.Stored, len(puuids))
	for _, part := range chunks(puuids, r.chunkSize) {
		query, args, err := qb.Select("id", "puuid", "updated_at").From("identities").
			Where(qb.Any("puuid", part)).
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build select identities by key query: %w", err)
		}

		var rows []identityKeyModel
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("select identities by key: %w", err)
		}
		for _, row := range rows {
			out[row.PUUID] = identity.Stored{ID: row.ID, PUUID: row.PUUID, UpdatedAt: row.UpdatedAt}
		}
	}
	return out, nil
}

// Upsert inserts unseen identities and overwrites existing rows only when the
// observation is strictly newer. Every key in the input is mapped to its id,
// including rows the freshness guard left untouched.
func (r *IdentityRepository) Upsert(ctx context.Context, observations []identity.Observation) (map[string]int64, error) {
	observations = newestPerKey(observations)
	if len(observations) == 0 {
		return map[string]int64{}, nil
	}

	out := make(map[string]int64, len(observations))
	err := withTx(ctx, r.db, "upsert identities", func(tx *sqlx.Tx) error {
		for _, part := range chunks(observations, r.chunkSize) {
			query, args, err := identityUpsertSQL(part)
			if err != nil {
				return fmt.Errorf("build upsert identities query: %w", err)
			}

			var rows []identityKeyModel
			if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
				return fmt.Errorf("upsert identities: %w", err)
			}
			for _, row := range rows {
				out[row.PUUID] = row.ID
			}

			missing := make([]string, 0)
			for _, obs := range part {
				if _, ok := out[obs.PUUID]; !ok {
					missing = append(missing, obs.PUUID)
				}
			}
			if len(missing) == 0 {
				continue
			}

			query, args, err = qb.Select("id", "puuid", "updated_at").From("identities").
				Where(qb.Any("puuid", missing)).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build select guarded identities query: %w", err)
			}
			rows = rows[:0]
			if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
				return fmt.Errorf("select guarded identities: %w", err)
			}
			for _, row := range rows {
				out[row.PUUID] = row.ID
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *IdentityRepository) UpdateNewer(ctx context.Context, observations []identity.Observation) (int, error) {
	observations = newestPerKey(observations)
	updated := 0
	for _, part := range chunks(observations, r.chunkSize) {
		query, args, err := identityUpdateSQL(part)
		if err != nil {
			return updated, fmt.Errorf("build update identities query: %w", err)
		}
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return updated, fmt.Errorf("update identities: %w", err)
		}
		updated += rowsAffected(res)
	}
	return updated, nil
}

// UpdateNames rewrites display names without touching updated_at.
func (r *IdentityRepository) UpdateNames(ctx context.Context, observations []identity.Observation) (int, error) {
	observations = newestPerKey(observations)
	updated := 0
	for _, part := range chunks(observations, r.chunkSize) {
		n := len(part)
		keys, names, tags := make([]string, n), make([]string, n), make([]string, n)
		for i, obs := range part {
			keys[i], names[i], tags[i] = obs.PUUID, obs.GameName, obs.TagLine
		}

		b := qb.Unnest("identities")
		qb.Column(b, "puuid", "VARCHAR(78)", keys)
		qb.Column(b, "game_name", "VARCHAR(32)", names)
		qb.Column(b, "tag_line", "VARCHAR(16)", tags)
		query, args, err := b.UpdateSQL("puuid")
		if err != nil {
			return updated, fmt.Errorf("build rename identities query: %w", err)
		}
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return updated, fmt.Errorf("rename identities: %w", err)
		}
		updated += rowsAffected(res)
	}
	return updated, nil
}

func (r *IdentityRepository) GetByID(ctx context.Context, id int64) (identity.Identity, bool, error) {
	query, args, err := qb.Select(qb.ColumnsOf(identityTableModel{}, "")...).From("identities").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return identity.Identity{}, false, fmt.Errorf("build select identity by id query: %w", err)
	}

	var row identityTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return identity.Identity{}, false, nil
		}
		return identity.Identity{}, false, fmt.Errorf("select identity id=%d: %w", id, err)
	}
	return identityFromRow(row), true, nil
}

// ListDisplayConflicts returns every identity whose display name and
// platform collide with one of the given identities, the given ones included.
func (r *IdentityRepository) ListDisplayConflicts(ctx context.Context, puuids []string) ([]identity.Identity, error) {
	puuids = uniqueStrings(puuids)
	seen := make(map[int64]struct{})
	out := make([]identity.Identity, 0)
	for _, part := range chunks(puuids, r.chunkSize) {
		query, args, err := identityConflictsQuery(part).ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build select identity conflicts query: %w", err)
		}

		var rows []identityTableModel
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("select identity conflicts: %w", err)
		}
		for _, row := range rows {
			if _, ok := seen[row.ID]; ok {
				continue
			}
			seen[row.ID] = struct{}{}
			out = append(out, identityFromRow(row))
		}
	}
	return out, nil
}

func identityConflictsQuery(puuids []string) *qb.SelectBuilder {
	return qb.Select(qb.ColumnsOf(identityTableModel{}, "i")...).From("identities i").
		Where(
			qb.Expr("i.game_name <> ''"),
			qb.Expr(`EXISTS (SELECT 1 FROM identities b
    WHERE b.puuid = ANY(?) AND b.game_name = i.game_name
    AND b.tag_line = i.tag_line AND b.platform = i.platform)`, pq.Array(puuids)),
			qb.Expr(`EXISTS (SELECT 1 FROM identities o
    WHERE o.game_name = i.game_name AND o.tag_line = i.tag_line
    AND o.platform = i.platform AND o.id <> i.id)`),
		).
		OrderBy("i.id")
}

func identityColumns(b *qb.UnnestBuilder, observations []identity.Observation) *qb.UnnestBuilder {
	n := len(observations)
	var (
		keys      = make([]string, n)
		names     = make([]string, n)
		tags      = make([]string, n)
		platforms = make([]string, n)
		levels    = make([]int64, n)
		icons     = make([]int64, n)
		observed  = make([]time.Time, n)
	)
	for i, obs := range observations {
		keys[i] = obs.PUUID
		names[i] = obs.GameName
		tags[i] = obs.TagLine
		platforms[i] = obs.Platform
		levels[i] = int64(obs.AccountLevel)
		icons[i] = int64(obs.IconID)
		observed[i] = obs.ObservedAt.UTC()
	}

	qb.Column(b, "puuid", "VARCHAR(78)", keys)
	qb.Column(b, "game_name", "VARCHAR(32)", names)
	qb.Column(b, "tag_line", "VARCHAR(16)", tags)
	qb.Column(b, "platform", "VARCHAR(8)", platforms)
	qb.Column(b, "account_level", "INT", levels)
	qb.Column(b, "icon_id", "INT", icons)
	qb.Column(b, "updated_at", "TIMESTAMPTZ", observed)
	return b
}

func identityUpsertSQL(observations []identity.Observation) (string, []any, error) {
	return identityColumns(qb.Unnest("identities"), observations).
		Suffix(identityUpsertSuffix).
		InsertSQL()
}

func identityUpdateSQL(observations []identity.Observation) (string, []any, error) {
	return identityColumns(qb.Unnest("identities"), observations).
		UpdateSQL("puuid", "identities.updated_at < data.updated_at")
}

// newestPerKey keeps the latest observation per key. A single statement may
// not touch the same row twice.
func newestPerKey(observations []identity.Observation) []identity.Observation {
	index := make(map[string]int, len(observations))
	out := make([]identity.Observation, 0, len(observations))
	for _, obs := range observations {
		if obs.PUUID == "" {
			continue
		}
		if i, ok := index[obs.PUUID]; ok {
			if obs.ObservedAt.After(out[i].ObservedAt) {
				out[i] = obs
			}
			continue
		}
		index[obs.PUUID] = len(out)
		out = append(out, obs)
	}
	return out
}

func identityFromRow(row identityTableModel) identity.Identity {
	return identity.Identity{
		ID:           row.ID,
		PUUID:        row.PUUID,
		GameName:     row.GameName,
		TagLine:      row.TagLine,
		Platform:     row.Platform,
		AccountLevel: row.AccountLevel,
		IconID:       row.IconID,
		UpdatedAt:    row.UpdatedAt,
	}
}
