package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
	qb "github.com/riskibarqy/rift-ledger/internal/platform/querybuilder"
)

// Skill orders are ragged, so they travel as JSON arrays and are expanded
// back to INT[] per row.
const timelineSkillsExpr = "ARRAY(SELECT jsonb_array_elements_text(data.skills)::INT)"

type TimelineRepository struct {
	db *sqlx.DB
}

func NewTimelineRepository(db *sqlx.DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

func (r *TimelineRepository) ListByMatch(ctx context.Context, matchID int64) ([]timeline.Entry, error) {
	query, args, err := qb.Select(qb.ColumnsOf(timelineTableModel{}, "")...).From("timeline_entries").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select timeline entries query: %w", err)
	}

	var rows []timelineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select timeline entries match=%d: %w", matchID, err)
	}

	out := make([]timeline.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := timelineFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// InsertMany writes every entry in one statement. Rows already present for a
// (match, identity) pair are kept.
func (r *TimelineRepository) InsertMany(ctx context.Context, entries []timeline.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	query, args, err := timelineInsertSQL(entries)
	if err != nil {
		return 0, fmt.Errorf("build insert timeline entries query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert timeline entries match=%d: %w", entries[0].MatchID, err)
	}
	return rowsAffected(res), nil
}

func timelineInsertSQL(entries []timeline.Entry) (string, []any, error) {
	n := len(entries)
	var (
		matchIDs    = make([]int64, n)
		identityIDs = make([]int64, n)
		items       = make([]string, n)
		skills      = make([]string, n)
	)
	for i, entry := range entries {
		encodedItems, err := encodeTimelineItems(entry.Items)
		if err != nil {
			return "", nil, fmt.Errorf("encode timeline items match=%d identity=%d: %w", entry.MatchID, entry.IdentityID, err)
		}
		encodedSkills, err := encodeSkills(entry.Skills)
		if err != nil {
			return "", nil, fmt.Errorf("encode skills match=%d identity=%d: %w", entry.MatchID, entry.IdentityID, err)
		}
		matchIDs[i] = entry.MatchID
		identityIDs[i] = entry.IdentityID
		items[i] = encodedItems
		skills[i] = encodedSkills
	}

	b := qb.Unnest("timeline_entries")
	qb.Column(b, "match_id", "BIGINT", matchIDs)
	qb.Column(b, "identity_id", "BIGINT", identityIDs)
	qb.Column(b, "items", "JSONB", items)
	qb.Column(b, "skills", "JSONB", skills)
	return b.Project("skills", timelineSkillsExpr).
		Suffix("ON CONFLICT (match_id, identity_id) DO NOTHING").
		InsertSQL()
}

func encodeTimelineItems(buckets []timeline.Bucket) (string, error) {
	if buckets == nil {
		buckets = []timeline.Bucket{}
	}
	raw, err := sonic.Marshal(buckets)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func encodeSkills(skills []int) (string, error) {
	if skills == nil {
		skills = []int{}
	}
	raw, err := sonic.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func timelineFromRow(row timelineTableModel) (timeline.Entry, error) {
	buckets := []timeline.Bucket{}
	if len(row.Items) > 0 {
		if err := sonic.Unmarshal(row.Items, &buckets); err != nil {
			return timeline.Entry{}, fmt.Errorf("decode timeline items id=%d: %w", row.ID, err)
		}
	}
	skills := make([]int, len(row.Skills))
	for i, slot := range row.Skills {
		skills[i] = int(slot)
	}
	return timeline.Entry{
		MatchID:    row.MatchID,
		IdentityID: row.IdentityID,
		Items:      buckets,
		Skills:     skills,
	}, nil
}
