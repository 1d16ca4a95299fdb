package postgres

import "github.com/lib/pq"

type timelineTableModel struct {
	ID         int64         `db:"id"`
	MatchID    int64         `db:"match_id"`
	IdentityID int64         `db:"identity_id"`
	Items      []byte        `db:"items"`
	Skills     pq.Int64Array `db:"skills"`
}
