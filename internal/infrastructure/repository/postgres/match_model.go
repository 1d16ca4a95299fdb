package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID              int64          `db:"id"`
	MatchKey        string         `db:"match_key"`
	Platform        string         `db:"platform"`
	Status          string         `db:"status"`
	QueueID         sql.NullInt64  `db:"queue_id"`
	MapID           sql.NullInt64  `db:"map_id"`
	GameMode        sql.NullString `db:"game_mode"`
	Version         sql.NullString `db:"version"`
	DurationSeconds sql.NullInt64  `db:"duration_seconds"`
	StartedAt       sql.NullTime   `db:"started_at"`
	EndedAt         sql.NullTime   `db:"ended_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type matchKeyModel struct {
	ID       int64  `db:"id"`
	MatchKey string `db:"match_key"`
}
