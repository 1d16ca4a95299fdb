package postgres

import "time"

type identityTableModel struct {
	ID           int64     `db:"id"`
	PUUID        string    `db:"puuid"`
	GameName     string    `db:"game_name"`
	TagLine      string    `db:"tag_line"`
	Platform     string    `db:"platform"`
	AccountLevel int       `db:"account_level"`
	IconID       int       `db:"icon_id"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type identityKeyModel struct {
	ID        int64     `db:"id"`
	PUUID     string    `db:"puuid"`
	UpdatedAt time.Time `db:"updated_at"`
}
