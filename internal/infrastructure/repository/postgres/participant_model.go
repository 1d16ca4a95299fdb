package postgres

import "database/sql"

type participantTableModel struct {
	ID                     int64   `db:"id"`
	MatchID                int64   `db:"match_id"`
	IdentityID             int64   `db:"identity_id"`
	ChampionID             int     `db:"champion_id"`
	TeamID                 int     `db:"team_id"`
	Won                    bool    `db:"won"`
	ChampLevel             int     `db:"champ_level"`
	Kills                  int     `db:"kills"`
	Deaths                 int     `db:"deaths"`
	Assists                int     `db:"assists"`
	DamageDealtToChampions int     `db:"damage_dealt_to_champions"`
	DamageTaken            int     `db:"damage_taken"`
	GoldEarned             int     `db:"gold_earned"`
	WardsPlaced            int     `db:"wards_placed"`
	CS                     int     `db:"cs"`
	DoubleKills            int     `db:"double_kills"`
	TripleKills            int     `db:"triple_kills"`
	QuadraKills            int     `db:"quadra_kills"`
	PentaKills             int     `db:"penta_kills"`
	SummonerSpell1ID       int     `db:"summoner_spell1_id"`
	SummonerSpell2ID       int     `db:"summoner_spell2_id"`
	Item0                  int     `db:"item0"`
	Item1                  int     `db:"item1"`
	Item2                  int     `db:"item2"`
	Item3                  int     `db:"item3"`
	Item4                  int     `db:"item4"`
	Item5                  int     `db:"item5"`
	Item6                  int     `db:"item6"`
	PerkDefenseID          int     `db:"perk_defense_id"`
	PerkFlexID             int     `db:"perk_flex_id"`
	PerkOffenseID          int     `db:"perk_offense_id"`
	PerkPrimaryStyleID     int     `db:"perk_primary_style_id"`
	PerkSubStyleID         int     `db:"perk_sub_style_id"`
	PerkPrimarySelection   int     `db:"perk_primary_selection_id"`
	PerkPrimarySelection1  int     `db:"perk_primary_selection1_id"`
	PerkPrimarySelection2  int     `db:"perk_primary_selection2_id"`
	PerkPrimarySelection3  int     `db:"perk_primary_selection3_id"`
	PerkSubSelection1      int     `db:"perk_sub_selection1_id"`
	PerkSubSelection2      int     `db:"perk_sub_selection2_id"`
	KDA                    float64 `db:"kda"`
	KillParticipation      float64 `db:"kill_participation"`
	CSPerMinute            float64 `db:"cs_per_minute"`
}

type participantMatchRowModel struct {
	participantTableModel
	MatchKey        string        `db:"match_key"`
	Platform        string        `db:"platform"`
	QueueID         sql.NullInt64 `db:"queue_id"`
	GameMode        string        `db:"game_mode"`
	Version         string        `db:"version"`
	DurationSeconds sql.NullInt64 `db:"duration_seconds"`
	EndedAt         sql.NullTime  `db:"ended_at"`
}

type participantSummaryModel struct {
	TotalMatches         int     `db:"total_matches"`
	TotalWins            int     `db:"total_wins"`
	AvgKills             float64 `db:"avg_kills"`
	AvgDeaths            float64 `db:"avg_deaths"`
	AvgAssists           float64 `db:"avg_assists"`
	AvgKDA               float64 `db:"avg_kda"`
	AvgKillParticipation float64 `db:"avg_kill_participation"`
}

type participantKeyModel struct {
	IdentityID int64  `db:"identity_id"`
	PUUID      string `db:"puuid"`
}
