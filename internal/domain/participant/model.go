package participant

// Perks flattens the rune page of one participant.
type Perks struct {
	DefenseID           int
	FlexID              int
	OffenseID           int
	PrimaryStyleID      int
	SubStyleID          int
	PrimarySelectionID  int
	PrimarySelection1ID int
	PrimarySelection2ID int
	PrimarySelection3ID int
	SubSelection1ID     int
	SubSelection2ID     int
}

// Participant is one player's line in one match. Rows are written once when
// the match is populated and never mutated.
type Participant struct {
	ID                     int64
	MatchID                int64
	IdentityID             int64
	ChampionID             int
	TeamID                 int
	Won                    bool
	ChampLevel             int
	Kills                  int
	Deaths                 int
	Assists                int
	DamageDealtToChampions int
	DamageTaken            int
	GoldEarned             int
	WardsPlaced            int
	CS                     int
	DoubleKills            int
	TripleKills            int
	QuadraKills            int
	PentaKills             int
	SummonerSpell1ID       int
	SummonerSpell2ID       int
	Items                  [7]int
	Perks                  Perks
	Stats
}
