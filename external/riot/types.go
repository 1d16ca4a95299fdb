package riot

type accountDTO struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type matchDTO struct {
	Metadata matchMetadataDTO `json:"metadata"`
	Info     matchInfoDTO     `json:"info"`
}

type matchMetadataDTO struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type matchInfoDTO struct {
	GameCreation       int64            `json:"gameCreation"`
	GameDuration       int64            `json:"gameDuration"`
	GameStartTimestamp int64            `json:"gameStartTimestamp"`
	GameEndTimestamp   int64            `json:"gameEndTimestamp"`
	GameID             int64            `json:"gameId"`
	GameMode           string           `json:"gameMode"`
	GameVersion        string           `json:"gameVersion"`
	MapID              int              `json:"mapId"`
	PlatformID         string           `json:"platformId"`
	QueueID            int              `json:"queueId"`
	Teams              []teamDTO        `json:"teams"`
	Participants       []participantDTO `json:"participants"`
}

type teamDTO struct {
	TeamID     int           `json:"teamId"`
	Win        bool          `json:"win"`
	Objectives objectivesDTO `json:"objectives"`
}

type objectivesDTO struct {
	Champion objectiveDTO `json:"champion"`
}

type objectiveDTO struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}

type participantDTO struct {
	PUUID                       string   `json:"puuid"`
	RiotIDGameName              string   `json:"riotIdGameName"`
	RiotIDTagline               string   `json:"riotIdTagline"`
	SummonerLevel               int      `json:"summonerLevel"`
	ProfileIcon                 int      `json:"profileIcon"`
	ChampionID                  int      `json:"championId"`
	TeamID                      int      `json:"teamId"`
	ChampLevel                  int      `json:"champLevel"`
	Kills                       int      `json:"kills"`
	Deaths                      int      `json:"deaths"`
	Assists                     int      `json:"assists"`
	TotalDamageDealtToChampions int      `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int      `json:"totalDamageTaken"`
	GoldEarned                  int      `json:"goldEarned"`
	WardsPlaced                 int      `json:"wardsPlaced"`
	TotalMinionsKilled          int      `json:"totalMinionsKilled"`
	DoubleKills                 int      `json:"doubleKills"`
	TripleKills                 int      `json:"tripleKills"`
	QuadraKills                 int      `json:"quadraKills"`
	PentaKills                  int      `json:"pentaKills"`
	Summoner1ID                 int      `json:"summoner1Id"`
	Summoner2ID                 int      `json:"summoner2Id"`
	Item0                       int      `json:"item0"`
	Item1                       int      `json:"item1"`
	Item2                       int      `json:"item2"`
	Item3                       int      `json:"item3"`
	Item4                       int      `json:"item4"`
	Item5                       int      `json:"item5"`
	Item6                       int      `json:"item6"`
	Perks                       perksDTO `json:"perks"`
}

type perksDTO struct {
	StatPerks statPerksDTO   `json:"statPerks"`
	Styles    []perkStyleDTO `json:"styles"`
}

type statPerksDTO struct {
	Defense int `json:"defense"`
	Flex    int `json:"flex"`
	Offense int `json:"offense"`
}

type perkStyleDTO struct {
	Description string             `json:"description"`
	Style       int                `json:"style"`
	Selections  []perkSelectionDTO `json:"selections"`
}

type perkSelectionDTO struct {
	Perk int `json:"perk"`
}

type timelineDTO struct {
	Metadata matchMetadataDTO `json:"metadata"`
	Info     timelineInfoDTO  `json:"info"`
}

type timelineInfoDTO struct {
	FrameInterval int                      `json:"frameInterval"`
	Frames        []timelineFrameDTO       `json:"frames"`
	Participants  []timelineParticipantDTO `json:"participants"`
}

type timelineParticipantDTO struct {
	ParticipantID int    `json:"participantId"`
	PUUID         string `json:"puuid"`
}

type timelineFrameDTO struct {
	Timestamp int64              `json:"timestamp"`
	Events    []timelineEventDTO `json:"events"`
}

type timelineEventDTO struct {
	Type          string `json:"type"`
	Timestamp     int64  `json:"timestamp"`
	ParticipantID int    `json:"participantId"`
	ItemID        int    `json:"itemId"`
	SkillSlot     int    `json:"skillSlot"`
	BeforeID      int    `json:"beforeId"`
	AfterID       int    `json:"afterId"`
}
