package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
	"github.com/riskibarqy/rift-ledger/internal/usecase"
)

const dateLayout = "2006-01-02"

type refreshPlayerRequest struct {
	Platform   string `json:"platform" validate:"required,min=2,max=8"`
	MaxMatches int    `json:"max_matches" validate:"omitempty,min=1,max=1000"`
}

type identityDTO struct {
	ID       int64  `json:"id"`
	PUUID    string `json:"puuid"`
	GameName string `json:"game_name"`
	TagLine  string `json:"tag_line"`
	Platform string `json:"platform"`
}

type perksDTO struct {
	PrimaryStyleID int   `json:"primary_style_id"`
	SubStyleID     int   `json:"sub_style_id"`
	Selections     []int `json:"selections"`
	Shards         []int `json:"shards"`
}

type matchDTO struct {
	MatchID           int64      `json:"match_id"`
	MatchKey          string     `json:"match_key"`
	Platform          string     `json:"platform"`
	QueueID           int        `json:"queue_id"`
	QueueName         string     `json:"queue_name"`
	GameMode          string     `json:"game_mode"`
	Version           string     `json:"version"`
	DurationSeconds   int        `json:"duration_seconds"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
	ChampionID        int        `json:"champion_id"`
	ChampionName      string     `json:"champion_name"`
	ChampLevel        int        `json:"champ_level"`
	TeamID            int        `json:"team_id"`
	Won               bool       `json:"won"`
	Kills             int        `json:"kills"`
	Deaths            int        `json:"deaths"`
	Assists           int        `json:"assists"`
	KDA               float64    `json:"kda"`
	KillParticipation float64    `json:"kill_participation"`
	CS                int        `json:"cs"`
	CSPerMinute       float64    `json:"cs_per_minute"`
	GoldEarned        int        `json:"gold_earned"`
	DamageToChampions int        `json:"damage_to_champions"`
	WardsPlaced       int        `json:"wards_placed"`
	SummonerSpells    [2]int     `json:"summoner_spells"`
	Items             [7]int     `json:"items"`
	Perks             perksDTO   `json:"perks"`
}

type summaryDTO struct {
	TotalMatches         int     `json:"total_matches"`
	TotalWins            int     `json:"total_wins"`
	AvgKills             float64 `json:"avg_kills"`
	AvgDeaths            float64 `json:"avg_deaths"`
	AvgAssists           float64 `json:"avg_assists"`
	AvgKDA               float64 `json:"avg_kda"`
	AvgKillParticipation float64 `json:"avg_kill_participation"`
}

type matchPageDTO struct {
	Identity   identityDTO `json:"identity"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	TotalPages int         `json:"total_pages"`
	Summary    summaryDTO  `json:"summary"`
	Matches    []matchDTO  `json:"matches"`
}

type timelineEntryDTO struct {
	IdentityID int64             `json:"identity_id"`
	Items      []timeline.Bucket `json:"items"`
	Skills     []int             `json:"skills"`
}

type matchTimelineDTO struct {
	MatchID      int64              `json:"match_id"`
	Participants []timelineEntryDTO `json:"participants"`
}

func matchPageToDTO(page usecase.MatchPage) matchPageDTO {
	out := matchPageDTO{
		Identity: identityDTO{
			ID:       page.Identity.ID,
			PUUID:    page.Identity.PUUID,
			GameName: page.Identity.GameName,
			TagLine:  page.Identity.TagLine,
			Platform: page.Identity.Platform,
		},
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
		Summary:    summaryToDTO(page.Summary),
		Matches:    make([]matchDTO, 0, len(page.Matches)),
	}
	for _, view := range page.Matches {
		out.Matches = append(out.Matches, matchViewToDTO(view))
	}
	return out
}

func matchViewToDTO(view usecase.MatchView) matchDTO {
	row := view.MatchRow
	perks := row.Perks
	return matchDTO{
		MatchID:           row.MatchID,
		MatchKey:          row.MatchKey,
		Platform:          row.Platform,
		QueueID:           row.QueueID,
		QueueName:         view.QueueName,
		GameMode:          row.GameMode,
		Version:           row.Version,
		DurationSeconds:   row.DurationSeconds,
		EndedAt:           row.EndedAt,
		ChampionID:        row.ChampionID,
		ChampionName:      view.ChampionName,
		ChampLevel:        row.ChampLevel,
		TeamID:            row.TeamID,
		Won:               row.Won,
		Kills:             row.Kills,
		Deaths:            row.Deaths,
		Assists:           row.Assists,
		KDA:               row.KDA,
		KillParticipation: row.KillParticipation,
		CS:                row.CS,
		CSPerMinute:       row.CSPerMinute,
		GoldEarned:        row.GoldEarned,
		DamageToChampions: row.DamageDealtToChampions,
		WardsPlaced:       row.WardsPlaced,
		SummonerSpells:    [2]int{row.SummonerSpell1ID, row.SummonerSpell2ID},
		Items:             row.Items,
		Perks: perksDTO{
			PrimaryStyleID: perks.PrimaryStyleID,
			SubStyleID:     perks.SubStyleID,
			Selections: []int{
				perks.PrimarySelectionID,
				perks.PrimarySelection1ID,
				perks.PrimarySelection2ID,
				perks.PrimarySelection3ID,
				perks.SubSelection1ID,
				perks.SubSelection2ID,
			},
			Shards: []int{perks.OffenseID, perks.FlexID, perks.DefenseID},
		},
	}
}

func summaryToDTO(s participant.Summary) summaryDTO {
	return summaryDTO{
		TotalMatches:         s.TotalMatches,
		TotalWins:            s.TotalWins,
		AvgKills:             s.AvgKills,
		AvgDeaths:            s.AvgDeaths,
		AvgAssists:           s.AvgAssists,
		AvgKDA:               s.AvgKDA,
		AvgKillParticipation: s.AvgKillParticipation,
	}
}

func timelineToDTO(matchID int64, entries []timeline.Entry) matchTimelineDTO {
	out := matchTimelineDTO{
		MatchID:      matchID,
		Participants: make([]timelineEntryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		items := e.Items
		if items == nil {
			items = []timeline.Bucket{}
		}
		skills := e.Skills
		if skills == nil {
			skills = []int{}
		}
		out.Participants = append(out.Participants, timelineEntryDTO{
			IdentityID: e.IdentityID,
			Items:      items,
			Skills:     skills,
		})
	}
	return out
}

func parsePathID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}

// parseMatchListQuery reads page and the optional filters. Date-only end
// bounds include the whole day.
func parseMatchListQuery(q url.Values) (int, usecase.MatchFilters, error) {
	var filters usecase.MatchFilters

	page, err := optionalInt(q, "page", 1)
	if err != nil {
		return 0, filters, err
	}
	if page < 1 {
		return 0, filters, fmt.Errorf("%w: page must be >= 1", usecase.ErrInvalidInput)
	}
	if filters.ChampionID, err = optionalInt(q, "champion_id", 0); err != nil {
		return 0, filters, err
	}
	if filters.QueueID, err = optionalInt(q, "queue_id", 0); err != nil {
		return 0, filters, err
	}
	if filters.ChampionID < 0 || filters.QueueID < 0 {
		return 0, filters, fmt.Errorf("%w: champion_id and queue_id must be >= 0", usecase.ErrInvalidInput)
	}
	if filters.StartAt, err = optionalDate(q, "start_date", false); err != nil {
		return 0, filters, err
	}
	if filters.EndAt, err = optionalDate(q, "end_date", true); err != nil {
		return 0, filters, err
	}
	return page, filters, nil
}

func optionalInt(q url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}

func optionalDate(q url.Values, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD or RFC3339", usecase.ErrInvalidInput, key)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
