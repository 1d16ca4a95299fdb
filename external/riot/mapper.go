package riot

import (
	"strings"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/domain/participant"
	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
	"github.com/riskibarqy/rift-ledger/internal/usecase"
)

func toExternalMatch(matchKey string, dto matchDTO) usecase.ExternalMatch {
	info := dto.Info
	key := firstNonEmpty(dto.Metadata.MatchID, matchKey)
	startedAt := time.UnixMilli(info.GameStartTimestamp).UTC()

	// gameDuration is reported in seconds only when gameEndTimestamp is set;
	// older records carry milliseconds.
	duration := info.GameDuration
	var endedAt time.Time
	if info.GameEndTimestamp > 0 {
		endedAt = time.UnixMilli(info.GameEndTimestamp).UTC()
	} else {
		duration /= 1000
		endedAt = startedAt.Add(time.Duration(duration) * time.Second)
	}

	out := usecase.ExternalMatch{
		MatchKey:        key,
		Platform:        firstNonEmpty(lolmatch.NormalizePlatform(info.PlatformID), lolmatch.PlatformFromKey(key)),
		GameID:          info.GameID,
		GameMode:        strings.TrimSpace(info.GameMode),
		Version:         strings.TrimSpace(info.GameVersion),
		QueueID:         info.QueueID,
		MapID:           info.MapID,
		DurationSeconds: int(duration),
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		Teams:           make([]usecase.ExternalTeam, 0, len(info.Teams)),
		Participants:    make([]usecase.ExternalParticipant, 0, len(info.Participants)),
	}
	for _, team := range info.Teams {
		out.Teams = append(out.Teams, usecase.ExternalTeam{
			TeamID:        team.TeamID,
			Win:           team.Win,
			ChampionKills: team.Objectives.Champion.Kills,
		})
	}
	for _, p := range info.Participants {
		out.Participants = append(out.Participants, toExternalParticipant(p))
	}
	return out
}

func toExternalParticipant(p participantDTO) usecase.ExternalParticipant {
	return usecase.ExternalParticipant{
		PUUID:                  strings.TrimSpace(p.PUUID),
		GameName:               strings.TrimSpace(p.RiotIDGameName),
		TagLine:                strings.TrimSpace(p.RiotIDTagline),
		SummonerLevel:          p.SummonerLevel,
		ProfileIconID:          p.ProfileIcon,
		ChampionID:             p.ChampionID,
		TeamID:                 p.TeamID,
		ChampLevel:             p.ChampLevel,
		Kills:                  p.Kills,
		Deaths:                 p.Deaths,
		Assists:                p.Assists,
		DamageDealtToChampions: p.TotalDamageDealtToChampions,
		DamageTaken:            p.TotalDamageTaken,
		GoldEarned:             p.GoldEarned,
		WardsPlaced:            p.WardsPlaced,
		TotalMinionsKilled:     p.TotalMinionsKilled,
		DoubleKills:            p.DoubleKills,
		TripleKills:            p.TripleKills,
		QuadraKills:            p.QuadraKills,
		PentaKills:             p.PentaKills,
		Summoner1ID:            p.Summoner1ID,
		Summoner2ID:            p.Summoner2ID,
		Items:                  [7]int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6},
		Perks:                  toPerks(p.Perks),
	}
}

// toPerks flattens the rune page: styles[0] is the primary tree, styles[1]
// the secondary one.
func toPerks(dto perksDTO) participant.Perks {
	out := participant.Perks{
		DefenseID: dto.StatPerks.Defense,
		FlexID:    dto.StatPerks.Flex,
		OffenseID: dto.StatPerks.Offense,
	}
	if len(dto.Styles) > 0 {
		primary := dto.Styles[0]
		out.PrimaryStyleID = primary.Style
		out.PrimarySelectionID = selectionAt(primary.Selections, 0)
		out.PrimarySelection1ID = selectionAt(primary.Selections, 1)
		out.PrimarySelection2ID = selectionAt(primary.Selections, 2)
		out.PrimarySelection3ID = selectionAt(primary.Selections, 3)
	}
	if len(dto.Styles) > 1 {
		sub := dto.Styles[1]
		out.SubStyleID = sub.Style
		out.SubSelection1ID = selectionAt(sub.Selections, 0)
		out.SubSelection2ID = selectionAt(sub.Selections, 1)
	}
	return out
}

func selectionAt(items []perkSelectionDTO, i int) int {
	if i < len(items) {
		return items[i].Perk
	}
	return 0
}

func toExternalTimeline(matchKey string, dto timelineDTO) usecase.ExternalTimeline {
	out := usecase.ExternalTimeline{
		MatchKey:     firstNonEmpty(dto.Metadata.MatchID, matchKey),
		Participants: make([]usecase.ExternalTimelineParticipant, 0, len(dto.Info.Participants)),
	}
	for _, p := range dto.Info.Participants {
		out.Participants = append(out.Participants, usecase.ExternalTimelineParticipant{
			ParticipantID: p.ParticipantID,
			PUUID:         strings.TrimSpace(p.PUUID),
		})
	}
	// Older payloads omit info.participants; metadata lists puuids in
	// participant id order.
	if len(out.Participants) == 0 {
		for i, puuid := range dto.Metadata.Participants {
			out.Participants = append(out.Participants, usecase.ExternalTimelineParticipant{
				ParticipantID: i + 1,
				PUUID:         strings.TrimSpace(puuid),
			})
		}
	}

	for _, frame := range dto.Info.Frames {
		for _, ev := range frame.Events {
			out.Events = append(out.Events, timeline.Event{
				Type:          ev.Type,
				ParticipantID: ev.ParticipantID,
				TimestampMs:   ev.Timestamp,
				SkillSlot:     ev.SkillSlot,
				ItemID:        ev.ItemID,
				BeforeID:      ev.BeforeID,
				AfterID:       ev.AfterID,
			})
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
