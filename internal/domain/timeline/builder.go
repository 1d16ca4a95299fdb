package timeline

import (
	"fmt"
	"slices"
	"sort"
)

type participantLog struct {
	identityID int64
	items      []ItemEvent
	skills     []int
}

// Builder replays a match's events in arrival order and produces one Entry
// per mapped participant. A Builder is single-use and not safe for
// concurrent use.
type Builder struct {
	matchID int64
	logs    map[int]*participantLog
	order   []int
	skipped map[int]struct{}
}

// NewBuilder creates a builder for a match given the provider participant id
// to identity id mapping.
func NewBuilder(matchID int64, participants map[int]int64) *Builder {
	b := &Builder{
		matchID: matchID,
		logs:    make(map[int]*participantLog, len(participants)),
		order:   make([]int, 0, len(participants)),
		skipped: make(map[int]struct{}),
	}
	for participantID, identityID := range participants {
		b.logs[participantID] = &participantLog{identityID: identityID}
		b.order = append(b.order, participantID)
	}
	sort.Ints(b.order)
	return b
}

// Skip marks participant ids whose events are dropped without error, such as
// bots that never get an identity row.
func (b *Builder) Skip(participantIDs ...int) {
	for _, id := range participantIDs {
		b.skipped[id] = struct{}{}
	}
}

// Apply consumes one event. Unsupported event types and events without a
// participant are ignored.
func (b *Builder) Apply(ev Event) error {
	switch ev.Type {
	case EventSkillLevelUp, EventItemPurchased, EventItemSold, EventItemUndo:
	default:
		return nil
	}
	if ev.ParticipantID <= 0 {
		return nil
	}
	if _, ok := b.skipped[ev.ParticipantID]; ok {
		return nil
	}
	log, ok := b.logs[ev.ParticipantID]
	if !ok {
		return fmt.Errorf("%w: match_id=%d participant_id=%d", ErrUnknownParticipant, b.matchID, ev.ParticipantID)
	}

	switch ev.Type {
	case EventSkillLevelUp:
		log.skills = append(log.skills, ev.SkillSlot)
	case EventItemPurchased:
		log.items = append(log.items, ItemEvent{TimestampMs: ev.TimestampMs, ItemID: ev.ItemID, Action: ActionPurchased})
	case EventItemSold:
		log.items = append(log.items, ItemEvent{TimestampMs: ev.TimestampMs, ItemID: ev.ItemID, Action: ActionSold})
	case EventItemUndo:
		if ev.BeforeID != 0 {
			log.removeLast(ev.BeforeID, ActionPurchased)
		}
		if ev.AfterID != 0 {
			log.removeLast(ev.AfterID, ActionSold)
		}
	}
	return nil
}

// ApplyAll consumes events in order and stops at the first error.
func (b *Builder) ApplyAll(events []Event) error {
	for _, ev := range events {
		if err := b.Apply(ev); err != nil {
			return err
		}
	}
	return nil
}

// removeLast drops the most recent entry matching item and action.
func (l *participantLog) removeLast(itemID int, action string) {
	for i := len(l.items) - 1; i >= 0; i-- {
		if l.items[i].ItemID == itemID && l.items[i].Action == action {
			l.items = slices.Delete(l.items, i, i+1)
			return
		}
	}
}

// Finalize returns one entry per mapped participant ordered by participant id.
func (b *Builder) Finalize() []Entry {
	out := make([]Entry, 0, len(b.order))
	for _, participantID := range b.order {
		log := b.logs[participantID]
		skills := log.skills
		if skills == nil {
			skills = []int{}
		}
		out = append(out, Entry{
			MatchID:    b.matchID,
			IdentityID: log.identityID,
			Items:      bucketize(log.items),
			Skills:     skills,
		})
	}
	return out
}

func bucketize(items []ItemEvent) []Bucket {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b ItemEvent) int {
		switch {
		case a.TimestampMs < b.TimestampMs:
			return -1
		case a.TimestampMs > b.TimestampMs:
			return 1
		default:
			return 0
		}
	})

	buckets := make([]Bucket, 0, 8)
	for _, item := range sorted {
		minute := int(item.TimestampMs / bucketWidthMs)
		if n := len(buckets); n > 0 && buckets[n-1].Minute == minute {
			buckets[n-1].Items = append(buckets[n-1].Items, item)
			continue
		}
		buckets = append(buckets, Bucket{Minute: minute, Items: []ItemEvent{item}})
	}
	return buckets
}

// Reconstruct is a convenience wrapper that builds entries from a full event
// stream.
func Reconstruct(matchID int64, participants map[int]int64, skipped []int, events []Event) ([]Entry, error) {
	b := NewBuilder(matchID, participants)
	b.Skip(skipped...)
	if err := b.ApplyAll(events); err != nil {
		return nil, err
	}
	return b.Finalize(), nil
}
