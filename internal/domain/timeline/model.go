package timeline

import "errors"

const (
	EventSkillLevelUp  = "SKILL_LEVEL_UP"
	EventItemPurchased = "ITEM_PURCHASED"
	EventItemSold      = "ITEM_SOLD"
	EventItemUndo      = "ITEM_UNDO"
)

const (
	ActionPurchased = "purchased"
	ActionSold      = "sold"
)

const bucketWidthMs = 60_000

// ErrUnknownParticipant marks an event that references a participant with no
// identity mapping for the match.
var ErrUnknownParticipant = errors.New("timeline event references unknown participant")

// Event is one raw frame event. Only the fields used by the supported event
// types are carried.
type Event struct {
	Type          string
	ParticipantID int
	TimestampMs   int64
	SkillSlot     int
	ItemID        int
	BeforeID      int
	AfterID       int
}

// ItemEvent is one surviving item purchase or sale.
type ItemEvent struct {
	TimestampMs int64  `json:"timestamp"`
	ItemID      int    `json:"item_id"`
	Action      string `json:"action"`
}

// Bucket groups item events by minute of game time.
type Bucket struct {
	Minute int         `json:"minute"`
	Items  []ItemEvent `json:"items"`
}

// Entry is the reconstructed timeline of one participant in one match.
type Entry struct {
	MatchID    int64
	IdentityID int64
	Items      []Bucket
	Skills     []int
}
