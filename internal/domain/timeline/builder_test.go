package timeline

import (
	"errors"
	"testing"
)

func purchase(pid int, ts int64, item int) Event {
	return Event{Type: EventItemPurchased, ParticipantID: pid, TimestampMs: ts, ItemID: item}
}

func sale(pid int, ts int64, item int) Event {
	return Event{Type: EventItemSold, ParticipantID: pid, TimestampMs: ts, ItemID: item}
}

func undo(pid int, ts int64, before, after int) Event {
	return Event{Type: EventItemUndo, ParticipantID: pid, TimestampMs: ts, BeforeID: before, AfterID: after}
}

func flatten(entry Entry) []ItemEvent {
	var out []ItemEvent
	for _, bucket := range entry.Items {
		out = append(out, bucket.Items...)
	}
	return out
}

func TestReconstruct_UndoCancelsPurchase(t *testing.T) {
	entries, err := Reconstruct(1, map[int]int64{1: 100}, nil, []Event{
		purchase(1, 1000, 1055),
		purchase(1, 2000, 2003),
		undo(1, 3000, 1055, 0),
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}

	items := flatten(entries[0])
	if len(items) != 1 {
		t.Fatalf("expected one surviving item, got %+v", items)
	}
	if items[0].ItemID != 2003 || items[0].TimestampMs != 2000 || items[0].Action != ActionPurchased {
		t.Fatalf("unexpected surviving item: %+v", items[0])
	}
}

func TestReconstruct_UndoRemovesOnlyMostRecentMatch(t *testing.T) {
	entries, err := Reconstruct(1, map[int]int64{1: 100}, nil, []Event{
		purchase(1, 1000, 1055),
		purchase(1, 2000, 1055),
		undo(1, 3000, 1055, 0),
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}

	items := flatten(entries[0])
	if len(items) != 1 || items[0].TimestampMs != 1000 {
		t.Fatalf("expected purchase at t1 to remain, got %+v", items)
	}
}

func TestReconstruct_UndoSaleUsesAfterID(t *testing.T) {
	entries, err := Reconstruct(1, map[int]int64{1: 100}, nil, []Event{
		purchase(1, 1000, 1001),
		sale(1, 2000, 1001),
		undo(1, 2500, 0, 1001),
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}

	items := flatten(entries[0])
	if len(items) != 1 || items[0].Action != ActionPurchased {
		t.Fatalf("expected only the purchase to remain, got %+v", items)
	}
}

func TestReconstruct_UndoWithoutMatchIsNoop(t *testing.T) {
	entries, err := Reconstruct(1, map[int]int64{1: 100}, nil, []Event{
		purchase(1, 1000, 1001),
		undo(1, 1500, 3006, 0),
		undo(1, 1600, 0, 1001),
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if items := flatten(entries[0]); len(items) != 1 {
		t.Fatalf("expected purchase untouched, got %+v", items)
	}
}

func TestReconstruct_Bucketing(t *testing.T) {
	entries, err := Reconstruct(1, map[int]int64{1: 100}, nil, []Event{
		purchase(1, 60000, 2003),
		purchase(1, 59999, 1055),
		purchase(1, 185000, 3006),
		undo(1, 186000, 3006, 0),
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}

	buckets := entries[0].Items
	if len(buckets) != 2 {
		t.Fatalf("expected two non-empty buckets, got %+v", buckets)
	}
	if buckets[0].Minute != 0 || buckets[0].Items[0].ItemID != 1055 {
		t.Fatalf("unexpected first bucket: %+v", buckets[0])
	}
	if buckets[1].Minute != 1 || buckets[1].Items[0].ItemID != 2003 {
		t.Fatalf("unexpected second bucket: %+v", buckets[1])
	}
}

func TestReconstruct_BucketPreservesArrivalOrderForTies(t *testing.T) {
	entries, err := Reconstruct(1, map[int]int64{1: 100}, nil, []Event{
		purchase(1, 5000, 1),
		purchase(1, 5000, 2),
		purchase(1, 5000, 3),
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	items := entries[0].Items[0].Items
	for i, want := range []int{1, 2, 3} {
		if items[i].ItemID != want {
			t.Fatalf("position %d: got item %d want %d", i, items[i].ItemID, want)
		}
	}
}

func TestReconstruct_SkillsAndIgnoredEvents(t *testing.T) {
	entries, err := Reconstruct(1, map[int]int64{1: 100, 2: 200}, nil, []Event{
		{Type: EventSkillLevelUp, ParticipantID: 1, SkillSlot: 1},
		{Type: "WARD_PLACED", ParticipantID: 99},
		{Type: "ITEM_DESTROYED", ParticipantID: 1, ItemID: 2003},
		{Type: EventSkillLevelUp, ParticipantID: 1, SkillSlot: 3},
		{Type: EventSkillLevelUp, ParticipantID: 0, SkillSlot: 2},
		{Type: EventSkillLevelUp, ParticipantID: 2, SkillSlot: 2},
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0].IdentityID != 100 || len(entries[0].Skills) != 2 || entries[0].Skills[1] != 3 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].IdentityID != 200 || len(entries[1].Skills) != 1 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if len(entries[1].Items) != 0 {
		t.Fatalf("expected no item buckets, got %+v", entries[1].Items)
	}
}

func TestReconstruct_UnknownParticipant(t *testing.T) {
	_, err := Reconstruct(1, map[int]int64{1: 100}, nil, []Event{
		purchase(1, 1000, 1001),
		purchase(7, 1100, 1001),
	})
	if !errors.Is(err, ErrUnknownParticipant) {
		t.Fatalf("expected ErrUnknownParticipant, got %v", err)
	}
}

func TestReconstruct_SkippedParticipant(t *testing.T) {
	entries, err := Reconstruct(1, map[int]int64{1: 100}, []int{6}, []Event{
		purchase(6, 1000, 1001),
		purchase(1, 1100, 1001),
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if len(entries) != 1 || len(flatten(entries[0])) != 1 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
