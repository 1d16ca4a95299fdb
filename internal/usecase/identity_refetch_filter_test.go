package usecase

import (
	"testing"
	"time"
)

func TestRefetchFilter_KeepsKeysForAFullWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := newRefetchFilter(time.Minute, func() time.Time { return now })

	now = now.Add(50 * time.Second)
	filter.Add("p-late")
	if !filter.Contains("p-late") {
		t.Fatalf("expected key to be remembered right after add")
	}

	// Crossing the rotation boundary must not forget a key added just before it.
	now = now.Add(20 * time.Second)
	if !filter.Contains("p-late") {
		t.Fatalf("expected key to survive the first rotation")
	}

	now = now.Add(time.Minute)
	if filter.Contains("p-late") {
		t.Fatalf("expected key to age out after the second rotation")
	}
}

func TestRefetchFilter_LongIdleForgetsEverything(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := newRefetchFilter(time.Minute, func() time.Time { return now })

	filter.Add("p1")
	now = now.Add(3 * time.Minute)
	if filter.Contains("p1") {
		t.Fatalf("expected idle filter to forget keys older than two windows")
	}
}

func TestRefetchFilter_DisabledWindow(t *testing.T) {
	filter := newRefetchFilter(0, nil)
	filter.Add("p1")
	if filter.Contains("p1") {
		t.Fatalf("expected zero window to disable the filter")
	}

	var nilFilter *refetchFilter
	nilFilter.Add("p1")
	if nilFilter.Contains("p1") {
		t.Fatalf("expected nil filter to contain nothing")
	}
}
