package domain

import (
	"slices"
	"testing"
)

func TestRecordInteractionAccumulates(t *testing.T) {
	b := Behavior{}

	b = RecordInteraction(b, "r1", InteractionSave)
	b = RecordInteraction(b, "r1", InteractionCheckIn)

	if got := b.InteractionScores["r1"]; got != 8 {
		t.Errorf("interaction score = %d, want 8", got)
	}
	if !slices.Equal(b.SavedRestaurants, []string{"r1"}) {
		t.Errorf("saved = %v, want [r1]", b.SavedRestaurants)
	}
	if !slices.Equal(b.CheckedInRestaurants, []string{"r1"}) {
		t.Errorf("checked in = %v, want [r1]", b.CheckedInRestaurants)
	}
}

func TestRecordInteractionPoints(t *testing.T) {
	tests := []struct {
		kind InteractionKind
		want int
	}{
		{InteractionView, 1},
		{InteractionSave, 3},
		{InteractionCheckIn, 5},
	}

	for _, tt := range tests {
		b := RecordInteraction(Behavior{}, "r1", tt.kind)
		if got := b.InteractionScores["r1"]; got != tt.want {
			t.Errorf("%s: score = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

// Repeat events append and increment without deduplication. The unbounded
// list growth is current product behavior and this test pins it; change it
// deliberately or not at all.
func TestRecordInteractionNotIdempotent(t *testing.T) {
	b := Behavior{}
	for range 3 {
		b = RecordInteraction(b, "r1", InteractionView)
	}

	if !slices.Equal(b.ViewedRestaurants, []string{"r1", "r1", "r1"}) {
		t.Errorf("viewed = %v, want three copies of r1", b.ViewedRestaurants)
	}
	if got := b.InteractionScores["r1"]; got != 3 {
		t.Errorf("score = %d, want 3", got)
	}
}

func TestRecordInteractionDoesNotMutateInput(t *testing.T) {
	original := Behavior{
		ViewedRestaurants: []string{"r0"},
		InteractionScores: map[string]int{"r0": 2},
	}

	updated := RecordInteraction(original, "r1", InteractionView)

	if !slices.Equal(original.ViewedRestaurants, []string{"r0"}) {
		t.Errorf("input viewed list changed: %v", original.ViewedRestaurants)
	}
	if len(original.InteractionScores) != 1 || original.InteractionScores["r0"] != 2 {
		t.Errorf("input scores changed: %v", original.InteractionScores)
	}
	if updated.InteractionScores["r1"] != 1 || updated.InteractionScores["r0"] != 2 {
		t.Errorf("updated scores = %v", updated.InteractionScores)
	}
}

func TestRecordInteractionUnknownKind(t *testing.T) {
	b := Behavior{}
	got := RecordInteraction(b, "r1", InteractionKind("share"))

	if len(got.InteractionScores) != 0 {
		t.Errorf("unknown kind changed scores: %v", got.InteractionScores)
	}
	if len(got.ViewedRestaurants)+len(got.SavedRestaurants)+len(got.CheckedInRestaurants) != 0 {
		t.Errorf("unknown kind changed lists: %+v", got)
	}
}
