package domain

import (
	"maps"
	"slices"
)

// InteractionKind classifies a user action on a restaurant.
type InteractionKind string

const (
	InteractionView    InteractionKind = "view"
	InteractionSave    InteractionKind = "save"
	InteractionCheckIn InteractionKind = "checkin"
)

// Valid reports whether k is a known interaction kind.
func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionView, InteractionSave, InteractionCheckIn:
		return true
	}
	return false
}

// interactionPoints is how much each kind adds to the restaurant's affinity
// counter.
var interactionPoints = map[InteractionKind]int{
	InteractionView:    1,
	InteractionSave:    3,
	InteractionCheckIn: 5,
}

// RecordInteraction returns a copy of behavior with the given action applied:
// the restaurant ID is appended to the matching list and its interaction
// score is incremented. The input value is not mutated; the caller decides
// when to persist the result.
//
// Calls are not idempotent: repeating the same action keeps appending and
// keeps incrementing.
func RecordInteraction(behavior Behavior, restaurantID string, kind InteractionKind) Behavior {
	if !kind.Valid() {
		return behavior
	}

	scores := maps.Clone(behavior.InteractionScores)
	if scores == nil {
		scores = make(map[string]int, 1)
	}
	scores[restaurantID] += interactionPoints[kind]
	behavior.InteractionScores = scores

	switch kind {
	case InteractionView:
		behavior.ViewedRestaurants = append(slices.Clone(behavior.ViewedRestaurants), restaurantID)
	case InteractionSave:
		behavior.SavedRestaurants = append(slices.Clone(behavior.SavedRestaurants), restaurantID)
	case InteractionCheckIn:
		behavior.CheckedInRestaurants = append(slices.Clone(behavior.CheckedInRestaurants), restaurantID)
	}

	return behavior
}
