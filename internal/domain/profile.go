package domain

import "time"

// MealTime is a coarse classification of wall-clock time into meal buckets.
type MealTime string

const (
	MealNone      MealTime = ""
	MealBreakfast MealTime = "breakfast"
	MealLunch     MealTime = "lunch"
	MealDinner    MealTime = "dinner"
	MealSnack     MealTime = "snack"
)

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Preferences holds a user's declared tastes. Edited by the preference flows
// in the app; the recommender only reads it.
type Preferences struct {
	// FavoriteCuisines are cuisine tags the user marked as favorites.
	FavoriteCuisines []string `json:"favoriteCuisines"`

	// PriceRanges are the price bands the user accepts ("$".."$$$$").
	PriceRanges []string `json:"priceRange"`

	// DietaryRestrictions is carried for other subsystems; the ranker
	// does not score on it.
	DietaryRestrictions []string `json:"dietaryRestrictions"`

	// PreferredAreas are area names the user likes to eat in.
	PreferredAreas []string `json:"preferredAreas"`

	// PreferredMealTimes are the meal buckets the user cares about.
	PreferredMealTimes []MealTime `json:"preferredMealTimes"`

	// LastLocation is the user's last known position, if any.
	LastLocation *GeoPoint `json:"lastLocation,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Behavior holds a user's accumulated activity. It is mutated only through
// RecordInteraction; the scorer reads it.
//
// The restaurant ID lists append on every event without deduplication, so
// repeat interactions grow them. That matches the app's historical behavior
// and is covered by tests; collapsing duplicates is a product decision, not
// a cleanup.
type Behavior struct {
	SavedRestaurants     []string `json:"savedRestaurants"`
	CheckedInRestaurants []string `json:"checkedInRestaurants"`
	ViewedRestaurants    []string `json:"viewedRestaurants"`

	// RecentSearches holds the user's latest search terms, newest last.
	RecentSearches []string `json:"recentSearches"`

	// InteractionScores maps restaurant ID to a non-negative affinity
	// counter. Scores only ever increase here; decay happens elsewhere.
	InteractionScores map[string]int `json:"interactionScores"`
}
