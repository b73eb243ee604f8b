package domain

import "time"

// RecommendationContext captures the temporal and spatial situation a feed
// request happens in. It is recomputed for every request and never persisted.
type RecommendationContext struct {
	// Now is the wall-clock time the context was resolved at.
	Now time.Time

	// DayOfWeek is the English day name (e.g. "Saturday").
	DayOfWeek string

	// IsWeekend reports whether Now falls on Saturday or Sunday.
	IsWeekend bool

	// MealTime is the meal bucket for the current hour, MealNone outside
	// all buckets.
	MealTime MealTime

	// Location is the user's last known position, if any. When absent,
	// distance-based scoring rules are skipped.
	Location *GeoPoint
}

// ResolveContext derives the recommendation context from the given wall-clock
// time and the user's preferences. It is a pure function and always succeeds.
func ResolveContext(now time.Time, prefs Preferences) RecommendationContext {
	day := now.Weekday()
	return RecommendationContext{
		Now:       now,
		DayOfWeek: day.String(),
		IsWeekend: day == time.Saturday || day == time.Sunday,
		MealTime:  MealTimeForHour(now.Hour()),
		Location:  prefs.LastLocation,
	}
}

// MealTimeForHour maps an hour of day (24h clock) to a meal bucket. The
// ranges do not overlap; hours outside all of them map to MealNone.
func MealTimeForHour(h int) MealTime {
	switch {
	case h >= 7 && h < 11:
		return MealBreakfast
	case h >= 11 && h < 15:
		return MealLunch
	case h >= 15 && h < 17:
		return MealSnack
	case h >= 17 && h < 22:
		return MealDinner
	default:
		return MealNone
	}
}
