package domain

import (
	"testing"
	"time"
)

func TestMealTimeForHour(t *testing.T) {
	tests := []struct {
		hour int
		want MealTime
	}{
		{0, MealNone},
		{6, MealNone},
		{7, MealBreakfast},
		{10, MealBreakfast},
		{11, MealLunch},
		{14, MealLunch},
		{15, MealSnack},
		{16, MealSnack},
		{17, MealDinner},
		{21, MealDinner},
		{22, MealNone},
		{23, MealNone},
	}

	for _, tt := range tests {
		if got := MealTimeForHour(tt.hour); got != tt.want {
			t.Errorf("MealTimeForHour(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestResolveContextWeekend(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"saturday", time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC), true},
		{"sunday", time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC), true},
		{"monday", time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC), false},
		{"friday", time.Date(2025, 6, 13, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := ResolveContext(tt.now, Preferences{})
			if rctx.IsWeekend != tt.want {
				t.Errorf("IsWeekend = %v, want %v", rctx.IsWeekend, tt.want)
			}
			if rctx.DayOfWeek != tt.now.Weekday().String() {
				t.Errorf("DayOfWeek = %q, want %q", rctx.DayOfWeek, tt.now.Weekday().String())
			}
		})
	}
}

func TestResolveContextLocationPassthrough(t *testing.T) {
	now := time.Date(2025, 6, 9, 12, 30, 0, 0, time.UTC)

	loc := &GeoPoint{Lat: 51.52, Lng: -0.08}
	rctx := ResolveContext(now, Preferences{LastLocation: loc})
	if rctx.Location != loc {
		t.Errorf("Location = %v, want the preferences' last location", rctx.Location)
	}
	if rctx.MealTime != MealLunch {
		t.Errorf("MealTime = %q, want %q", rctx.MealTime, MealLunch)
	}

	rctx = ResolveContext(now, Preferences{})
	if rctx.Location != nil {
		t.Errorf("Location = %v, want nil when preferences have none", rctx.Location)
	}
}
