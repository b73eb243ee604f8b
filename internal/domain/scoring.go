package domain

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// DefaultReason is the explanation shown when no reason-setting rule fires.
const DefaultReason = "Trending now"

// trendingWindow is how recent a post must be to qualify for the trending
// boost.
const trendingWindow = 7 * 24 * time.Hour

// ScorePost computes the relevance score for one candidate against the user's
// profile and the current context. It returns the score, the labels of every
// rule that fired, and the single human-facing reason.
//
// The rules form a fixed, ordered chain. The score is the sum of every rule
// that fired, but the reason is whichever reason-setting rule fired last in
// evaluation order. Keep new rules ordered: reordering changes which label
// users see even when scores are unchanged.
//
// Missing optional fields (distance, open-now flag) skip the dependent rule;
// scoring never fails on partial input.
func ScorePost(post Post, prefs Preferences, behavior Behavior, rctx RecommendationContext) (float64, []string, string) {
	score := 0.0
	factors := make([]string, 0, 8)
	reason := DefaultReason

	// Cuisine affinity. A saved restaurant counts for slightly less than
	// an outright favorite cuisine.
	if slices.Contains(prefs.FavoriteCuisines, post.Cuisine) {
		score += 30
		factors = append(factors, "cuisine_match")
		reason = "Your favorite cuisine"
	} else if slices.Contains(behavior.SavedRestaurants, post.RestaurantID) {
		score += 25
		factors = append(factors, "saved_before")
	}

	// Proximity, when a distance is known.
	if post.Distance != nil {
		switch d := *post.Distance; {
		case d < 1:
			score += 25
			factors = append(factors, "very_close")
			reason = "Highly rated nearby"
		case d < 2:
			score += 20
			factors = append(factors, "nearby")
		case d < 5:
			score += 10
			factors = append(factors, "accessible")
		}
	}

	// Price band match.
	if slices.Contains(prefs.PriceRanges, post.PriceRange) {
		score += 15
		factors = append(factors, "price_match")
	}

	// Rating and popularity contribute continuously for every candidate;
	// the labels only appear past their thresholds.
	score += (post.Rating / 5) * 10
	score += math.Min(float64(post.ReviewCount)/1000*5, 5)
	if post.Rating >= 4.5 {
		factors = append(factors, "highly_rated")
	}
	if post.ReviewCount > 500 {
		factors = append(factors, "popular")
		reason = "Popular in your area"
	}

	// Preferred area.
	if slices.Contains(prefs.PreferredAreas, post.Location) {
		score += 10
		factors = append(factors, "preferred_area")
	}

	// Meal-time relevance.
	if rctx.MealTime == MealLunch && post.PriceRange == "$$" {
		score += 10
		factors = append(factors, "lunch_friendly")
		reason = "Perfect for lunch"
	} else if rctx.MealTime == MealDinner && post.IsOpen != nil && *post.IsOpen {
		score += 10
		factors = append(factors, "dinner_spot")
		reason = "Great dinner spot"
	}

	// Prior interaction with this restaurant, capped at 10.
	if n := behavior.InteractionScores[post.RestaurantID]; n > 0 {
		score += math.Min(float64(n), 10)
		factors = append(factors, "previous_interest")
		reason = "Similar to places you love"
	}

	// Trending boost for fresh posts with review momentum.
	if rctx.Now.Sub(post.CreatedAt) < trendingWindow && post.ReviewCount > 300 {
		score += 5
		factors = append(factors, "trending")
		reason = "Trending now"
	}

	// Open-now bonus.
	if post.IsOpen != nil && *post.IsOpen {
		score += 5
		factors = append(factors, "open_now")
	}

	// Hidden gem: excellent rating, few reviews.
	if post.Rating >= 4.6 && post.ReviewCount < 200 {
		score += 8
		factors = append(factors, "hidden_gem")
		reason = "Hidden gem"
	}

	return score, factors, reason
}

// validatePost rejects candidates whose data would poison a ranking pass. A
// validation failure fails the whole build rather than silently skipping the
// candidate, so data-quality problems in the catalog surface immediately.
func validatePost(post Post) error {
	if post.ID == "" {
		return fmt.Errorf("empty post id")
	}
	if post.RestaurantID == "" {
		return fmt.Errorf("empty restaurant id")
	}
	if post.Rating < 0 || post.Rating > 5 {
		return fmt.Errorf("rating %v outside [0, 5]", post.Rating)
	}
	if post.ReviewCount < 0 {
		return fmt.Errorf("negative review count %d", post.ReviewCount)
	}
	return nil
}
