package domain

import "time"

// Post represents a restaurant content item eligible for ranking. Posts are
// produced by the content pipeline and are read-only to the recommender: a
// ranking pass never mutates them.
type Post struct {
	// ID uniquely identifies the content item.
	ID string `json:"id"`

	// RestaurantID identifies the restaurant the post is about. Several
	// posts may reference the same restaurant.
	RestaurantID string `json:"restaurantId"`

	// RestaurantName and ImageURL are denormalized for rendering.
	RestaurantName string `json:"restaurantName"`
	ImageURL       string `json:"imageUrl,omitempty"`

	// Cuisine is a single cuisine tag (e.g. "Japanese").
	Cuisine string `json:"cuisine"`

	// PriceRange is a price band from "$" to "$$$$".
	PriceRange string `json:"priceRange"`

	// Location is the area name (e.g. "Shoreditch"), Address the street
	// address.
	Location string `json:"location"`
	Address  string `json:"address,omitempty"`

	// Distance is the distance from the user in kilometers, if known.
	Distance *float64 `json:"distance,omitempty"`

	// Rating is the aggregate rating on a 0-5 scale.
	Rating float64 `json:"rating"`

	// ReviewCount is the number of reviews behind the rating.
	ReviewCount int `json:"reviewCount"`

	// IsOpen reports whether the restaurant is open right now, if known.
	IsOpen *bool `json:"isOpen,omitempty"`

	// FeaturedDish names the dish highlighted by the post, if any.
	FeaturedDish      string `json:"featuredDish,omitempty"`
	FeaturedDishImage string `json:"featuredDishImage,omitempty"`

	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// CreatedAt is when the post was published.
	CreatedAt time.Time `json:"createdAt"`
}

// RankedPost is a Post augmented with the recommender's output. It is built
// fresh on every ranking pass and discarded after the page is returned.
type RankedPost struct {
	Post

	// Score is the computed relevance score. Not persisted.
	Score float64 `json:"recommendationScore"`

	// MatchFactors lists the labels of every scoring rule that fired, in
	// rule-evaluation order.
	MatchFactors []string `json:"matchFactors"`

	// Reason is the single human-facing label explaining the
	// recommendation.
	Reason string `json:"recommendationReason"`
}
