// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package models

import "time"

// DestinationType categorizes where the user is ultimately heading.
type DestinationType string

const (
	DestinationRestaurant    DestinationType = "restaurant"
	DestinationOffice        DestinationType = "office"
	DestinationEntertainment DestinationType = "entertainment"
	DestinationShopping      DestinationType = "shopping"
	DestinationResidential   DestinationType = "residential"
	DestinationOther         DestinationType = "other"
)

// Valid reports whether d is a known destination category.
func (d DestinationType) Valid() bool {
	switch d {
	case DestinationRestaurant, DestinationOffice, DestinationEntertainment,
		DestinationShopping, DestinationResidential, DestinationOther:
		return true
	}
	return false
}

// UserParkingEvent records one completed parking decision by a user.
// These events feed user feature extraction for the recommender.
type UserParkingEvent struct {
	UserID    string    `json:"user_id"`
	SpotID    string    `json:"spot_id"`
	Timestamp time.Time `json:"timestamp"`

	// TimeOfDay is one of morning, afternoon, evening, night.
	TimeOfDay string `json:"time_of_day"`
	// DayOfWeek is 0=Monday through 6=Sunday.
	DayOfWeek int `json:"day_of_week"`

	DurationMinutes        *int             `json:"duration_minutes,omitempty"`
	PricePaidUSD           *float64         `json:"price_paid_usd,omitempty"`
	FinalDestinationType   *DestinationType `json:"final_destination_type,omitempty"`
	UserRating             *int             `json:"user_rating,omitempty"`
	SafetyScoreAtTime      float64          `json:"safety_score_at_time"`
	DistanceToDestinationM *float64         `json:"distance_to_destination_m,omitempty"`
}

// UserPreferences holds a user's explicit parking preferences. All fields
// except UserID are optional; the recommender falls back to neutral
// defaults for anything unset.
type UserPreferences struct {
	UserID                    string            `json:"user_id"`
	PreferredPriceRangeMin    *float64          `json:"preferred_price_range_min,omitempty"`
	PreferredPriceRangeMax    *float64          `json:"preferred_price_range_max,omitempty"`
	MaxWalkingDistanceM       *float64          `json:"max_walking_distance_m,omitempty"`
	MinSafetyScore            *float64          `json:"min_safety_score,omitempty"`
	PreferredDurationMinutes  *int              `json:"preferred_duration_minutes,omitempty"`
	PreferredParkingTimes     []string          `json:"preferred_parking_times,omitempty"`
	PreferredDestinationTypes []DestinationType `json:"preferred_destination_types,omitempty"`
	LastUpdated               time.Time         `json:"last_updated"`
}

// Recommendation is a single ranked spot with its score and explanation.
type Recommendation struct {
	SpotID string `json:"spot_id"`
	// Score is the recommendation confidence on a 0-100 scale.
	Score float64 `json:"score"`
	// Reasons holds at most three human-readable explanation tags.
	Reasons []string `json:"reasons"`
	// MatchConfidence is Score/100.
	MatchConfidence float64 `json:"match_confidence"`
}

// RecommendationResponse wraps a ranked recommendation list with the
// model version that produced it. ModelVersion distinguishes learned
// scoring from degraded fallback mode.
type RecommendationResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	UserID          string           `json:"user_id,omitempty"`
	ModelVersion    string           `json:"model_version"`
	GeneratedAt     time.Time        `json:"generated_at"`
}
