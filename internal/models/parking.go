// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package models

import "time"

// MeterStatus classifies a parking meter as working, broken, or unknown.
// It is derived from review-text aggregation, never set directly by users.
type MeterStatus string

const (
	MeterWorking MeterStatus = "working"
	MeterBroken  MeterStatus = "broken"
	MeterUnknown MeterStatus = "unknown"
)

// Valid reports whether s is one of the three known meter states.
func (s MeterStatus) Valid() bool {
	return s == MeterWorking || s == MeterBroken || s == MeterUnknown
}

// ParkingSpot is the core domain entity: a single curbside parking spot
// with its static attributes, review-derived quality signals, and
// real-time occupancy state.
//
// DistanceToUserM, DistanceToDestinationM, CompositeScore, and Score are
// computed per-request and never persisted.
type ParkingSpot struct {
	ID         string  `json:"id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	StreetName string  `json:"street_name"`

	MaxDurationMinutes *int     `json:"max_duration_minutes,omitempty"`
	PricePerHourUSD    *float64 `json:"price_per_hour_usd,omitempty"`

	SafetyScore           float64     `json:"safety_score"`
	TourismDensity        float64     `json:"tourism_density"`
	MeterStatus           MeterStatus `json:"meter_status"`
	MeterStatusConfidence float64     `json:"meter_status_confidence"`

	DistanceToUserM        *float64 `json:"distance_to_user_m,omitempty"`
	DistanceToDestinationM *float64 `json:"distance_to_destination_m,omitempty"`

	ReviewCount   int       `json:"review_count"`
	LastUpdatedAt time.Time `json:"last_updated_at"`

	CompositeScore *float64 `json:"composite_score,omitempty"`
	Score          *float64 `json:"score,omitempty"`

	IsOccupied                bool       `json:"is_occupied"`
	EstimatedAvailabilityTime *time.Time `json:"estimated_availability_time,omitempty"`
}

// Review is a user-submitted rating and free-text comment for a spot.
type Review struct {
	ID        string    `json:"id"`
	SpotID    string    `json:"spot_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// OccupancyEventType marks an occupancy transition direction.
type OccupancyEventType string

const (
	// EventOccupied records a spot transitioning to occupied (check-in).
	EventOccupied OccupancyEventType = "occupied"
	// EventAvailable records a spot transitioning to available (check-out).
	EventAvailable OccupancyEventType = "available"
)

// OccupancyEvent is an immutable record of a single occupancy transition.
// The ordered per-spot sequence of these events is the input to the
// availability predictor.
type OccupancyEvent struct {
	ID         string             `json:"id"`
	SpotID     string             `json:"spot_id"`
	EventType  OccupancyEventType `json:"event_type"`
	Timestamp  time.Time          `json:"timestamp"`
	Source     string             `json:"source,omitempty"`
	Confidence float64            `json:"confidence"`

	// EstimatedDurationMinutes carries the caller-supplied duration
	// estimate for occupied events, nil otherwise.
	EstimatedDurationMinutes *int `json:"estimated_duration_minutes,omitempty"`
}

// AvailabilityUpdate is the payload broadcast to websocket subscribers
// when a spot's occupancy changes.
type AvailabilityUpdate struct {
	SpotID                    string     `json:"spot_id"`
	IsOccupied                bool       `json:"is_occupied"`
	EstimatedAvailabilityTime *time.Time `json:"estimated_availability_time"`
	Timestamp                 time.Time  `json:"timestamp"`

	// Latitude/Longitude position the update for bounds filtering.
	// They are not part of the wire payload.
	Latitude  float64 `json:"-"`
	Longitude float64 `json:"-"`
}
