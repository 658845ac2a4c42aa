// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability and caching information.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"spots": [...]},
//	  "metadata": {
//	    "timestamp": "2026-08-29T12:00:00Z",
//	    "query_time_ms": 4,
//	    "cached": false
//	  }
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
//
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - Count: Number of items in a list response (omitted for single items)
//   - QueryTimeMS: Query execution time in milliseconds (0 if cached)
//   - Cached: Whether response was served from cache (omitted if false)
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Count       int       `json:"count,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Error codes used across the API:
//   - VALIDATION_ERROR: Invalid input parameters
//   - INVALID_REQUEST: Malformed request body or query string
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - SERVICE_UNAVAILABLE: Dependent subsystem not ready
//   - INTERNAL_ERROR: Unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus reports overall service health for the /health endpoint.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	WebSocketClients  int     `json:"websocket_clients"`
	ModelLoaded       bool    `json:"model_loaded"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// SpotCreateRequest creates a new parking spot. Intended for development
// and seeding; production spot data comes from curated imports.
type SpotCreateRequest struct {
	Latitude              float64  `json:"latitude" validate:"required_with=Longitude,latitude"`
	Longitude             float64  `json:"longitude" validate:"longitude"`
	StreetName            string   `json:"street_name" validate:"required,max=200"`
	MaxDurationMinutes    *int     `json:"max_duration_minutes,omitempty" validate:"omitempty,min=1,max=1440"`
	PricePerHourUSD       *float64 `json:"price_per_hour_usd,omitempty" validate:"omitempty,min=0"`
	SafetyScore           float64  `json:"safety_score" validate:"min=0,max=100"`
	TourismDensity        float64  `json:"tourism_density" validate:"min=0,max=100"`
	MeterStatus           string   `json:"meter_status" validate:"required,oneof=working broken unknown"`
	MeterStatusConfidence float64  `json:"meter_status_confidence" validate:"min=0,max=1"`
}

// OccupancyUpdateRequest reports a spot's occupancy transition.
type OccupancyUpdateRequest struct {
	IsOccupied               bool `json:"is_occupied"`
	EstimatedDurationMinutes *int `json:"estimated_duration_minutes,omitempty" validate:"omitempty,min=1,max=1440"`
}

// OccupancyUpdateResponse echoes the applied state plus the availability
// prediction made for occupied transitions.
type OccupancyUpdateResponse struct {
	SpotID                    string     `json:"spot_id"`
	IsOccupied                bool       `json:"is_occupied"`
	EstimatedAvailabilityTime *time.Time `json:"estimated_availability_time"`
	PredictionConfidence      float64    `json:"prediction_confidence"`
	Timestamp                 time.Time  `json:"timestamp"`
}

// ReviewCreateRequest submits a rating and comment for a spot.
type ReviewCreateRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"max=2000"`
}

// SelectionRequest records that a user picked a recommended spot,
// feeding A/B conversion tracking.
type SelectionRequest struct {
	UserID string `json:"user_id" validate:"required,max=100"`
	SpotID string `json:"spot_id" validate:"required,max=100"`
}

// VariantStats reports conversion metrics for one ranking variant.
type VariantStats struct {
	ConversionRate float64 `json:"conversion_rate"`
	Impressions    int64   `json:"impressions"`
	Selections     int64   `json:"selections"`
}
