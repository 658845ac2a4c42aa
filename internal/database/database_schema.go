// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

/*
database_schema.go - Database Schema Management

Tables:
  - parking_spots: Canonical spot registry with static attributes,
    review-derived meter status, and current occupancy state
  - occupancy_events: Append-only log of occupancy transitions; the
    ordered per-spot sequence feeds the availability predictor
  - reviews: User-submitted ratings and free text per spot
  - user_parking_events: Completed parking decisions per user, feeding
    recommender feature extraction
  - user_preferences: Explicit per-user preferences

Index Strategy:
  - parking_spots(latitude, longitude) for bounding-box prefilters
  - occupancy_events(spot_id, timestamp) for ordered history reads
  - reviews(spot_id) and user_parking_events(user_id, timestamp)
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS parking_spots (
			id TEXT PRIMARY KEY,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			street_name TEXT NOT NULL,
			max_duration_minutes INTEGER,
			price_per_hour_usd DOUBLE,
			safety_score DOUBLE NOT NULL DEFAULT 50,
			tourism_density DOUBLE NOT NULL DEFAULT 0,
			meter_status TEXT NOT NULL DEFAULT 'unknown',
			meter_status_confidence DOUBLE NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			is_occupied BOOLEAN NOT NULL DEFAULT FALSE,
			estimated_availability_time TIMESTAMP,
			last_updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS occupancy_events (
			id UUID PRIMARY KEY,
			spot_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			source TEXT,
			confidence DOUBLE NOT NULL DEFAULT 1.0,
			estimated_duration_minutes INTEGER,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			spot_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS user_parking_events (
			user_id TEXT NOT NULL,
			spot_id TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			time_of_day TEXT NOT NULL,
			day_of_week INTEGER NOT NULL,
			duration_minutes INTEGER,
			price_paid_usd DOUBLE,
			final_destination_type TEXT,
			user_rating INTEGER,
			safety_score_at_time DOUBLE NOT NULL DEFAULT 0,
			distance_to_destination_m DOUBLE
		)`,

		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id TEXT PRIMARY KEY,
			preferred_price_range_min DOUBLE,
			preferred_price_range_max DOUBLE,
			max_walking_distance_m DOUBLE,
			min_safety_score DOUBLE,
			preferred_duration_minutes INTEGER,
			preferred_parking_times TEXT,
			preferred_destination_types TEXT,
			last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
}

// createIndexes creates indexes for the common query patterns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_spots_location ON parking_spots(latitude, longitude)`,
		`CREATE INDEX IF NOT EXISTS idx_occupancy_spot_time ON occupancy_events(spot_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_spot ON reviews(spot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_events_user_time ON user_parking_events(user_id, timestamp)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}
