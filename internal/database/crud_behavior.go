// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/models"
)

// InsertUserParkingEvent records a completed parking decision.
func (db *DB) InsertUserParkingEvent(ctx context.Context, event *models.UserParkingEvent) error {
	start := time.Now()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	var destType *string
	if event.FinalDestinationType != nil {
		s := string(*event.FinalDestinationType)
		destType = &s
	}

	query := `INSERT INTO user_parking_events (
		user_id, spot_id, timestamp, time_of_day, day_of_week,
		duration_minutes, price_paid_usd, final_destination_type,
		user_rating, safety_score_at_time, distance_to_destination_m
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		event.UserID, event.SpotID, event.Timestamp, event.TimeOfDay,
		event.DayOfWeek, event.DurationMinutes, event.PricePaidUSD,
		destType, event.UserRating, event.SafetyScoreAtTime,
		event.DistanceToDestinationM,
	)
	metrics.RecordDBQuery("insert", "user_parking_events", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert parking event for user %s: %w", event.UserID, err)
	}

	return nil
}

// GetUserParkingHistory returns a user's parking events, newest first,
// capped at limit (0 = no cap).
func (db *DB) GetUserParkingHistory(ctx context.Context, userID string, limit int) ([]models.UserParkingEvent, error) {
	start := time.Now()

	query := `SELECT user_id, spot_id, timestamp, time_of_day, day_of_week,
		duration_minutes, price_paid_usd, final_destination_type,
		user_rating, safety_score_at_time, distance_to_destination_m
		FROM user_parking_events WHERE user_id = ? ORDER BY timestamp DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "user_parking_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query parking history for user %s: %w", userID, err)
	}
	defer closeWithLog(rows, "parking event rows")

	var events []models.UserParkingEvent
	for rows.Next() {
		var (
			event    models.UserParkingEvent
			duration sql.NullInt64
			price    sql.NullFloat64
			destType sql.NullString
			rating   sql.NullInt64
			distance sql.NullFloat64
		)
		if err := rows.Scan(&event.UserID, &event.SpotID, &event.Timestamp,
			&event.TimeOfDay, &event.DayOfWeek, &duration, &price,
			&destType, &rating, &event.SafetyScoreAtTime, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan parking event: %w", err)
		}
		if duration.Valid {
			v := int(duration.Int64)
			event.DurationMinutes = &v
		}
		if price.Valid {
			v := price.Float64
			event.PricePaidUSD = &v
		}
		if destType.Valid {
			v := models.DestinationType(destType.String)
			event.FinalDestinationType = &v
		}
		if rating.Valid {
			v := int(rating.Int64)
			event.UserRating = &v
		}
		if distance.Valid {
			v := distance.Float64
			event.DistanceToDestinationM = &v
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("parking event iteration failed: %w", err)
	}

	return events, nil
}

// UpsertUserPreferences creates or replaces a user's preferences.
func (db *DB) UpsertUserPreferences(ctx context.Context, prefs *models.UserPreferences) error {
	start := time.Now()

	if prefs.LastUpdated.IsZero() {
		prefs.LastUpdated = time.Now().UTC()
	}

	destTypes := make([]string, len(prefs.PreferredDestinationTypes))
	for i, d := range prefs.PreferredDestinationTypes {
		destTypes[i] = string(d)
	}

	query := `INSERT INTO user_preferences (
		user_id, preferred_price_range_min, preferred_price_range_max,
		max_walking_distance_m, min_safety_score, preferred_duration_minutes,
		preferred_parking_times, preferred_destination_types, last_updated
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id) DO UPDATE SET
		preferred_price_range_min = EXCLUDED.preferred_price_range_min,
		preferred_price_range_max = EXCLUDED.preferred_price_range_max,
		max_walking_distance_m = EXCLUDED.max_walking_distance_m,
		min_safety_score = EXCLUDED.min_safety_score,
		preferred_duration_minutes = EXCLUDED.preferred_duration_minutes,
		preferred_parking_times = EXCLUDED.preferred_parking_times,
		preferred_destination_types = EXCLUDED.preferred_destination_types,
		last_updated = EXCLUDED.last_updated`

	_, err := db.conn.ExecContext(ctx, query,
		prefs.UserID, prefs.PreferredPriceRangeMin, prefs.PreferredPriceRangeMax,
		prefs.MaxWalkingDistanceM, prefs.MinSafetyScore, prefs.PreferredDurationMinutes,
		strings.Join(prefs.PreferredParkingTimes, ","), strings.Join(destTypes, ","),
		prefs.LastUpdated,
	)
	metrics.RecordDBQuery("upsert", "user_preferences", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences for user %s: %w", prefs.UserID, err)
	}

	return nil
}

// GetUserPreferences returns a user's stored preferences, or
// ErrNotFound when the user has never saved any.
func (db *DB) GetUserPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	start := time.Now()

	query := `SELECT user_id, preferred_price_range_min, preferred_price_range_max,
		max_walking_distance_m, min_safety_score, preferred_duration_minutes,
		preferred_parking_times, preferred_destination_types, last_updated
		FROM user_preferences WHERE user_id = ?`

	var (
		prefs     models.UserPreferences
		priceMin  sql.NullFloat64
		priceMax  sql.NullFloat64
		maxWalk   sql.NullFloat64
		minSafety sql.NullFloat64
		duration  sql.NullInt64
		times     sql.NullString
		destTypes sql.NullString
	)

	err := db.conn.QueryRowContext(ctx, query, userID).Scan(
		&prefs.UserID, &priceMin, &priceMax, &maxWalk, &minSafety,
		&duration, &times, &destTypes, &prefs.LastUpdated,
	)
	metrics.RecordDBQuery("select", "user_preferences", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("preferences for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query preferences for user %s: %w", userID, err)
	}

	if priceMin.Valid {
		prefs.PreferredPriceRangeMin = &priceMin.Float64
	}
	if priceMax.Valid {
		prefs.PreferredPriceRangeMax = &priceMax.Float64
	}
	if maxWalk.Valid {
		prefs.MaxWalkingDistanceM = &maxWalk.Float64
	}
	if minSafety.Valid {
		prefs.MinSafetyScore = &minSafety.Float64
	}
	if duration.Valid {
		v := int(duration.Int64)
		prefs.PreferredDurationMinutes = &v
	}
	if times.Valid && times.String != "" {
		prefs.PreferredParkingTimes = strings.Split(times.String, ",")
	}
	if destTypes.Valid && destTypes.String != "" {
		for _, d := range strings.Split(destTypes.String, ",") {
			prefs.PreferredDestinationTypes = append(prefs.PreferredDestinationTypes, models.DestinationType(d))
		}
	}

	return &prefs, nil
}
