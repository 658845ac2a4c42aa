// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/models"
)

// InsertOccupancyEvent appends a transition to the occupancy log. An
// empty event ID is assigned a fresh UUID; the assigned ID is written
// back to the event.
func (db *DB) InsertOccupancyEvent(ctx context.Context, event *models.OccupancyEvent) error {
	start := time.Now()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	query := `INSERT INTO occupancy_events (
		id, spot_id, event_type, timestamp, source, confidence, estimated_duration_minutes
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		event.ID, event.SpotID, string(event.EventType), event.Timestamp,
		event.Source, event.Confidence, event.EstimatedDurationMinutes,
	)
	metrics.RecordDBQuery("insert", "occupancy_events", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert occupancy event for %s: %w", event.SpotID, err)
	}

	return nil
}

// GetOccupancyHistory returns a spot's occupancy transitions in
// chronological order, capped at limit (0 = no cap).
func (db *DB) GetOccupancyHistory(ctx context.Context, spotID string, limit int) ([]models.OccupancyEvent, error) {
	start := time.Now()

	query := `SELECT id, spot_id, event_type, timestamp, source, confidence, estimated_duration_minutes
		FROM occupancy_events WHERE spot_id = ? ORDER BY timestamp`
	args := []interface{}{spotID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "occupancy_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query occupancy history for %s: %w", spotID, err)
	}
	defer closeWithLog(rows, "occupancy rows")

	var events []models.OccupancyEvent
	for rows.Next() {
		var (
			event    models.OccupancyEvent
			evType   string
			source   sql.NullString
			duration sql.NullInt64
		)
		if err := rows.Scan(&event.ID, &event.SpotID, &evType, &event.Timestamp,
			&source, &event.Confidence, &duration); err != nil {
			return nil, fmt.Errorf("failed to scan occupancy event: %w", err)
		}
		event.EventType = models.OccupancyEventType(evType)
		if source.Valid {
			event.Source = source.String
		}
		if duration.Valid {
			v := int(duration.Int64)
			event.EstimatedDurationMinutes = &v
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("occupancy iteration failed: %w", err)
	}

	return events, nil
}

// CountOccupancyEvents returns the number of logged transitions for a
// spot. Used to derive prediction confidence.
func (db *DB) CountOccupancyEvents(ctx context.Context, spotID string) (int, error) {
	start := time.Now()

	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM occupancy_events WHERE spot_id = ?`, spotID).Scan(&count)
	metrics.RecordDBQuery("select", "occupancy_events", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count occupancy events for %s: %w", spotID, err)
	}

	return count, nil
}
