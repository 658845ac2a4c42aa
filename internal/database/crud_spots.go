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
	"sort"
	"time"

	"github.com/tomtom215/curbside/internal/geo"
	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/models"
)

const spotColumns = `id, latitude, longitude, street_name, max_duration_minutes,
	price_per_hour_usd, safety_score, tourism_density, meter_status,
	meter_status_confidence, review_count, is_occupied,
	estimated_availability_time, last_updated_at`

// CreateSpot inserts a new parking spot.
func (db *DB) CreateSpot(ctx context.Context, spot *models.ParkingSpot) error {
	start := time.Now()

	if spot.LastUpdatedAt.IsZero() {
		spot.LastUpdatedAt = time.Now().UTC()
	}
	if spot.MeterStatus == "" {
		spot.MeterStatus = models.MeterUnknown
	}

	query := `INSERT INTO parking_spots (
		id, latitude, longitude, street_name, max_duration_minutes,
		price_per_hour_usd, safety_score, tourism_density, meter_status,
		meter_status_confidence, review_count, is_occupied,
		estimated_availability_time, last_updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		spot.ID, spot.Latitude, spot.Longitude, spot.StreetName,
		spot.MaxDurationMinutes, spot.PricePerHourUSD, spot.SafetyScore,
		spot.TourismDensity, string(spot.MeterStatus), spot.MeterStatusConfidence,
		spot.ReviewCount, spot.IsOccupied, spot.EstimatedAvailabilityTime,
		spot.LastUpdatedAt,
	)
	metrics.RecordDBQuery("insert", "parking_spots", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert spot %s: %w", spot.ID, err)
	}

	return nil
}

// GetSpot returns a single spot by ID, or ErrNotFound.
func (db *DB) GetSpot(ctx context.Context, id string) (*models.ParkingSpot, error) {
	start := time.Now()

	query := `SELECT ` + spotColumns + ` FROM parking_spots WHERE id = ?`
	row := db.conn.QueryRowContext(ctx, query, id)

	spot, err := scanSpot(row)
	metrics.RecordDBQuery("select", "parking_spots", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("spot %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query spot %s: %w", id, err)
	}

	return spot, nil
}

// ListSpots returns all spots ordered by ID with pagination.
func (db *DB) ListSpots(ctx context.Context, limit, offset int) ([]models.ParkingSpot, error) {
	start := time.Now()

	query := `SELECT ` + spotColumns + ` FROM parking_spots ORDER BY id LIMIT ? OFFSET ?`
	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	metrics.RecordDBQuery("select", "parking_spots", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}
	defer closeWithLog(rows, "spot rows")

	return collectSpots(rows)
}

// FindSpotsWithinRadius returns every spot within radiusM meters of the
// center, nearest first, with DistanceToUserM populated. The SQL layer
// applies a bounding-box prefilter; exact haversine refinement happens
// here.
func (db *DB) FindSpotsWithinRadius(ctx context.Context, center geo.Point, radiusM float64) ([]models.ParkingSpot, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if radiusM <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %f", radiusM)
	}

	start := time.Now()
	box := geo.BoundingBox(center, radiusM)

	query := `SELECT ` + spotColumns + ` FROM parking_spots
		WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?`

	rows, err := db.conn.QueryContext(ctx, query, *box.MinLat, *box.MaxLat, *box.MinLng, *box.MaxLng)
	metrics.RecordDBQuery("select", "parking_spots", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query spots within radius: %w", err)
	}
	defer closeWithLog(rows, "spot rows")

	candidates, err := collectSpots(rows)
	if err != nil {
		return nil, err
	}

	spots := make([]models.ParkingSpot, 0, len(candidates))
	for _, spot := range candidates {
		d := geo.MustDistance(center, geo.Point{Latitude: spot.Latitude, Longitude: spot.Longitude})
		if d > radiusM {
			continue
		}
		dist := d
		spot.DistanceToUserM = &dist
		spots = append(spots, spot)
	}

	sort.SliceStable(spots, func(i, j int) bool {
		return *spots[i].DistanceToUserM < *spots[j].DistanceToUserM
	})

	return spots, nil
}

// UpdateOccupancy sets a spot's occupancy state. The availability
// estimate is stored for occupied spots and cleared when the spot
// frees up.
func (db *DB) UpdateOccupancy(ctx context.Context, spotID string, isOccupied bool, estimate *time.Time) error {
	start := time.Now()

	if !isOccupied {
		estimate = nil
	}

	query := `UPDATE parking_spots
		SET is_occupied = ?, estimated_availability_time = ?, last_updated_at = ?
		WHERE id = ?`

	res, err := db.conn.ExecContext(ctx, query, isOccupied, estimate, time.Now().UTC(), spotID)
	metrics.RecordDBQuery("update", "parking_spots", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update occupancy for %s: %w", spotID, err)
	}

	return requireRowAffected(res, spotID)
}

// UpdateMeterStatus stores the review-derived meter classification and
// the spot's new review count.
func (db *DB) UpdateMeterStatus(ctx context.Context, spotID string, status models.MeterStatus, confidence float64, reviewCount int) error {
	start := time.Now()

	query := `UPDATE parking_spots
		SET meter_status = ?, meter_status_confidence = ?, review_count = ?, last_updated_at = ?
		WHERE id = ?`

	res, err := db.conn.ExecContext(ctx, query, string(status), confidence, reviewCount, time.Now().UTC(), spotID)
	metrics.RecordDBQuery("update", "parking_spots", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update meter status for %s: %w", spotID, err)
	}

	return requireRowAffected(res, spotID)
}

// requireRowAffected converts a zero-row UPDATE into ErrNotFound.
func requireRowAffected(res sql.Result, spotID string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("spot %s: %w", spotID, ErrNotFound)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanSpot.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSpot(row rowScanner) (*models.ParkingSpot, error) {
	var (
		spot        models.ParkingSpot
		maxDuration sql.NullInt64
		price       sql.NullFloat64
		meterStatus string
		estimate    sql.NullTime
	)

	err := row.Scan(
		&spot.ID, &spot.Latitude, &spot.Longitude, &spot.StreetName,
		&maxDuration, &price, &spot.SafetyScore, &spot.TourismDensity,
		&meterStatus, &spot.MeterStatusConfidence, &spot.ReviewCount,
		&spot.IsOccupied, &estimate, &spot.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	spot.MeterStatus = models.MeterStatus(meterStatus)
	if maxDuration.Valid {
		v := int(maxDuration.Int64)
		spot.MaxDurationMinutes = &v
	}
	if price.Valid {
		v := price.Float64
		spot.PricePerHourUSD = &v
	}
	if estimate.Valid {
		t := estimate.Time
		spot.EstimatedAvailabilityTime = &t
	}

	return &spot, nil
}

func collectSpots(rows *sql.Rows) ([]models.ParkingSpot, error) {
	var spots []models.ParkingSpot
	for rows.Next() {
		spot, err := scanSpot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spot: %w", err)
		}
		spots = append(spots, *spot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("spot iteration failed: %w", err)
	}
	return spots, nil
}
