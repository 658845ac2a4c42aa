// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/curbside/internal/logging"
	"github.com/tomtom215/curbside/internal/models"
)

// SeedMockData populates the database with demo spots around Lower
// Manhattan. Intended for demos and local development; repeated calls
// are no-ops once the spots exist.
func (db *DB) SeedMockData(ctx context.Context) error {
	var existing int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM parking_spots`).Scan(&existing); err != nil {
		return fmt.Errorf("failed to count existing spots: %w", err)
	}
	if existing > 0 {
		logging.Debug().Int("spots", existing).Msg("skipping seed, spots already present")
		return nil
	}

	logging.Info().Msg("seeding database with demo parking spots")
	now := time.Now().UTC()

	seedSpots := []struct {
		lat, lng   float64
		street     string
		safety     float64
		tourism    float64
		meter      models.MeterStatus
		confidence float64
		price      float64
		duration   int
	}{
		{40.7128, -74.0060, "Broadway", 80, 70, models.MeterWorking, 0.9, 4.0, 120},
		{40.7138, -74.0030, "Church St", 60, 50, models.MeterBroken, 0.8, 3.0, 60},
		{40.7118, -74.0090, "Park Pl", 75, 60, models.MeterWorking, 0.85, 3.5, 90},
		{40.7148, -74.0000, "Canal St", 70, 80, models.MeterWorking, 0.95, 5.0, 120},
		{40.7108, -74.0120, "Vesey St", 85, 40, models.MeterWorking, 0.9, 2.5, 180},
		{40.7158, -74.0040, "Lafayette St", 65, 55, models.MeterUnknown, 0.5, 3.0, 60},
		{40.7098, -74.0150, "West St", 90, 30, models.MeterWorking, 0.92, 2.0, 240},
		{40.7168, -74.0010, "Mulberry St", 55, 90, models.MeterBroken, 0.75, 6.0, 60},
		{40.7088, -74.0180, "Greenwich St", 78, 45, models.MeterWorking, 0.88, 3.5, 120},
		{40.7178, -74.0020, "Mott St", 68, 75, models.MeterWorking, 0.82, 4.5, 90},
	}

	for i, data := range seedSpots {
		duration := data.duration
		price := data.price
		spot := &models.ParkingSpot{
			ID:                    fmt.Sprintf("spot-%d", i+1),
			Latitude:              data.lat,
			Longitude:             data.lng,
			StreetName:            data.street,
			MaxDurationMinutes:    &duration,
			PricePerHourUSD:       &price,
			SafetyScore:           data.safety,
			TourismDensity:        data.tourism,
			MeterStatus:           data.meter,
			MeterStatusConfidence: data.confidence,
			LastUpdatedAt:         now,
		}
		if err := db.CreateSpot(ctx, spot); err != nil {
			return fmt.Errorf("failed to seed spot %s: %w", spot.ID, err)
		}
	}

	logging.Info().Int("spots", len(seedSpots)).Msg("demo data seeded")
	return nil
}
