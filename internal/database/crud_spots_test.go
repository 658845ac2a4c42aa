// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/curbside/internal/geo"
	"github.com/tomtom215/curbside/internal/models"
)

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func testSpot(id string, lat, lng float64) *models.ParkingSpot {
	return &models.ParkingSpot{
		ID:                    id,
		Latitude:              lat,
		Longitude:             lng,
		StreetName:            "Test St",
		MaxDurationMinutes:    intPtr(120),
		PricePerHourUSD:       floatPtr(3.5),
		SafetyScore:           75,
		TourismDensity:        50,
		MeterStatus:           models.MeterWorking,
		MeterStatusConfidence: 0.9,
	}
}

func TestCreateAndGetSpot(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	spot := testSpot(uuid.NewString(), 40.7128, -74.0060)
	if err := db.CreateSpot(ctx, spot); err != nil {
		t.Fatalf("CreateSpot failed: %v", err)
	}

	got, err := db.GetSpot(ctx, spot.ID)
	if err != nil {
		t.Fatalf("GetSpot failed: %v", err)
	}

	if got.StreetName != "Test St" {
		t.Errorf("street = %q", got.StreetName)
	}
	if got.MaxDurationMinutes == nil || *got.MaxDurationMinutes != 120 {
		t.Errorf("max duration = %v, want 120", got.MaxDurationMinutes)
	}
	if got.MeterStatus != models.MeterWorking {
		t.Errorf("meter status = %q", got.MeterStatus)
	}
	if got.IsOccupied {
		t.Error("new spot must start available")
	}
	if got.EstimatedAvailabilityTime != nil {
		t.Error("new spot must have no availability estimate")
	}
}

func TestGetSpotNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetSpot(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFindSpotsWithinRadius(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	center := geo.Point{Latitude: 40.7128, Longitude: -74.0060}

	// ~0m, ~150m, and ~20km away.
	near := testSpot("near", 40.7128, -74.0060)
	mid := testSpot("mid", 40.7141, -74.0055)
	far := testSpot("far", 40.89, -74.0060)

	for _, s := range []*models.ParkingSpot{far, mid, near} {
		if err := db.CreateSpot(ctx, s); err != nil {
			t.Fatalf("CreateSpot(%s) failed: %v", s.ID, err)
		}
	}

	spots, err := db.FindSpotsWithinRadius(ctx, center, 500)
	if err != nil {
		t.Fatalf("FindSpotsWithinRadius failed: %v", err)
	}

	if len(spots) != 2 {
		t.Fatalf("got %d spots, want 2", len(spots))
	}
	// Nearest first.
	if spots[0].ID != "near" || spots[1].ID != "mid" {
		t.Errorf("order = [%s, %s], want [near, mid]", spots[0].ID, spots[1].ID)
	}
	if spots[0].DistanceToUserM == nil || *spots[0].DistanceToUserM > 1 {
		t.Errorf("near distance = %v, want ~0", spots[0].DistanceToUserM)
	}
	if spots[1].DistanceToUserM == nil || *spots[1].DistanceToUserM > 500 {
		t.Errorf("mid distance = %v, want <= 500", spots[1].DistanceToUserM)
	}
}

func TestFindSpotsWithinRadiusValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.FindSpotsWithinRadius(ctx, geo.Point{Latitude: 91}, 500); err == nil {
		t.Error("invalid latitude accepted")
	}
	if _, err := db.FindSpotsWithinRadius(ctx, geo.Point{}, -1); err == nil {
		t.Error("negative radius accepted")
	}
}

func TestUpdateOccupancy(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	spot := testSpot(uuid.NewString(), 40.7128, -74.0060)
	if err := db.CreateSpot(ctx, spot); err != nil {
		t.Fatal(err)
	}

	estimate := time.Now().UTC().Add(45 * time.Minute).Truncate(time.Second)
	if err := db.UpdateOccupancy(ctx, spot.ID, true, timePtr(estimate)); err != nil {
		t.Fatalf("UpdateOccupancy failed: %v", err)
	}

	got, err := db.GetSpot(ctx, spot.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsOccupied {
		t.Error("spot not marked occupied")
	}
	if got.EstimatedAvailabilityTime == nil {
		t.Fatal("availability estimate not stored")
	}

	// Freeing the spot clears the estimate even if one is passed.
	if err := db.UpdateOccupancy(ctx, spot.ID, false, timePtr(estimate)); err != nil {
		t.Fatalf("UpdateOccupancy failed: %v", err)
	}
	got, err = db.GetSpot(ctx, spot.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsOccupied {
		t.Error("spot still occupied")
	}
	if got.EstimatedAvailabilityTime != nil {
		t.Error("estimate not cleared when spot freed")
	}
}

func TestUpdateOccupancyNotFound(t *testing.T) {
	db := setupTestDB(t)

	err := db.UpdateOccupancy(context.Background(), "missing", true, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateMeterStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	spot := testSpot(uuid.NewString(), 40.7128, -74.0060)
	if err := db.CreateSpot(ctx, spot); err != nil {
		t.Fatal(err)
	}

	if err := db.UpdateMeterStatus(ctx, spot.ID, models.MeterBroken, 0.67, 3); err != nil {
		t.Fatalf("UpdateMeterStatus failed: %v", err)
	}

	got, err := db.GetSpot(ctx, spot.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.MeterStatus != models.MeterBroken {
		t.Errorf("meter status = %q, want broken", got.MeterStatus)
	}
	if got.MeterStatusConfidence != 0.67 {
		t.Errorf("confidence = %f, want 0.67", got.MeterStatusConfidence)
	}
	if got.ReviewCount != 3 {
		t.Errorf("review count = %d, want 3", got.ReviewCount)
	}
}
