// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package geo

import (
	"errors"
	"math"
	"testing"
)

func TestDistanceIdentity(t *testing.T) {
	points := []Point{
		{0, 0},
		{40.7128, -74.0060},
		{90, 0},
		{-90, 0},
		{0, 180},
		{0, -180},
	}

	for _, p := range points {
		d, err := Distance(p, p)
		if err != nil {
			t.Fatalf("Distance(%v, %v) error: %v", p, p, err)
		}
		if d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := []struct {
		a, b Point
	}{
		{Point{40.7128, -74.0060}, Point{41.7128, -74.0060}},
		{Point{0, 179.9}, Point{0, -179.9}},
		{Point{89.9, 0}, Point{89.9, 180}},
		{Point{-33.8688, 151.2093}, Point{51.5074, -0.1278}},
	}

	for _, tt := range pairs {
		ab, err := Distance(tt.a, tt.b)
		if err != nil {
			t.Fatalf("Distance(%v, %v) error: %v", tt.a, tt.b, err)
		}
		ba, err := Distance(tt.b, tt.a)
		if err != nil {
			t.Fatalf("Distance(%v, %v) error: %v", tt.b, tt.a, err)
		}
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric: Distance(a,b)=%v Distance(b,a)=%v", ab, ba)
		}
	}
}

func TestDistanceOneDegreeNorth(t *testing.T) {
	// One degree of latitude is about 111km everywhere.
	nyc := Point{40.7128, -74.0060}
	north := Point{41.7128, -74.0060}

	d, err := Distance(nyc, north)
	if err != nil {
		t.Fatalf("Distance error: %v", err)
	}
	if math.Abs(d-111000) > 1000 {
		t.Errorf("Distance = %v m, want 111000 +/- 1000", d)
	}
}

func TestDistanceAntimeridian(t *testing.T) {
	// Points straddling the antimeridian are ~22km apart at the equator,
	// not half the globe.
	a := Point{0, 179.9}
	b := Point{0, -179.9}

	d, err := Distance(a, b)
	if err != nil {
		t.Fatalf("Distance error: %v", err)
	}
	if d > 25000 {
		t.Errorf("antimeridian distance = %v m, expected ~22km", d)
	}
}

func TestDistanceInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
	}{
		{"nan latitude", Point{math.NaN(), 0}, Point{0, 0}},
		{"nan longitude", Point{0, math.NaN()}, Point{0, 0}},
		{"inf latitude", Point{math.Inf(1), 0}, Point{0, 0}},
		{"latitude too high", Point{90.1, 0}, Point{0, 0}},
		{"latitude too low", Point{-90.1, 0}, Point{0, 0}},
		{"longitude too high", Point{0, 180.1}, Point{0, 0}},
		{"longitude too low", Point{0, -180.1}, Point{0, 0}},
		{"second point invalid", Point{0, 0}, Point{91, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Distance(tt.a, tt.b); !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("expected ErrInvalidCoordinate, got %v", err)
			}
		})
	}
}

func TestBoundsContains(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		bounds   *Bounds
		lat, lng float64
		want     bool
	}{
		{"nil bounds contains everything", nil, 40.7, -74.0, true},
		{"open bounds contains everything", &Bounds{}, -89, 179, true},
		{"inside box", &Bounds{MinLat: f(40), MaxLat: f(41), MinLng: f(-75), MaxLng: f(-73)}, 40.7, -74.0, true},
		{"below min lat", &Bounds{MinLat: f(41)}, 40.7, -74.0, false},
		{"above max lat", &Bounds{MaxLat: f(40)}, 40.7, -74.0, false},
		{"west of min lng", &Bounds{MinLng: f(-73)}, 40.7, -74.0, false},
		{"east of max lng", &Bounds{MaxLng: f(-75)}, 40.7, -74.0, false},
		{"on edge", &Bounds{MinLat: f(40.7), MaxLat: f(40.7)}, 40.7, -74.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bounds.Contains(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestBoundsValidate(t *testing.T) {
	bad := math.NaN()
	b := &Bounds{MinLat: &bad}
	if err := b.Validate(); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate for NaN edge, got %v", err)
	}

	var nilBounds *Bounds
	if err := nilBounds.Validate(); err != nil {
		t.Errorf("nil bounds should validate, got %v", err)
	}
}

func TestBoundingBoxContainsCircle(t *testing.T) {
	center := Point{40.7128, -74.0060}
	radius := 1000.0

	box := BoundingBox(center, radius)

	// Points on the circle in the four cardinal directions must land
	// inside the box.
	bearings := []struct {
		dLat, dLng float64
	}{
		{radius / EarthRadiusM * 180 / math.Pi * 0.999, 0},
		{-radius / EarthRadiusM * 180 / math.Pi * 0.999, 0},
		{0, radius / EarthRadiusM * 180 / math.Pi / math.Cos(radians(center.Latitude)) * 0.999},
		{0, -radius / EarthRadiusM * 180 / math.Pi / math.Cos(radians(center.Latitude)) * 0.999},
	}

	for _, b := range bearings {
		lat := center.Latitude + b.dLat
		lng := center.Longitude + b.dLng
		if !box.Contains(lat, lng) {
			t.Errorf("bounding box excludes in-radius point (%v, %v)", lat, lng)
		}
	}
}

func TestBoundingBoxNearPole(t *testing.T) {
	box := BoundingBox(Point{89.99, 0}, 5000)
	// Longitude degenerates near the pole, the box must open to the
	// full longitude domain rather than producing an inverted range.
	if !box.Contains(89.99, 179) {
		t.Error("near-pole box should span all longitudes")
	}
}
