// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package geo provides great-circle distance computation and bounding-box
// containment checks. Every other component that reasons about location
// goes through this package.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusM is the mean Earth radius in meters used by the haversine
// formula. Changing this value changes every distance in the system.
const EarthRadiusM = 6371000.0

// Point is a coordinate pair in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Validate rejects NaN, infinite, and out-of-range coordinates.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) {
		return fmt.Errorf("%w: latitude is not a number", ErrInvalidCoordinate)
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return fmt.Errorf("%w: longitude is not a number", ErrInvalidCoordinate)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, p.Longitude)
	}
	return nil
}

// ErrInvalidCoordinate is returned when a coordinate is NaN, infinite,
// or outside the valid latitude/longitude domain.
var ErrInvalidCoordinate = fmt.Errorf("invalid coordinate")

// Distance returns the great-circle distance between a and b in meters
// using the haversine formula. The result is symmetric and zero for
// identical points.
func Distance(a, b Point) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return distance(a, b), nil
}

// MustDistance is Distance for coordinates already known to be valid,
// such as values loaded from storage. It panics on invalid input.
func MustDistance(a, b Point) float64 {
	d, err := Distance(a, b)
	if err != nil {
		panic(err)
	}
	return d
}

func distance(a, b Point) float64 {
	lat1 := radians(a.Latitude)
	lon1 := radians(a.Longitude)
	lat2 := radians(b.Latitude)
	lon2 := radians(b.Longitude)

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	sinLat := math.Sin(dlat / 2)
	sinLon := math.Sin(dlon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusM * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Bounds is a latitude/longitude bounding box used for websocket
// subscription filtering. Any nil edge is unbounded on that side.
type Bounds struct {
	MinLat *float64 `json:"min_lat"`
	MaxLat *float64 `json:"max_lat"`
	MinLng *float64 `json:"min_lng"`
	MaxLng *float64 `json:"max_lng"`
}

// Contains reports whether the point falls within the bounds. A nil
// receiver or fully-open bounds contains every point.
func (b *Bounds) Contains(lat, lng float64) bool {
	if b == nil {
		return true
	}
	if b.MinLat != nil && lat < *b.MinLat {
		return false
	}
	if b.MaxLat != nil && lat > *b.MaxLat {
		return false
	}
	if b.MinLng != nil && lng < *b.MinLng {
		return false
	}
	if b.MaxLng != nil && lng > *b.MaxLng {
		return false
	}
	return true
}

// Validate rejects bounds with any NaN or out-of-range edge.
func (b *Bounds) Validate() error {
	if b == nil {
		return nil
	}
	check := func(name string, v *float64, min, max float64) error {
		if v == nil {
			return nil
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < min || *v > max {
			return fmt.Errorf("%w: %s %v out of range [%v, %v]", ErrInvalidCoordinate, name, *v, min, max)
		}
		return nil
	}
	if err := check("min_lat", b.MinLat, -90, 90); err != nil {
		return err
	}
	if err := check("max_lat", b.MaxLat, -90, 90); err != nil {
		return err
	}
	if err := check("min_lng", b.MinLng, -180, 180); err != nil {
		return err
	}
	return check("max_lng", b.MaxLng, -180, 180)
}

// BoundingBox returns a rectangle that fully contains the circle of
// radiusM meters around center. Used as a cheap SQL prefilter before
// exact haversine refinement; near the poles the longitude span widens
// to the full domain.
func BoundingBox(center Point, radiusM float64) Bounds {
	latDelta := radiusM / EarthRadiusM * 180 / math.Pi

	minLat := math.Max(center.Latitude-latDelta, -90)
	maxLat := math.Min(center.Latitude+latDelta, 90)

	minLng := -180.0
	maxLng := 180.0
	cosLat := math.Cos(radians(center.Latitude))
	if cosLat > 1e-9 {
		lngDelta := latDelta / cosLat
		if lngDelta < 180 {
			minLng = center.Longitude - lngDelta
			maxLng = center.Longitude + lngDelta
			if minLng < -180 {
				minLng = -180
			}
			if maxLng > 180 {
				maxLng = 180
			}
		}
	}

	return Bounds{MinLat: &minLat, MaxLat: &maxLat, MinLng: &minLng, MaxLng: &maxLng}
}
