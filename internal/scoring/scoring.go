// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package scoring computes review-derived spot quality scores and
// context-weighted composite scores for discovery ranking.
package scoring

import (
	"math"
	"sort"

	"github.com/tomtom215/curbside/internal/models"
)

// ComputeSpotScore derives a 0-100 quality score from a spot's reviews.
// The formula rewards both average rating and review volume, with
// logarithmically diminishing returns on volume:
//
//	min(avg_rating * (1 + log10(n+1)) * 20, 100)
//
// A spot with no reviews scores exactly 0.
func ComputeSpotScore(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0.0
	}

	var sum float64
	for _, r := range reviews {
		sum += float64(r.Rating)
	}
	avg := sum / float64(len(reviews))

	bonus := math.Log10(float64(len(reviews)) + 1)
	score := avg * (1 + bonus) * 20

	return math.Min(score, 100.0)
}

// TimeOfDayWeight maps a time-of-day label to its additive composite
// score adjustment. Unrecognized or empty labels contribute nothing.
func TimeOfDayWeight(timeOfDay string) float64 {
	switch timeOfDay {
	case "morning":
		return 5
	case "afternoon":
		return 0
	case "evening":
		return -5
	case "night":
		return -10
	}
	return 0
}

// TourismBiasWeight maps a tourism preference to the multiplier applied
// to a spot's tourism density. "low" penalizes touristy areas, "high"
// favors them.
func TourismBiasWeight(bias string) float64 {
	switch bias {
	case "low":
		return -0.4
	case "medium":
		return 0
	case "high":
		return 0.4
	}
	return 0
}

// CompositeScore computes the context-weighted ranking score for one
// spot: safety plus tourism bias plus time-of-day weight, minus a
// meter-broken penalty scaled by detection confidence.
func CompositeScore(spot *models.ParkingSpot, timeOfDay, tourismBias string) float64 {
	base := spot.SafetyScore
	tourism := spot.TourismDensity * TourismBiasWeight(tourismBias)
	timeComponent := TimeOfDayWeight(timeOfDay)

	var meterPenalty float64
	if spot.MeterStatus == models.MeterBroken {
		meterPenalty = -20 * spot.MeterStatusConfidence
	}

	return base + tourism + timeComponent + meterPenalty
}

// Filters constrains and contextualizes a discovery query.
type Filters struct {
	// MinSafety drops spots whose safety score falls below it.
	MinSafety *float64
	// MaxWalkM drops spots farther than this from the destination.
	// Spots without a computed destination distance are kept.
	MaxWalkM *float64
	// TimeOfDay is one of morning, afternoon, evening, night.
	TimeOfDay string
	// TourismBias is one of low, medium, high.
	TourismBias string
}

// ScoreAndFilter computes composite scores, applies the filters, and
// returns surviving spots sorted descending by composite score. The sort
// is stable: ties preserve input order. Input spots are not mutated.
func ScoreAndFilter(spots []models.ParkingSpot, f Filters) []models.ParkingSpot {
	result := make([]models.ParkingSpot, 0, len(spots))

	for _, spot := range spots {
		if f.MaxWalkM != nil && spot.DistanceToDestinationM != nil &&
			*spot.DistanceToDestinationM > *f.MaxWalkM {
			continue
		}
		if f.MinSafety != nil && spot.SafetyScore < *f.MinSafety {
			continue
		}

		composite := CompositeScore(&spot, f.TimeOfDay, f.TourismBias)
		spot.CompositeScore = &composite
		result = append(result, spot)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return *result[i].CompositeScore > *result[j].CompositeScore
	})

	return result
}
