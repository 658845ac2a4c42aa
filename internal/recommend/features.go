// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package recommend

import (
	"time"

	"github.com/tomtom215/curbside/internal/models"
)

// FeatureCount is the length of the assembled feature vector. It is part
// of the compatibility contract with the trained artifact: a loaded model
// declaring a different count is rejected.
const FeatureCount = 26

// UserFeatures aggregates a user's parking behavior into model inputs.
// Zero history and no preferences yield the neutral defaults from
// DefaultUserFeatures.
type UserFeatures struct {
	AvgPriceTolerance        float64
	PreferredDurationMinutes float64
	MorningPreference        float64
	AfternoonPreference      float64
	EveningPreference        float64
	NightPreference          float64
	AvgSafetyScore           float64
	AvgWalkingDistanceM      float64
	HasHistory               float64
}

// DefaultUserFeatures returns the cold-start feature values used for
// anonymous or unseen users.
func DefaultUserFeatures() UserFeatures {
	return UserFeatures{
		AvgPriceTolerance:        0.0,
		PreferredDurationMinutes: 60.0,
		AvgSafetyScore:           70.0,
		AvgWalkingDistanceM:      500.0,
	}
}

// ExtractUserFeatures derives user features from explicit preferences
// and parking history. History overrides preference-derived values for
// any signal it actually contains.
func ExtractUserFeatures(history []models.UserParkingEvent, prefs *models.UserPreferences) UserFeatures {
	f := DefaultUserFeatures()

	if len(history) == 0 && prefs == nil {
		return f
	}

	if prefs != nil {
		var min, max float64 = 0, 10
		if prefs.PreferredPriceRangeMin != nil {
			min = *prefs.PreferredPriceRangeMin
		}
		if prefs.PreferredPriceRangeMax != nil {
			max = *prefs.PreferredPriceRangeMax
		}
		f.AvgPriceTolerance = (min + max) / 2

		if prefs.PreferredDurationMinutes != nil {
			f.PreferredDurationMinutes = float64(*prefs.PreferredDurationMinutes)
		}
		if prefs.MinSafetyScore != nil {
			f.AvgSafetyScore = *prefs.MinSafetyScore
		}
		if prefs.MaxWalkingDistanceM != nil {
			f.AvgWalkingDistanceM = *prefs.MaxWalkingDistanceM
		}

		for _, t := range prefs.PreferredParkingTimes {
			switch t {
			case "morning":
				f.MorningPreference = 1.0
			case "afternoon":
				f.AfternoonPreference = 1.0
			case "evening":
				f.EveningPreference = 1.0
			case "night":
				f.NightPreference = 1.0
			}
		}
	}

	if len(history) > 0 {
		f.HasHistory = 1.0

		var priceSum float64
		var priceN int
		var durSum float64
		var durN int
		var safetySum float64
		var distSum float64
		var distN int
		timeCounts := map[string]int{}

		for _, e := range history {
			if e.PricePaidUSD != nil {
				priceSum += *e.PricePaidUSD
				priceN++
			}
			if e.DurationMinutes != nil {
				durSum += float64(*e.DurationMinutes)
				durN++
			}
			safetySum += e.SafetyScoreAtTime
			if e.DistanceToDestinationM != nil {
				distSum += *e.DistanceToDestinationM
				distN++
			}
			timeCounts[e.TimeOfDay]++
		}

		if priceN > 0 {
			f.AvgPriceTolerance = priceSum / float64(priceN)
		}
		if durN > 0 {
			f.PreferredDurationMinutes = durSum / float64(durN)
		}
		f.AvgSafetyScore = safetySum / float64(len(history))
		if distN > 0 {
			f.AvgWalkingDistanceM = distSum / float64(distN)
		}

		total := timeCounts["morning"] + timeCounts["afternoon"] + timeCounts["evening"] + timeCounts["night"]
		if total > 0 {
			f.MorningPreference = float64(timeCounts["morning"]) / float64(total)
			f.AfternoonPreference = float64(timeCounts["afternoon"]) / float64(total)
			f.EveningPreference = float64(timeCounts["evening"]) / float64(total)
			f.NightPreference = float64(timeCounts["night"]) / float64(total)
		}
	}

	return f
}

// ContextFeatures encodes the request moment and destination category.
type ContextFeatures struct {
	// HourOfDay is the current hour normalized to [0,1).
	HourOfDay float64
	IsWeekend float64
	// DayOfWeek is Monday=0..Sunday=6 normalized by 6.
	DayOfWeek float64

	DestinationRestaurant    float64
	DestinationOffice        float64
	DestinationEntertainment float64
	DestinationShopping      float64
	DestinationResidential   float64
	DestinationOther         float64
}

// ExtractContextFeatures builds the contextual feature block for the
// given time and optional destination category.
func ExtractContextFeatures(now time.Time, destination *models.DestinationType) ContextFeatures {
	// Monday-based weekday to match the training data convention.
	weekday := (int(now.Weekday()) + 6) % 7

	f := ContextFeatures{
		HourOfDay: float64(now.Hour()) / 24.0,
		DayOfWeek: float64(weekday) / 6.0,
	}
	if weekday >= 5 {
		f.IsWeekend = 1.0
	}

	if destination != nil {
		switch *destination {
		case models.DestinationRestaurant:
			f.DestinationRestaurant = 1.0
		case models.DestinationOffice:
			f.DestinationOffice = 1.0
		case models.DestinationEntertainment:
			f.DestinationEntertainment = 1.0
		case models.DestinationShopping:
			f.DestinationShopping = 1.0
		case models.DestinationResidential:
			f.DestinationResidential = 1.0
		case models.DestinationOther:
			f.DestinationOther = 1.0
		}
	}

	return f
}

// SpotFeatures encodes one candidate spot relative to the user.
type SpotFeatures struct {
	PricePerHour     float64
	SafetyScore      float64 // normalized 0-1
	TourismDensity   float64 // normalized 0-1
	DistanceToUserKm float64
	ReviewScore      float64 // normalized 0-1
	MeterWorking     float64
	MeterBroken      float64
	IsOccupied       float64
}

// defaultAssumedPrice stands in for spots without published pricing.
const defaultAssumedPrice = 5.0

// ExtractSpotFeatures builds the per-spot feature block. reviewScore is
// the spot's 0-100 review-derived quality score; distanceM the haversine
// distance from the user.
func ExtractSpotFeatures(spot *models.ParkingSpot, distanceM, reviewScore float64) SpotFeatures {
	f := SpotFeatures{
		PricePerHour:     defaultAssumedPrice,
		SafetyScore:      spot.SafetyScore / 100.0,
		TourismDensity:   spot.TourismDensity / 100.0,
		DistanceToUserKm: distanceM / 1000.0,
		ReviewScore:      reviewScore / 100.0,
	}
	if spot.PricePerHourUSD != nil {
		f.PricePerHour = *spot.PricePerHourUSD
	}
	if spot.MeterStatus == models.MeterWorking {
		f.MeterWorking = 1.0
	}
	if spot.MeterStatus == models.MeterBroken {
		f.MeterBroken = 1.0
	}
	if spot.IsOccupied {
		f.IsOccupied = 1.0
	}
	return f
}

// FeatureVector concatenates the three feature blocks in the fixed order
// the trained model expects. The order is a compatibility contract:
// changing it requires a model version bump.
func FeatureVector(user UserFeatures, ctx ContextFeatures, spot SpotFeatures) []float64 {
	return []float64{
		// User block
		user.AvgPriceTolerance,
		user.PreferredDurationMinutes,
		user.MorningPreference,
		user.AfternoonPreference,
		user.EveningPreference,
		user.NightPreference,
		user.AvgSafetyScore,
		user.AvgWalkingDistanceM,
		user.HasHistory,
		// Context block
		ctx.HourOfDay,
		ctx.IsWeekend,
		ctx.DayOfWeek,
		ctx.DestinationRestaurant,
		ctx.DestinationOffice,
		ctx.DestinationEntertainment,
		ctx.DestinationShopping,
		ctx.DestinationResidential,
		ctx.DestinationOther,
		// Spot block
		spot.PricePerHour,
		spot.SafetyScore,
		spot.TourismDensity,
		spot.DistanceToUserKm,
		spot.ReviewScore,
		spot.MeterWorking,
		spot.MeterBroken,
		spot.IsOccupied,
	}
}
