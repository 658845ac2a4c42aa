// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package recommend

import (
	"github.com/tomtom215/curbside/internal/models"
)

const maxReasons = 3

// generateReasons emits up to three explanation tags for a recommended
// spot, evaluated in a fixed priority order so the most compelling
// reasons surface first. With nothing specific to say it falls back to
// a generic tag.
func generateReasons(spot *models.ParkingSpot, user UserFeatures, distanceM float64) []string {
	reasons := make([]string, 0, maxReasons)

	if distanceM < 200 {
		reasons = append(reasons, "Very close to destination")
	} else if distanceM < 500 {
		reasons = append(reasons, "Close walking distance")
	}

	if spot.PricePerHourUSD != nil {
		// Cold-start tolerance of zero yields no price reasons, which
		// is right: we know nothing about what the user pays.
		tolerance := user.AvgPriceTolerance
		if *spot.PricePerHourUSD < tolerance*0.8 {
			reasons = append(reasons, "Great price")
		} else if *spot.PricePerHourUSD < tolerance {
			reasons = append(reasons, "Good value")
		}
	}

	if spot.SafetyScore >= 80 {
		reasons = append(reasons, "High safety score")
	} else if spot.SafetyScore >= user.AvgSafetyScore {
		reasons = append(reasons, "Meets your safety preference")
	}

	if !spot.IsOccupied {
		reasons = append(reasons, "Available now")
	}

	if spot.ReviewCount > 5 {
		reasons = append(reasons, "Highly rated")
	}

	if spot.MeterStatus == models.MeterWorking {
		reasons = append(reasons, "Meter working")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Good match for you")
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return reasons
}
