// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package predictor estimates when an occupied parking spot will become
// available. It operates on spot snapshots and occupancy history passed
// in by the caller; it never reads storage itself.
package predictor

import (
	"sort"
	"time"

	"github.com/tomtom215/curbside/internal/models"
)

const (
	// estimateBuffer pads caller-supplied duration estimates, since
	// drivers reliably underestimate how long they park.
	estimateBuffer = 1.2

	peakMultiplier    = 1.3
	nightMultiplier   = 0.7
	weekendMultiplier = 1.2

	// maxPredictedMinutes caps history-derived predictions.
	maxPredictedMinutes = 240.0

	// defaultMinutes applies when a spot has no history and declares
	// no max duration.
	defaultMinutes = 60

	// maxDefaultMinutes caps the declared-max-duration fallback.
	maxDefaultMinutes = 120
)

// PredictAvailability estimates when the spot, transitioning to occupied
// at now, will free up. Signals are tried in priority order:
//
//  1. A caller-supplied duration estimate, padded by 20%.
//  2. Average historical dwell time, adjusted for peak/night hours and
//     weekends, capped at four hours.
//  3. The spot's declared max duration (capped at two hours), else one
//     hour.
func PredictAvailability(spot *models.ParkingSpot, history []models.OccupancyEvent, now time.Time, estimatedDurationMinutes *int) time.Time {
	if estimatedDurationMinutes != nil && *estimatedDurationMinutes > 0 {
		padded := int(float64(*estimatedDurationMinutes) * estimateBuffer)
		return now.Add(time.Duration(padded) * time.Minute)
	}

	if avg, ok := averageDwellMinutes(history); ok {
		avg = adjustForTime(avg, now)
		if avg > maxPredictedMinutes {
			avg = maxPredictedMinutes
		}
		return now.Add(time.Duration(int(avg)) * time.Minute)
	}

	minutes := defaultMinutes
	if spot.MaxDurationMinutes != nil {
		minutes = *spot.MaxDurationMinutes
		if minutes > maxDefaultMinutes {
			minutes = maxDefaultMinutes
		}
	}
	return now.Add(time.Duration(minutes) * time.Minute)
}

// averageDwellMinutes pairs consecutive occupied->available events
// chronologically and averages the dwell durations. Occupied events with
// no following available event are discarded.
func averageDwellMinutes(history []models.OccupancyEvent) (float64, bool) {
	if len(history) == 0 {
		return 0, false
	}

	events := make([]models.OccupancyEvent, len(history))
	copy(events, history)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	var durations []float64
	var checkIn *time.Time
	for i := range events {
		switch events[i].EventType {
		case models.EventOccupied:
			t := events[i].Timestamp
			checkIn = &t
		case models.EventAvailable:
			if checkIn != nil {
				durations = append(durations, events[i].Timestamp.Sub(*checkIn).Minutes())
				checkIn = nil
			}
		}
	}

	if len(durations) == 0 {
		return 0, false
	}

	var sum float64
	for _, d := range durations {
		sum += d
	}
	return sum / float64(len(durations)), true
}

// adjustForTime applies multiplicative time-pattern adjustments: longer
// stays during commute peaks and weekends, shorter stays at night.
func adjustForTime(minutes float64, now time.Time) float64 {
	hour := now.Hour()
	if (hour >= 8 && hour <= 10) || (hour >= 17 && hour <= 19) {
		minutes *= peakMultiplier
	} else if hour >= 22 || hour <= 6 {
		minutes *= nightMultiplier
	}

	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		minutes *= weekendMultiplier
	}

	return minutes
}

// Prediction basis labels, reported alongside each prediction for
// observability.
const (
	BasisEstimate    = "estimate"
	BasisHistory     = "history"
	BasisMaxDuration = "max_duration"
	BasisDefault     = "default"
)

// PredictionBasis reports which signal PredictAvailability would use for
// the given inputs, following the same priority order.
func PredictionBasis(spot *models.ParkingSpot, history []models.OccupancyEvent, estimatedDurationMinutes *int) string {
	if estimatedDurationMinutes != nil && *estimatedDurationMinutes > 0 {
		return BasisEstimate
	}
	if _, ok := averageDwellMinutes(history); ok {
		return BasisHistory
	}
	if spot.MaxDurationMinutes != nil {
		return BasisMaxDuration
	}
	return BasisDefault
}

// Confidence grades prediction reliability from history volume. It
// annotates predictions and never alters them.
func Confidence(history []models.OccupancyEvent) float64 {
	switch n := len(history); {
	case n < 3:
		return 0.3
	case n < 10:
		return 0.5
	case n < 50:
		return 0.7
	default:
		return 0.9
	}
}
