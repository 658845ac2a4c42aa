// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package occupancy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/models"
	"github.com/tomtom215/curbside/internal/predictor"
)

// Store is the persistence surface the service needs. *database.DB
// satisfies it.
type Store interface {
	GetSpot(ctx context.Context, id string) (*models.ParkingSpot, error)
	InsertOccupancyEvent(ctx context.Context, event *models.OccupancyEvent) error
	GetOccupancyHistory(ctx context.Context, spotID string, limit int) ([]models.OccupancyEvent, error)
	UpdateOccupancy(ctx context.Context, spotID string, isOccupied bool, estimatedAvailabilityTime *time.Time) error
}

// Broadcaster pushes availability updates to connected clients.
// *websocket.Hub satisfies it.
type Broadcaster interface {
	BroadcastAvailability(update *models.AvailabilityUpdate)
}

// Report is a single occupancy status change for a spot.
type Report struct {
	IsOccupied               bool
	EstimatedDurationMinutes *int
	Source                   string
	Confidence               float64
}

// Result describes the spot state after a report has been applied.
type Result struct {
	SpotID                    string     `json:"spot_id"`
	IsOccupied                bool       `json:"is_occupied"`
	EstimatedAvailabilityTime *time.Time `json:"estimated_availability_time,omitempty"`
	PredictionConfidence      *float64   `json:"prediction_confidence,omitempty"`
	Timestamp                 time.Time  `json:"timestamp"`
}

// Service applies occupancy reports: it logs the event, predicts when an
// occupied spot will free up, persists the new state, and broadcasts the
// change. Reports for the same spot are serialized so concurrent
// check-ins cannot interleave their read-predict-write sequences.
type Service struct {
	store Store
	hub   Broadcaster

	// spotLocks holds one *sync.Mutex per spot ID.
	spotLocks sync.Map

	// now is replaceable in tests.
	now func() time.Time
}

// New creates an occupancy service. hub may be nil when no realtime
// delivery is wired (tests, batch imports).
func New(store Store, hub Broadcaster) *Service {
	return &Service{
		store: store,
		hub:   hub,
		now:   time.Now,
	}
}

// Apply processes one occupancy report for spotID. Returns the resulting
// spot availability state, or the store's error (including
// database.ErrNotFound for unknown spots) with no broadcast sent.
func (s *Service) Apply(ctx context.Context, spotID string, report Report) (*Result, error) {
	start := time.Now()

	lock := s.lockFor(spotID)
	lock.Lock()
	defer lock.Unlock()

	spot, err := s.store.GetSpot(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("loading spot %s: %w", spotID, err)
	}

	now := s.now().UTC()

	event := models.OccupancyEvent{
		SpotID:     spotID,
		EventType:  models.EventAvailable,
		Timestamp:  now,
		Source:     report.Source,
		Confidence: report.Confidence,
	}
	if report.IsOccupied {
		event.EventType = models.EventOccupied
		event.EstimatedDurationMinutes = report.EstimatedDurationMinutes
	}
	if event.Confidence == 0 {
		event.Confidence = 1.0
	}
	if err := s.store.InsertOccupancyEvent(ctx, &event); err != nil {
		return nil, fmt.Errorf("recording occupancy event: %w", err)
	}

	result := &Result{
		SpotID:     spotID,
		IsOccupied: report.IsOccupied,
		Timestamp:  now,
	}

	if report.IsOccupied {
		history, err := s.store.GetOccupancyHistory(ctx, spotID, 0)
		if err != nil {
			return nil, fmt.Errorf("loading occupancy history: %w", err)
		}

		estimate := predictor.PredictAvailability(spot, history, now, report.EstimatedDurationMinutes)
		confidence := predictor.Confidence(history)
		basis := predictor.PredictionBasis(spot, history, report.EstimatedDurationMinutes)
		metrics.RecordPrediction(basis, confidence)

		result.EstimatedAvailabilityTime = &estimate
		result.PredictionConfidence = &confidence
	}

	if err := s.store.UpdateOccupancy(ctx, spotID, report.IsOccupied, result.EstimatedAvailabilityTime); err != nil {
		return nil, fmt.Errorf("updating spot occupancy: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastAvailability(&models.AvailabilityUpdate{
			SpotID:                    spotID,
			IsOccupied:                report.IsOccupied,
			EstimatedAvailabilityTime: result.EstimatedAvailabilityTime,
			Timestamp:                 now,
			Latitude:                  spot.Latitude,
			Longitude:                 spot.Longitude,
		})
	}

	metrics.RecordOccupancyEvent(string(event.EventType), time.Since(start))
	return result, nil
}

func (s *Service) lockFor(spotID string) *sync.Mutex {
	lock, _ := s.spotLocks.LoadOrStore(spotID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
