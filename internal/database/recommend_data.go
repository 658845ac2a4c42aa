// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package database

import (
	"context"
	"errors"

	"github.com/tomtom215/curbside/internal/models"
)

// recommendHistoryLimit caps how many past parking events feed the
// feature extractor. Older events add little signal.
const recommendHistoryLimit = 200

// RecommendData adapts DB to the recommendation ranker's data contract:
// unseen users yield empty history and nil preferences rather than
// ErrNotFound.
type RecommendData struct {
	db *DB
}

// NewRecommendData wraps db for use as a ranker data provider.
func NewRecommendData(db *DB) *RecommendData {
	return &RecommendData{db: db}
}

// GetUserParkingHistory returns the user's most recent parking events,
// empty for unseen users.
func (r *RecommendData) GetUserParkingHistory(ctx context.Context, userID string) ([]models.UserParkingEvent, error) {
	return r.db.GetUserParkingHistory(ctx, userID, recommendHistoryLimit)
}

// GetUserPreferences returns explicit preferences, nil when none are
// stored.
func (r *RecommendData) GetUserPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	prefs, err := r.db.GetUserPreferences(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return prefs, err
}

// GetReviews returns all reviews for a spot.
func (r *RecommendData) GetReviews(ctx context.Context, spotID string) ([]models.Review, error) {
	return r.db.GetReviews(ctx, spotID)
}
