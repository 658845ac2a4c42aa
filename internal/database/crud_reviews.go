// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/models"
)

// InsertReview stores a review. An empty ID is assigned a fresh UUID.
func (db *DB) InsertReview(ctx context.Context, review *models.Review) error {
	start := time.Now()

	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO reviews (id, spot_id, rating, text, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		review.ID, review.SpotID, review.Rating, review.Text, review.CreatedAt)
	metrics.RecordDBQuery("insert", "reviews", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert review for %s: %w", review.SpotID, err)
	}

	return nil
}

// GetReviews returns a spot's reviews, oldest first.
func (db *DB) GetReviews(ctx context.Context, spotID string) ([]models.Review, error) {
	start := time.Now()

	query := `SELECT id, spot_id, rating, text, created_at FROM reviews
		WHERE spot_id = ? ORDER BY created_at`

	rows, err := db.conn.QueryContext(ctx, query, spotID)
	metrics.RecordDBQuery("select", "reviews", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews for %s: %w", spotID, err)
	}
	defer closeWithLog(rows, "review rows")

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(&review.ID, &review.SpotID, &review.Rating,
			&review.Text, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("review iteration failed: %w", err)
	}

	return reviews, nil
}

// GetReviewTexts returns just the free-text bodies of a spot's reviews,
// the input to meter status aggregation.
func (db *DB) GetReviewTexts(ctx context.Context, spotID string) ([]string, error) {
	reviews, err := db.GetReviews(ctx, spotID)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(reviews))
	for _, review := range reviews {
		if review.Text != "" {
			texts = append(texts, review.Text)
		}
	}
	return texts, nil
}
