// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/curbside/internal/database"
	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/models"
	"github.com/tomtom215/curbside/internal/reviews"
)

// ReviewsList returns all reviews for a spot, oldest first.
func (h *Handler) ReviewsList(w http.ResponseWriter, r *http.Request) {
	spotID := chi.URLParam(r, "id")

	if _, err := h.store.GetSpot(r.Context(), spotID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Spot not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load spot", err)
		return
	}

	reviewList, err := h.store.GetReviews(r.Context(), spotID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load reviews", err)
		return
	}

	respondSuccess(w, http.StatusOK, reviewList, models.Metadata{Count: len(reviewList)})
}

// ReviewCreate stores a review and re-derives the spot's review count
// and meter status from the full review corpus. Keyword aggregation over
// every review text decides the meter status, so one "meter broken"
// report can flip the spot once broken mentions outnumber working ones.
func (h *Handler) ReviewCreate(w http.ResponseWriter, r *http.Request) {
	spotID := chi.URLParam(r, "id")

	var req models.ReviewCreateRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	spot, err := h.store.GetSpot(r.Context(), spotID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Spot not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load spot", err)
		return
	}

	review := &models.Review{
		ID:        "rev-" + uuid.New().String()[:8],
		SpotID:    spotID,
		Rating:    req.Rating,
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.InsertReview(r.Context(), review); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store review", err)
		return
	}

	texts, err := h.store.GetReviewTexts(r.Context(), spotID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reload reviews", err)
		return
	}
	allReviews, err := h.store.GetReviews(r.Context(), spotID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reload reviews", err)
		return
	}

	status, confidence := reviews.ParseMeterStatus(texts)
	if err := h.store.UpdateMeterStatus(r.Context(), spotID, status, confidence, len(allReviews)); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update meter status", err)
		return
	}

	metrics.RecordReview(status != spot.MeterStatus, string(status))
	h.invalidateSpotCaches()

	respondSuccess(w, http.StatusCreated, review, models.Metadata{})
}
