// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/curbside/internal/database"
	"github.com/tomtom215/curbside/internal/models"
	"github.com/tomtom215/curbside/internal/occupancy"
)

// OccupancyUpdate reports a spot transitioning to occupied or available.
// Occupied transitions get an availability prediction; either way the
// change is broadcast to websocket subscribers.
func (h *Handler) OccupancyUpdate(w http.ResponseWriter, r *http.Request) {
	spotID := chi.URLParam(r, "id")

	var req models.OccupancyUpdateRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	result, err := h.occupancy.Apply(r.Context(), spotID, occupancy.Report{
		IsOccupied:               req.IsOccupied,
		EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		Source:                   "user_report",
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Spot not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update occupancy", err)
		return
	}

	h.invalidateSpotCaches()

	resp := models.OccupancyUpdateResponse{
		SpotID:                    result.SpotID,
		IsOccupied:                result.IsOccupied,
		EstimatedAvailabilityTime: result.EstimatedAvailabilityTime,
		Timestamp:                 result.Timestamp,
	}
	if result.PredictionConfidence != nil {
		resp.PredictionConfidence = *result.PredictionConfidence
	}

	respondSuccess(w, http.StatusOK, resp, models.Metadata{})
}
