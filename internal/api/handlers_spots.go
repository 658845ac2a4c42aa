// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/curbside/internal/database"
	"github.com/tomtom215/curbside/internal/geo"
	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/models"
	"github.com/tomtom215/curbside/internal/scoring"
)

// SpotsList returns spots within radius_m of (lat, lng), nearest first,
// each with its review-derived quality score attached.
func (h *Handler) SpotsList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	lat, ok := requireFloatParam(w, r, "lat")
	if !ok {
		return
	}
	lng, ok := requireFloatParam(w, r, "lng")
	if !ok {
		return
	}

	radiusM := getFloatParam(r, "radius_m", h.config.API.DefaultRadiusM)
	if radiusM <= 0 || radiusM > h.config.API.MaxRadiusM {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("radius_m must be in (0, %.0f]", h.config.API.MaxRadiusM), nil)
		return
	}

	limit := getIntParam(r, "limit", h.config.API.DefaultPageSize)
	if limit <= 0 || limit > h.config.API.MaxPageSize {
		limit = h.config.API.DefaultPageSize
	}

	center := geo.Point{Latitude: lat, Longitude: lng}
	spots, err := h.findSpotsNear(w, r, center, radiusM)
	if err != nil {
		return
	}

	if len(spots) > limit {
		spots = spots[:limit]
	}
	if err := h.attachScores(r, spots); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to score spots", err)
		return
	}

	respondSuccess(w, http.StatusOK, spots, models.Metadata{
		Count:       len(spots),
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}

// SpotGet returns one spot by ID with its quality score.
func (h *Handler) SpotGet(w http.ResponseWriter, r *http.Request) {
	spotID := chi.URLParam(r, "id")

	spot, err := h.store.GetSpot(r.Context(), spotID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Spot not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load spot", err)
		return
	}

	if err := h.attachScore(r, spot); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to score spot", err)
		return
	}

	respondSuccess(w, http.StatusOK, spot, models.Metadata{})
}

// SpotCreate creates a parking spot. Intended for development and
// seeding workflows.
func (h *Handler) SpotCreate(w http.ResponseWriter, r *http.Request) {
	var req models.SpotCreateRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	spot := &models.ParkingSpot{
		ID:                    "spot-" + uuid.New().String()[:8],
		Latitude:              req.Latitude,
		Longitude:             req.Longitude,
		StreetName:            req.StreetName,
		MaxDurationMinutes:    req.MaxDurationMinutes,
		PricePerHourUSD:       req.PricePerHourUSD,
		SafetyScore:           req.SafetyScore,
		TourismDensity:        req.TourismDensity,
		MeterStatus:           models.MeterStatus(req.MeterStatus),
		MeterStatusConfidence: req.MeterStatusConfidence,
		LastUpdatedAt:         time.Now().UTC(),
	}

	if err := h.store.CreateSpot(r.Context(), spot); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create spot", err)
		return
	}

	h.invalidateSpotCaches()

	score := 0.0
	spot.Score = &score

	respondSuccess(w, http.StatusCreated, spot, models.Metadata{})
}

// SpotsDiscover runs the composite-scored discovery query: radius search
// plus contextual filters (min_safety, max_walk_m, time_of_day,
// tourism_bias), ranked by composite score descending.
func (h *Handler) SpotsDiscover(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	lat, ok := requireFloatParam(w, r, "lat")
	if !ok {
		return
	}
	lng, ok := requireFloatParam(w, r, "lng")
	if !ok {
		return
	}
	radiusM := getFloatParam(r, "radius_m", h.config.API.DefaultRadiusM)
	if radiusM <= 0 || radiusM > h.config.API.MaxRadiusM {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("radius_m must be in (0, %.0f]", h.config.API.MaxRadiusM), nil)
		return
	}

	filters := scoring.Filters{
		MinSafety:   optionalFloatParam(r, "min_safety"),
		MaxWalkM:    optionalFloatParam(r, "max_walk_m"),
		TimeOfDay:   r.URL.Query().Get("time_of_day"),
		TourismBias: r.URL.Query().Get("tourism_bias"),
	}

	cacheKey := ""
	if h.cache != nil {
		cacheKey = cacheKeyDiscover(lat, lng, radiusM, filters)
		if cached, found := h.cache.Get(cacheKey); found {
			metrics.RecordCacheAccess("discovery", true)
			respondSuccess(w, http.StatusOK, cached, models.Metadata{
				Cached:      true,
				QueryTimeMS: time.Since(start).Milliseconds(),
			})
			return
		}
		metrics.RecordCacheAccess("discovery", false)
	}

	center := geo.Point{Latitude: lat, Longitude: lng}
	spots, err := h.findSpotsNear(w, r, center, radiusM)
	if err != nil {
		return
	}

	// The query point doubles as the walking destination.
	for i := range spots {
		spots[i].DistanceToDestinationM = spots[i].DistanceToUserM
	}

	ranked := scoring.ScoreAndFilter(spots, filters)

	if h.cache != nil {
		h.cache.SetWithTTL(cacheKey, ranked, h.config.API.DiscoveryCacheTTL)
	}

	respondSuccess(w, http.StatusOK, ranked, models.Metadata{
		Count:       len(ranked),
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}

// findSpotsNear wraps the radius query, writing the error response on
// failure. Callers must return immediately on a non-nil error.
func (h *Handler) findSpotsNear(w http.ResponseWriter, r *http.Request, center geo.Point, radiusM float64) ([]models.ParkingSpot, error) {
	spots, err := h.store.FindSpotsWithinRadius(r.Context(), center, radiusM)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidCoordinate) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid coordinates", nil)
			return nil, err
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Spot search failed", err)
		return nil, err
	}
	return spots, nil
}

// attachScores computes the review-derived score for each spot in place.
func (h *Handler) attachScores(r *http.Request, spots []models.ParkingSpot) error {
	for i := range spots {
		if err := h.attachScore(r, &spots[i]); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) attachScore(r *http.Request, spot *models.ParkingSpot) error {
	reviews, err := h.store.GetReviews(r.Context(), spot.ID)
	if err != nil {
		return err
	}
	score := scoring.ComputeSpotScore(reviews)
	spot.Score = &score
	return nil
}
