// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/curbside/internal/abtest"
	"github.com/tomtom215/curbside/internal/geo"
	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/models"
	"github.com/tomtom215/curbside/internal/recommend"
)

// Recommendations returns ranked, personalized parking recommendations
// near (lat, lng). The user's experiment variant picks the ranking
// algorithm: ml_powered runs the learned model (with per-spot distance
// fallback), distance_only ranks purely by proximity.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	lat, ok := requireFloatParam(w, r, "lat")
	if !ok {
		return
	}
	lng, ok := requireFloatParam(w, r, "lng")
	if !ok {
		return
	}

	userID := r.URL.Query().Get("user_id")
	radiusM := getFloatParam(r, "radius_m", 1000)
	if radiusM <= 0 || radiusM > h.config.API.MaxRadiusM {
		radiusM = 1000
	}

	limit := getIntParam(r, "limit", h.config.Recommend.DefaultLimit)
	if limit <= 0 || limit > h.config.API.MaxPageSize {
		limit = h.config.Recommend.DefaultLimit
	}

	var destType *models.DestinationType
	if raw := r.URL.Query().Get("destination_type"); raw != "" {
		dt := models.DestinationType(raw)
		if !dt.Valid() {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown destination_type", nil)
			return
		}
		destType = &dt
	}

	variant := h.assigner.Assign(userID)

	destRaw := ""
	if destType != nil {
		destRaw = string(*destType)
	}

	cacheKey := ""
	if h.cache != nil {
		cacheKey = cacheKeyRecommend(userID, lat, lng, radiusM, limit, destRaw, string(variant))
		if cached, found := h.cache.Get(cacheKey); found {
			if resp, ok := cached.(*models.RecommendationResponse); ok {
				metrics.RecordCacheAccess("recommendations", true)
				// Cached rankings still count as shown.
				h.trackImpressions(userID, variant, resp, start)
				respondSuccess(w, http.StatusOK, resp, models.Metadata{
					Cached:      true,
					Count:       len(resp.Recommendations),
					QueryTimeMS: time.Since(start).Milliseconds(),
				})
				return
			}
		}
		metrics.RecordCacheAccess("recommendations", false)
	}

	spots, err := h.findSpotsNear(w, r, geo.Point{Latitude: lat, Longitude: lng}, radiusM)
	if err != nil {
		return
	}

	resp, err := h.ranker.Rank(r.Context(), &recommend.Request{
		UserID:          userID,
		Latitude:        lat,
		Longitude:       lng,
		DestinationType: destType,
		Spots:           spots,
		Limit:           limit,
		DistanceOnly:    variant == abtest.VariantDistanceOnly,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ranking request", err)
		return
	}

	if h.cache != nil && h.config.Recommend.CacheTTL > 0 {
		h.cache.SetWithTTL(cacheKey, resp, h.config.Recommend.CacheTTL)
	}

	h.trackImpressions(userID, variant, resp, start)

	respondSuccess(w, http.StatusOK, resp, models.Metadata{
		Count:       len(resp.Recommendations),
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}

// trackImpressions records shown spots for conversion tracking and the
// recommendation latency metric.
func (h *Handler) trackImpressions(userID string, variant abtest.Variant, resp *models.RecommendationResponse, start time.Time) {
	spotIDs := make([]string, 0, len(resp.Recommendations))
	for _, rec := range resp.Recommendations {
		spotIDs = append(spotIDs, rec.SpotID)
	}
	h.assigner.TrackRecommendation(userID, variant, spotIDs)
	metrics.RecordRecommendation(string(variant), time.Since(start))
}

// RecommendationSelection records that a user parked at a recommended
// spot, feeding conversion tracking for the user's variant.
func (h *Handler) RecommendationSelection(w http.ResponseWriter, r *http.Request) {
	var req models.SelectionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	variant := h.assigner.Assign(req.UserID)
	h.assigner.TrackSelection(req.UserID, variant, req.SpotID)
	metrics.RecordSelection(string(variant))

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"user_id": req.UserID,
		"spot_id": req.SpotID,
		"variant": variant,
	}, models.Metadata{})
}

// ABTestStats reports per-variant impression, selection, and conversion
// rate across the process lifetime.
func (h *Handler) ABTestStats(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, h.assigner.Stats(), models.Metadata{})
}
