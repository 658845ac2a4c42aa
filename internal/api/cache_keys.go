// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package api

import (
	"github.com/tomtom215/curbside/internal/cache"
	"github.com/tomtom215/curbside/internal/scoring"
)

// cacheKeyDiscover derives the cache key for a discovery query from all
// parameters that affect its result.
func cacheKeyDiscover(lat, lng, radiusM float64, filters scoring.Filters) string {
	return cache.GenerateKey("discover", map[string]interface{}{
		"lat":          lat,
		"lng":          lng,
		"radius_m":     radiusM,
		"min_safety":   filters.MinSafety,
		"max_walk_m":   filters.MaxWalkM,
		"time_of_day":  filters.TimeOfDay,
		"tourism_bias": filters.TourismBias,
	})
}

// cacheKeyRecommend derives the cache key for a recommendation query.
// The variant is part of the key because the two experiment arms rank
// differently for identical inputs.
func cacheKeyRecommend(userID string, lat, lng, radiusM float64, limit int, destType, variant string) string {
	return cache.GenerateKey("recommend", map[string]interface{}{
		"user_id":          userID,
		"lat":              lat,
		"lng":              lng,
		"radius_m":         radiusM,
		"limit":            limit,
		"destination_type": destType,
		"variant":          variant,
	})
}

// invalidateSpotCaches drops every cached read after a spot mutation.
// The cache is small and short-lived, so indiscriminate clearing beats
// tracking which keys a mutation touches.
func (h *Handler) invalidateSpotCaches() {
	if h.cache != nil {
		h.cache.Clear()
	}
}
