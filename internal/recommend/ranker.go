// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package recommend ranks candidate parking spots for a user. It blends
// a learned scoring model with a deterministic distance fallback and
// produces human-readable justification tags for every recommendation.
//
// Degraded operation is a first-class outcome, not an exception path: a
// missing or corrupt model artifact puts the ranker in fallback mode at
// construction, and any per-spot scoring failure substitutes a fallback
// score for that spot only. The active mode is observable through the
// response's model version.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curbside/internal/geo"
	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/models"
	"github.com/tomtom215/curbside/internal/scoring"
)

// FallbackVersion is reported as the model version whenever every score
// in a response came from the distance heuristic.
const FallbackVersion = "fallback/distance-v1"

// ScoreSource tells where a spot's score came from.
type ScoreSource string

const (
	// SourceModel means the learned artifact produced the score.
	SourceModel ScoreSource = "model"
	// SourceFallback means the distance heuristic produced the score.
	SourceFallback ScoreSource = "fallback"
)

// ScoreResult is a scored candidate with its provenance.
type ScoreResult struct {
	Spot      models.ParkingSpot
	Score     float64
	Source    ScoreSource
	DistanceM float64
}

// DataProvider supplies the per-user and per-spot data the ranker needs.
// Implemented by the database layer; fakes suffice for tests.
type DataProvider interface {
	// GetUserParkingHistory returns the user's past parking events,
	// empty for unseen users.
	GetUserParkingHistory(ctx context.Context, userID string) ([]models.UserParkingEvent, error)

	// GetUserPreferences returns explicit preferences, nil when unset.
	GetUserPreferences(ctx context.Context, userID string) (*models.UserPreferences, error)

	// GetReviews returns all reviews for a spot.
	GetReviews(ctx context.Context, spotID string) ([]models.Review, error)
}

// Request carries one ranking invocation. Spots are the geo-filtered
// candidates; the ranker does not re-filter by radius.
type Request struct {
	UserID          string
	Latitude        float64
	Longitude       float64
	DestinationType *models.DestinationType
	Spots           []models.ParkingSpot
	Limit           int

	// DistanceOnly forces the distance heuristic even when a model is
	// loaded. Used for the distance-ranking experiment arm.
	DistanceOnly bool
}

// Ranker scores and orders candidate spots. Safe for concurrent use:
// the model is immutable after construction and all per-request state
// is local.
type Ranker struct {
	model  *Model
	data   DataProvider
	logger zerolog.Logger

	// now is injectable so tests control contextual features.
	now func() time.Time
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) { r.now = now }
}

// NewRanker builds a Ranker, attempting to load the scoring artifact
// from modelPath. Load failure is non-fatal: the ranker starts in
// fallback mode and logs a warning. An empty modelPath skips the load
// silently.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRanker(modelPath string, data DataProvider, logger zerolog.Logger, opts ...Option) *Ranker {
	r := &Ranker{
		data:   data,
		logger: logger.With().Str("component", "recommend").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if modelPath == "" {
		r.logger.Info().Msg("No model path configured, using distance fallback ranking")
		return r
	}

	model, err := LoadModel(modelPath)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", modelPath).
			Msg("Model load failed, using distance fallback ranking")
		return r
	}

	r.model = model
	r.logger.Info().Str("model_version", model.Version()).Msg("Scoring model loaded")
	return r
}

// ModelVersion returns the loaded artifact version, or FallbackVersion
// when running degraded.
func (r *Ranker) ModelVersion() string {
	if r.model == nil {
		return FallbackVersion
	}
	return r.model.Version()
}

// ModelLoaded reports whether a learned model is active.
func (r *Ranker) ModelLoaded() bool {
	return r.model != nil
}

// Rank scores the candidates, orders them descending (stable on ties),
// truncates to the request limit, and attaches explanation tags.
func (r *Ranker) Rank(ctx context.Context, req *Request) (*models.RecommendationResponse, error) {
	user := geo.Point{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("ranking request: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	userFeatures := r.userFeatures(ctx, req.UserID)
	results := r.scoreSpots(ctx, req, user, userFeatures)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	recs := make([]models.Recommendation, 0, len(results))
	allFallback := true
	var modelCount, fallbackCount int
	for _, res := range results {
		if res.Source == SourceModel {
			allFallback = false
			modelCount++
		} else {
			fallbackCount++
		}
		recs = append(recs, models.Recommendation{
			SpotID:          res.Spot.ID,
			Score:           res.Score,
			Reasons:         generateReasons(&res.Spot, userFeatures, res.DistanceM),
			MatchConfidence: res.Score / 100.0,
		})
	}

	metrics.RecordScoreSource(string(SourceModel), modelCount)
	metrics.RecordScoreSource(string(SourceFallback), fallbackCount)

	version := r.ModelVersion()
	if req.DistanceOnly {
		version = FallbackVersion
	} else if r.model != nil && allFallback && len(recs) > 0 {
		// Every spot individually degraded; surface that.
		version = FallbackVersion
	}

	return &models.RecommendationResponse{
		Recommendations: recs,
		UserID:          req.UserID,
		ModelVersion:    version,
		GeneratedAt:     r.now().UTC(),
	}, nil
}

// userFeatures loads history and preferences, degrading to cold-start
// defaults on any provider error.
func (r *Ranker) userFeatures(ctx context.Context, userID string) UserFeatures {
	if userID == "" || r.data == nil {
		return DefaultUserFeatures()
	}

	history, err := r.data.GetUserParkingHistory(ctx, userID)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to load parking history")
		history = nil
	}
	prefs, err := r.data.GetUserPreferences(ctx, userID)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to load preferences")
		prefs = nil
	}

	return ExtractUserFeatures(history, prefs)
}

// scoreSpots produces a ScoreResult per candidate. A scoring failure for
// one spot substitutes the distance fallback for that spot only.
func (r *Ranker) scoreSpots(ctx context.Context, req *Request, user geo.Point, userFeatures UserFeatures) []ScoreResult {
	ctxFeatures := ExtractContextFeatures(r.now(), req.DestinationType)

	results := make([]ScoreResult, 0, len(req.Spots))
	for _, spot := range req.Spots {
		distance := geo.MustDistance(user, geo.Point{Latitude: spot.Latitude, Longitude: spot.Longitude})

		if r.model == nil || req.DistanceOnly {
			results = append(results, ScoreResult{
				Spot: spot, Score: fallbackScore(distance), Source: SourceFallback, DistanceM: distance,
			})
			continue
		}

		score, err := r.modelScore(ctx, &spot, distance, userFeatures, ctxFeatures)
		if err != nil {
			r.logger.Warn().Err(err).Str("spot_id", spot.ID).
				Msg("Per-spot scoring failed, using distance fallback")
			results = append(results, ScoreResult{
				Spot: spot, Score: fallbackScore(distance), Source: SourceFallback, DistanceM: distance,
			})
			continue
		}

		results = append(results, ScoreResult{
			Spot: spot, Score: score, Source: SourceModel, DistanceM: distance,
		})
	}
	return results
}

func (r *Ranker) modelScore(ctx context.Context, spot *models.ParkingSpot, distanceM float64, userFeatures UserFeatures, ctxFeatures ContextFeatures) (float64, error) {
	var reviewScore float64
	if r.data != nil {
		reviews, err := r.data.GetReviews(ctx, spot.ID)
		if err != nil {
			return 0, fmt.Errorf("load reviews: %w", err)
		}
		reviewScore = scoring.ComputeSpotScore(reviews)
	}

	vec := FeatureVector(userFeatures, ctxFeatures, ExtractSpotFeatures(spot, distanceM, reviewScore))
	p, err := r.model.Score(vec)
	if err != nil {
		return 0, err
	}

	return clamp(p*100.0, 0, 100), nil
}

// fallbackScore is the deterministic distance heuristic: one point lost
// per ten meters, floored at zero. Closer spots always outrank farther
// ones.
func fallbackScore(distanceM float64) float64 {
	return clamp(100.0-distanceM/10.0, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
