// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Occupancy event processing and availability predictions
// - Recommendation ranking (model vs fallback, A/B variants)
// - Cache efficiency
// - WebSocket connections

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Occupancy Metrics
	OccupancyEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "occupancy_events_total",
			Help: "Total number of occupancy events processed",
		},
		[]string{"event_type"}, // "occupied", "available"
	)

	OccupancyEventDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "occupancy_event_duration_seconds",
			Help:    "Time to process an occupancy event end to end",
			Buckets: prometheus.DefBuckets,
		},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_predictions_total",
			Help: "Total number of availability predictions produced",
		},
		[]string{"basis"}, // "estimate", "history", "max_duration", "default"
	)

	PredictionConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "availability_prediction_confidence",
			Help:    "Confidence values attached to availability predictions",
			Buckets: []float64{0.3, 0.5, 0.7, 0.9, 1.0},
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"variant"}, // A/B test variant
	)

	RecommendationScores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_scores_total",
			Help: "Total number of spots scored, by scoring source",
		},
		[]string{"source"}, // "model", "fallback"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation ranking in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	ABTestSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abtest_selections_total",
			Help: "Total number of recommendation selections, by variant",
		},
		[]string{"variant"},
	)

	// Review Metrics
	ReviewsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_ingested_total",
			Help: "Total number of spot reviews ingested",
		},
	)

	MeterStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meter_status_changes_total",
			Help: "Total number of meter status changes derived from reviews",
		},
		[]string{"status"}, // "working", "broken", "unknown"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "discovery", "recommendation"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSBroadcastsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_broadcasts_dropped_total",
			Help: "Total number of broadcasts dropped because a client queue was full",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordOccupancyEvent records a processed occupancy event.
func RecordOccupancyEvent(eventType string, duration time.Duration) {
	OccupancyEventsTotal.WithLabelValues(eventType).Inc()
	OccupancyEventDuration.Observe(duration.Seconds())
}

// RecordPrediction records an availability prediction and its confidence.
func RecordPrediction(basis string, confidence float64) {
	PredictionsTotal.WithLabelValues(basis).Inc()
	PredictionConfidence.Observe(confidence)
}

// RecordRecommendation records a ranking request and its duration.
func RecordRecommendation(variant string, duration time.Duration) {
	RecommendationRequests.WithLabelValues(variant).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordScoreSource counts spots scored by the model or the distance
// fallback.
func RecordScoreSource(source string, count int) {
	RecommendationScores.WithLabelValues(source).Add(float64(count))
}

// RecordSelection records a user selecting a recommended spot.
func RecordSelection(variant string) {
	ABTestSelections.WithLabelValues(variant).Inc()
}

// RecordReview records an ingested review and any resulting meter
// status change.
func RecordReview(statusChanged bool, status string) {
	ReviewsIngested.Inc()
	if statusChanged {
		MeterStatusChanges.WithLabelValues(status).Inc()
	}
}

// RecordCacheAccess records a cache hit or miss.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}
