// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/curbside/internal/abtest"
	"github.com/tomtom215/curbside/internal/cache"
	"github.com/tomtom215/curbside/internal/config"
	"github.com/tomtom215/curbside/internal/geo"
	"github.com/tomtom215/curbside/internal/logging"
	"github.com/tomtom215/curbside/internal/models"
	"github.com/tomtom215/curbside/internal/occupancy"
	"github.com/tomtom215/curbside/internal/recommend"
	ws "github.com/tomtom215/curbside/internal/websocket"
)

// Store is the persistence surface handlers depend on. *database.DB
// satisfies it; fakes suffice for handler tests.
type Store interface {
	Ping(ctx context.Context) error

	CreateSpot(ctx context.Context, spot *models.ParkingSpot) error
	GetSpot(ctx context.Context, id string) (*models.ParkingSpot, error)
	FindSpotsWithinRadius(ctx context.Context, center geo.Point, radiusM float64) ([]models.ParkingSpot, error)
	UpdateMeterStatus(ctx context.Context, spotID string, status models.MeterStatus, confidence float64, reviewCount int) error

	InsertReview(ctx context.Context, review *models.Review) error
	GetReviews(ctx context.Context, spotID string) ([]models.Review, error)
	GetReviewTexts(ctx context.Context, spotID string) ([]string, error)
}

// Handler carries the collaborators every endpoint needs.
type Handler struct {
	store     Store
	wsHub     *ws.Hub
	occupancy *occupancy.Service
	ranker    *recommend.Ranker
	assigner  *abtest.Assigner
	cache     *cache.Cache
	config    *config.Config
	startTime time.Time
}

// NewHandler creates the API handler set. cache may be nil to disable
// response caching.
func NewHandler(store Store, hub *ws.Hub, occ *occupancy.Service, ranker *recommend.Ranker, assigner *abtest.Assigner, respCache *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{
		store:     store,
		wsHub:     hub,
		occupancy: occ,
		ranker:    ranker,
		assigner:  assigner,
		cache:     respCache,
		config:    cfg,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow-client attacks.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins.
// Non-browser clients (mobile apps, scripts) omit the Origin header and
// are allowed; browser connections are checked against the configured
// CORS origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	// Fail open with no config (tests, development).
	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the connection and registers the client with the
// broadcast hub. Optional min_lat/max_lat/min_lng/max_lng query
// parameters establish an initial geographic subscription; clients can
// also subscribe later over the socket.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	if max := h.maxWSConnections(); max > 0 && h.wsHub.GetClientCount() >= max {
		logging.Warn().Int("max_connections", max).Msg("WebSocket connection rejected: hub at capacity")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Too many realtime connections", nil)
		return
	}

	bounds := boundsFromQuery(r)
	if bounds != nil {
		if err := bounds.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid subscription bounds", err)
			return
		}
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn, bounds)
	h.wsHub.Register <- client
	client.Start()
}

func (h *Handler) maxWSConnections() int {
	if h.config == nil {
		return 0
	}
	return h.config.WebSocket.MaxConnections
}

// boundsFromQuery builds a bounds filter from query parameters, nil when
// none are present.
func boundsFromQuery(r *http.Request) *geo.Bounds {
	bounds := &geo.Bounds{
		MinLat: optionalFloatParam(r, "min_lat"),
		MaxLat: optionalFloatParam(r, "max_lat"),
		MinLng: optionalFloatParam(r, "min_lng"),
		MaxLng: optionalFloatParam(r, "max_lng"),
	}
	if bounds.MinLat == nil && bounds.MaxLat == nil && bounds.MinLng == nil && bounds.MaxLng == nil {
		return nil
	}
	return bounds
}
