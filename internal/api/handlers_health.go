// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/curbside/internal/models"
)

// Version is the application version reported by health checks.
// Overridden at build time via -ldflags.
var Version = "1.0.0"

// Health reports comprehensive service health: database connectivity,
// websocket hub load, ranking model state, and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}

	modelLoaded := h.ranker != nil && h.ranker.ModelLoaded()

	health := models.HealthStatus{
		Status:            status,
		Version:           Version,
		DatabaseConnected: dbConnected,
		WebSocketClients:  clients,
		ModelLoaded:       modelLoaded,
		UptimeSeconds:     time.Since(h.startTime).Seconds(),
	}

	respondSuccess(w, http.StatusOK, health, models.Metadata{})
}

// HealthLive is the liveness probe: the process is up and serving.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"}, models.Metadata{})
}

// HealthReady is the readiness probe: fails until the database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || h.store.Ping(r.Context()) != nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database not ready", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"}, models.Metadata{})
}
