// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/curbside/internal/geo"
	"github.com/tomtom215/curbside/internal/logging"
	"github.com/tomtom215/curbside/internal/metrics"
	"github.com/tomtom215/curbside/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for the availability wire protocol.
const (
	MessageTypeConnected          = "connected"
	MessageTypePing               = "ping"
	MessageTypePong               = "pong"
	MessageTypeSubscribe          = "subscribe"
	MessageTypeSubscribed         = "subscribed"
	MessageTypeAvailabilityUpdate = "availability_update"
	MessageTypeError              = "error"
)

// Message is the wire envelope for every frame in both directions.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// broadcastJob pairs a message with the spot coordinates used for
// per-client bounds filtering. Unfiltered jobs reach every client.
type broadcastJob struct {
	message  Message
	lat, lng float64
	filtered bool
}

// Hub maintains the set of active clients and fans availability updates
// out to the clients whose geographic subscription matches.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan broadcastJob
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan broadcastJob, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext starts the hub with context support for graceful
// shutdown. Designed for use under suture supervision: when the context
// is canceled all connected clients are closed and ctx.Err() is
// returned, so a supervisor restart never leaks connections.
//
// DETERMINISM: Uses priority-based selection so behavior is predictable
// when multiple channels are ready:
//   - Priority 1: Context cancellation (shutdown)
//   - Priority 2: Client lifecycle events (Register/Unregister)
//   - Priority 3: Broadcast messages
//
// Client state is therefore always consistent before a broadcast is
// processed.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: Check for shutdown (highest priority, non-blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: Handle client lifecycle events (non-blocking check)
		select {
		case client := <-h.Register:
			h.registerClient(client)
			continue
		case client := <-h.Unregister:
			h.unregisterClient(client)
			continue
		default:
		}

		// Priority 3: Handle broadcasts or wait for any event (blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case job := <-h.broadcast:
			h.broadcastToClients(job)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client connected")

	client.enqueue(Message{
		Type: MessageTypeConnected,
		Data: map[string]interface{}{
			"message":   "Connected to parking availability updates",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// unregisterClient removes a client. Safe to call multiple times for the
// same client: only the first removal closes its send channel, logs, and
// updates the connection gauge.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, present := h.clients[client]
	if present {
		delete(h.clients, client)
		client.closeSend()
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !present {
		return
	}
	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// logGracefulShutdown closes all clients and logs structured shutdown
// information. The context error is not logged as an error because
// cancellation is expected during graceful shutdown.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.Canceled:
		return ShutdownReasonContextCanceled
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// broadcastToClients delivers a job to every matching client in a
// deterministic order.
//
// DETERMINISM: Clients are sorted by their monotonically increasing IDs
// so delivery order is consistent across runs, which keeps tests
// reproducible and acknowledgment sequences predictable.
//
// Delivery is best-effort: a client whose send queue is full is dropped
// and unregistered without affecting delivery to the others.
func (h *Hub) broadcastToClients(job broadcastJob) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	// Track clients to remove (can't modify map during iteration)
	var toRemove []*Client

	for _, client := range clients {
		if job.filtered && !client.Subscription().Contains(job.lat, job.lng) {
			continue
		}

		if client.trySend(job.message) {
			metrics.WSMessagesSent.Inc()
		} else {
			metrics.WSBroadcastsDropped.Inc()
			// Queue full: the client can't keep up, drop it rather
			// than letting one slow reader starve the hub.
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		// closeSend, not close: the client's readPump may still be
		// enqueueing pongs or error frames.
		client.closeSend()
		delete(h.clients, client)
		logging.Warn().Uint64("client_id", client.id).Msg("dropping slow websocket client")
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

// closeAllClients closes every connected client in ID order. Called
// during shutdown.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		client.closeSend()
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
	logging.Info().Msg("closed all websocket clients during shutdown")
}

// BroadcastAvailability fans an occupancy change out to every client
// whose subscription bounds contain the spot. Clients without a
// subscription receive every update.
func (h *Hub) BroadcastAvailability(update *models.AvailabilityUpdate) {
	job := broadcastJob{
		message: Message{
			Type: MessageTypeAvailabilityUpdate,
			Data: update,
		},
		lat:      update.Latitude,
		lng:      update.Longitude,
		filtered: true,
	}

	select {
	case h.broadcast <- job:
	default:
		logging.Warn().Str("spot_id", update.SpotID).
			Msg("broadcast channel full, dropping availability update")
	}
}

// BroadcastJSON sends an unfiltered message to all connected clients.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	job := broadcastJob{
		message: Message{Type: messageType, Data: data},
	}

	select {
	case h.broadcast <- job:
	default:
		logging.Warn().Str("message_type", messageType).
			Msg("broadcast channel full, dropping message")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// boundsFromPayload extracts an optional Bounds from a subscribe frame's
// data payload. A nil result means "subscribe to everything".
func boundsFromPayload(data map[string]interface{}) *geo.Bounds {
	raw, ok := data["bounds"].(map[string]interface{})
	if !ok {
		return nil
	}

	read := func(key string) *float64 {
		if v, ok := raw[key].(float64); ok {
			return &v
		}
		return nil
	}

	b := &geo.Bounds{
		MinLat: read("min_lat"),
		MaxLat: read("max_lat"),
		MinLng: read("min_lng"),
		MaxLng: read("max_lng"),
	}
	if b.MinLat == nil && b.MaxLat == nil && b.MinLng == nil && b.MaxLng == nil {
		return nil
	}
	return b
}
