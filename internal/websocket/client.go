// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/curbside/internal/geo"
	"github.com/tomtom215/curbside/internal/logging"
	"github.com/tomtom215/curbside/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // 64 KB; subscribe frames are tiny
)

// clientIDCounter generates unique, monotonically increasing IDs for
// clients.
// DETERMINISM: IDs give broadcasts a consistent iteration order,
// eliminating non-deterministic map ordering.
var clientIDCounter atomic.Uint64

// Client is a middleman between one websocket connection and the hub.
// It owns its geographic subscription filter.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan Message

	// subMu guards subscription, which readPump writes and the hub's
	// broadcast loop reads.
	subMu        sync.RWMutex
	subscription *geo.Bounds

	// sendMu guards closed and every send on the send channel. The hub
	// may close a slow client while its readPump is still handling
	// inbound frames, so sends and the close must be serialized against
	// each other.
	sendMu sync.Mutex
	closed bool
}

// NewClient creates a new Client with a unique deterministic ID and an
// optional initial subscription (nil receives all updates).
func NewClient(hub *Hub, conn *websocket.Conn, bounds *geo.Bounds) *Client {
	return &Client{
		id:           clientIDCounter.Add(1),
		hub:          hub,
		conn:         conn,
		send:         make(chan Message, 256),
		subscription: bounds,
	}
}

// ID returns the client's unique identifier for deterministic ordering.
func (c *Client) ID() uint64 {
	return c.id
}

// Subscription returns the client's current bounds filter, nil meaning
// no filter.
func (c *Client) Subscription() *geo.Bounds {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return c.subscription
}

// SetSubscription replaces the client's bounds filter. Passing nil
// clears the filter so the client receives every update.
func (c *Client) SetSubscription(bounds *geo.Bounds) {
	c.subMu.Lock()
	c.subscription = bounds
	c.subMu.Unlock()
}

// enqueue offers a message to the client's send queue without blocking.
// Messages for a closed or saturated client are silently discarded.
func (c *Client) enqueue(msg Message) {
	c.trySend(msg)
}

// trySend delivers msg to the send queue without blocking. Returns
// false when the client is closed or its queue is full.
func (c *Client) trySend(msg Message) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once. Safe to call from the
// hub's drop path while readPump is still enqueueing: later sends see
// the closed flag and are discarded instead of panicking.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump pumps messages from the websocket connection to the hub,
// handling the client protocol: ping, subscribe, and everything else.
// Malformed JSON gets an error frame and the connection stays open;
// unknown message types are logged and ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close() // best-effort cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("unexpected websocket close error")
			}
			break
		}

		metrics.WSMessagesReceived.Inc()

		var msg struct {
			Type string                 `json:"type"`
			Data map[string]interface{} `json:"data"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.enqueue(Message{
				Type: MessageTypeError,
				Data: map[string]interface{}{"message": "Invalid JSON"},
			})
			continue
		}

		c.handleMessage(msg.Type, msg.Data)
	}
}

// handleMessage dispatches one inbound client frame.
func (c *Client) handleMessage(msgType string, data map[string]interface{}) {
	switch msgType {
	case MessageTypePing:
		c.enqueue(Message{
			Type: MessageTypePong,
			Data: map[string]interface{}{"timestamp": time.Now().UTC().Format(time.RFC3339)},
		})

	case MessageTypeSubscribe:
		bounds := boundsFromPayload(data)
		if err := bounds.Validate(); err != nil {
			c.enqueue(Message{
				Type: MessageTypeError,
				Data: map[string]interface{}{"message": "Invalid subscription bounds"},
			})
			return
		}
		c.SetSubscription(bounds)
		c.enqueue(Message{
			Type: MessageTypeSubscribed,
			Data: map[string]interface{}{
				"bounds":    bounds,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		})

	default:
		logging.Warn().Str("message_type", msgType).Msg("unknown websocket message type")
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // best-effort cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logging.Error().Err(err).Msg("failed to write close message")
				}
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				logging.Error().Err(err).Msg("failed to write JSON message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
