// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package websocket

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/curbside/internal/geo"
	"github.com/tomtom215/curbside/internal/logging"
	"github.com/tomtom215/curbside/internal/models"
)

func init() {
	// Suppress hub logging noise in tests.
	logging.SetLogger(logging.NewTestLogger(io.Discard))
}

// setupHub starts a hub under a cancelable context and returns it with
// its cancel func. The hub goroutine exits when the test cancels.
func setupHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.RunWithContext(ctx) }()
	return hub, cancel
}

// createTestClient builds a client without a network connection; tests
// read its send channel directly instead of running the write pump.
func createTestClient(hub *Hub, bounds *geo.Bounds) *Client {
	return NewClient(hub, nil, bounds)
}

// registerClient registers and waits for the welcome frame.
func registerClient(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	hub.Register <- client

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeConnected {
			t.Fatalf("first frame = %q, want %q", msg.Type, MessageTypeConnected)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for welcome frame")
	}
}

func recvMessage(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case msg := <-client.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func assertNoMessage(t *testing.T, client *Client) {
	t.Helper()
	select {
	case msg := <-client.send:
		t.Fatalf("unexpected message %q", msg.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func updateAt(spotID string, lat, lng float64) *models.AvailabilityUpdate {
	return &models.AvailabilityUpdate{
		SpotID:     spotID,
		IsOccupied: true,
		Timestamp:  time.Now().UTC(),
		Latitude:   lat,
		Longitude:  lng,
	}
}

func f(v float64) *float64 { return &v }

func TestHubRegisterSendsWelcome(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	client := createTestClient(hub, nil)
	registerClient(t, hub, client)

	if got := hub.GetClientCount(); got != 1 {
		t.Errorf("client count = %d, want 1", got)
	}
}

func TestHubBroadcastReachesUnsubscribedClient(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	client := createTestClient(hub, nil)
	registerClient(t, hub, client)

	hub.BroadcastAvailability(updateAt("spot-1", 40.7128, -74.0060))

	msg := recvMessage(t, client)
	if msg.Type != MessageTypeAvailabilityUpdate {
		t.Fatalf("message type = %q, want availability_update", msg.Type)
	}
	update, ok := msg.Data.(*models.AvailabilityUpdate)
	if !ok {
		t.Fatalf("payload type %T, want *models.AvailabilityUpdate", msg.Data)
	}
	if update.SpotID != "spot-1" {
		t.Errorf("spot id = %q, want spot-1", update.SpotID)
	}
}

func TestHubBoundsFiltering(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	// Manhattan box.
	inBounds := createTestClient(hub, &geo.Bounds{
		MinLat: f(40.70), MaxLat: f(40.80), MinLng: f(-74.02), MaxLng: f(-73.93),
	})
	// Box far away in London.
	outOfBounds := createTestClient(hub, &geo.Bounds{
		MinLat: f(51.0), MaxLat: f(52.0), MinLng: f(-1.0), MaxLng: f(1.0),
	})
	unfiltered := createTestClient(hub, nil)

	registerClient(t, hub, inBounds)
	registerClient(t, hub, outOfBounds)
	registerClient(t, hub, unfiltered)

	hub.BroadcastAvailability(updateAt("spot-1", 40.7128, -74.0060))

	if msg := recvMessage(t, inBounds); msg.Type != MessageTypeAvailabilityUpdate {
		t.Errorf("in-bounds client got %q", msg.Type)
	}
	if msg := recvMessage(t, unfiltered); msg.Type != MessageTypeAvailabilityUpdate {
		t.Errorf("unfiltered client got %q", msg.Type)
	}
	assertNoMessage(t, outOfBounds)
}

func TestHubSubscriptionUpdateTakesEffect(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	client := createTestClient(hub, nil)
	registerClient(t, hub, client)

	// Narrow the subscription to exclude the spot.
	client.SetSubscription(&geo.Bounds{MinLat: f(50), MaxLat: f(51)})

	hub.BroadcastAvailability(updateAt("spot-1", 40.7128, -74.0060))
	assertNoMessage(t, client)

	// Clearing the filter restores delivery.
	client.SetSubscription(nil)
	hub.BroadcastAvailability(updateAt("spot-1", 40.7128, -74.0060))
	if msg := recvMessage(t, client); msg.Type != MessageTypeAvailabilityUpdate {
		t.Errorf("after clearing filter got %q", msg.Type)
	}
}

func TestHubPerClientOrdering(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	client := createTestClient(hub, nil)
	registerClient(t, hub, client)

	for i := 0; i < 10; i++ {
		hub.BroadcastAvailability(updateAt("spot-ordered", 40.0, -74.0))
	}

	// BroadcastJSON sentinel marks the end of the sequence.
	hub.BroadcastJSON(MessageTypePong, map[string]interface{}{"seq": "end"})

	for i := 0; i < 10; i++ {
		msg := recvMessage(t, client)
		if msg.Type != MessageTypeAvailabilityUpdate {
			t.Fatalf("frame %d type = %q, broadcasts reordered", i, msg.Type)
		}
	}
	if msg := recvMessage(t, client); msg.Type != MessageTypePong {
		t.Fatalf("sentinel frame type = %q", msg.Type)
	}
}

func TestHubSlowClientDropped(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	slow := createTestClient(hub, nil)
	healthy := createTestClient(hub, nil)
	registerClient(t, hub, slow)
	registerClient(t, hub, healthy)

	// Nobody drains slow's queue; overflow it.
	for i := 0; i < cap(slow.send)+8; i++ {
		hub.BroadcastAvailability(updateAt("spot-1", 40.0, -74.0))
		// Drain the healthy client so only slow backs up.
		select {
		case <-healthy.send:
		case <-time.After(2 * time.Second):
			t.Fatal("healthy client starved by slow client")
		}
	}

	deadline := time.After(2 * time.Second)
	for hub.GetClientCount() > 1 {
		select {
		case <-deadline:
			t.Fatal("slow client never dropped")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// A dropped slow client's readPump may still be handling inbound frames
// (ping, subscribe, malformed JSON) and enqueueing replies. None of
// those paths may touch the closed send channel.
func TestHubSlowClientDropToleratesLateFrames(t *testing.T) {
	hub := NewHub()
	client := createTestClient(hub, nil)

	hub.registerClient(client)
	<-client.send // welcome frame

	// Saturate the queue so the next broadcast drops the client.
	for client.trySend(Message{Type: MessageTypePing}) {
	}
	hub.broadcastToClients(broadcastJob{
		message:  Message{Type: MessageTypeAvailabilityUpdate, Data: updateAt("spot-1", 40.7128, -74.0060)},
		lat:      40.7128,
		lng:      -74.0060,
		filtered: true,
	})

	if got := hub.GetClientCount(); got != 0 {
		t.Fatalf("client count after drop = %d, want 0", got)
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("frame handling after drop panicked: %v", r)
		}
	}()

	// Everything readPump can enqueue after the drop.
	client.handleMessage(MessageTypePing, nil)
	client.handleMessage(MessageTypeSubscribe, map[string]interface{}{
		"bounds": map[string]interface{}{
			"min_lat": 40.0, "max_lat": 41.0, "min_lng": -75.0, "max_lng": -74.0,
		},
	})
	client.enqueue(Message{
		Type: MessageTypeError,
		Data: map[string]interface{}{"message": "Invalid JSON"},
	})
}

func TestHubUnregisterIdempotent(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	client := createTestClient(hub, nil)
	registerClient(t, hub, client)

	hub.Unregister <- client
	// Second unregister of the same client must not panic on a closed
	// channel.
	hub.Unregister <- client

	deadline := time.After(2 * time.Second)
	for hub.GetClientCount() > 0 {
		select {
		case <-deadline:
			t.Fatal("client never unregistered")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// A repeated unregister of an already-removed client must be silent:
// one disconnect per connection, or connection accounting drifts.
func TestHubUnregisterLogsDisconnectOnce(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(logging.NewTestLogger(&buf))
	defer logging.SetLogger(logging.NewTestLogger(io.Discard))

	hub := NewHub()
	client := createTestClient(hub, nil)
	hub.registerClient(client)
	<-client.send // welcome frame

	hub.unregisterClient(client)
	hub.unregisterClient(client)

	if got := strings.Count(buf.String(), "websocket client disconnected"); got != 1 {
		t.Errorf("disconnect logged %d times, want 1\nlog:\n%s", got, buf.String())
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	client := createTestClient(hub, nil)
	registerClient(t, hub, client)

	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("RunWithContext returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop on cancel")
	}

	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("clients remaining after shutdown: %d", got)
	}

	// The send channel must be closed so the write pump exits.
	select {
	case _, ok := <-client.send:
		if ok {
			// Drain welcome leftovers until closed.
			for range client.send { //nolint:revive // draining
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client send channel not closed")
	}
}

func TestBoundsFromPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		wantNil bool
	}{
		{"nil payload", nil, true},
		{"no bounds key", map[string]interface{}{"x": 1}, true},
		{"empty bounds", map[string]interface{}{"bounds": map[string]interface{}{}}, true},
		{
			"full bounds",
			map[string]interface{}{"bounds": map[string]interface{}{
				"min_lat": 40.0, "max_lat": 41.0, "min_lng": -75.0, "max_lng": -73.0,
			}},
			false,
		},
		{
			"partial bounds",
			map[string]interface{}{"bounds": map[string]interface{}{"min_lat": 40.0}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := boundsFromPayload(tt.payload)
			if (got == nil) != tt.wantNil {
				t.Errorf("boundsFromPayload = %v, wantNil=%v", got, tt.wantNil)
			}
		})
	}
}

func TestClientHandleMessage(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	client := createTestClient(hub, nil)
	registerClient(t, hub, client)

	t.Run("ping answered with pong", func(t *testing.T) {
		client.handleMessage(MessageTypePing, nil)
		if msg := recvMessage(t, client); msg.Type != MessageTypePong {
			t.Errorf("got %q, want pong", msg.Type)
		}
	})

	t.Run("subscribe stores bounds and acknowledges", func(t *testing.T) {
		client.handleMessage(MessageTypeSubscribe, map[string]interface{}{
			"bounds": map[string]interface{}{"min_lat": 40.0, "max_lat": 41.0},
		})
		if msg := recvMessage(t, client); msg.Type != MessageTypeSubscribed {
			t.Errorf("got %q, want subscribed", msg.Type)
		}
		sub := client.Subscription()
		if sub == nil || sub.MinLat == nil || *sub.MinLat != 40.0 {
			t.Errorf("subscription not stored: %+v", sub)
		}
	})

	t.Run("invalid bounds produce error frame", func(t *testing.T) {
		client.handleMessage(MessageTypeSubscribe, map[string]interface{}{
			"bounds": map[string]interface{}{"min_lat": 400.0},
		})
		if msg := recvMessage(t, client); msg.Type != MessageTypeError {
			t.Errorf("got %q, want error", msg.Type)
		}
	})

	t.Run("unknown type ignored", func(t *testing.T) {
		client.handleMessage("mystery", nil)
		assertNoMessage(t, client)
	})
}
