// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockHub struct {
	runErr  error
	started chan struct{}
}

func (m *mockHub) RunWithContext(ctx context.Context) error {
	if m.started != nil {
		close(m.started)
	}
	if m.runErr != nil {
		return m.runErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubServiceRunsUntilCanceled(t *testing.T) {
	hub := &mockHub{started: make(chan struct{})}
	svc := NewWebSocketHubService(hub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-hub.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestWebSocketHubServicePropagatesError(t *testing.T) {
	hub := &mockHub{runErr: errors.New("hub crashed")}
	svc := NewWebSocketHubService(hub)

	err := svc.Serve(context.Background())
	if !errors.Is(err, hub.runErr) {
		t.Errorf("Serve returned %v, want hub error", err)
	}
}

func TestWebSocketHubServiceString(t *testing.T) {
	svc := NewWebSocketHubService(&mockHub{})
	if svc.String() != "websocket-hub" {
		t.Errorf("String() = %q", svc.String())
	}
}
