// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package supervisor provides the suture-based supervision tree that
// keeps Curbside's long-running components alive.
//
// # Overview
//
// The tree has a root supervisor with two child layers:
//
//   - messaging-layer: the WebSocket broadcast hub
//   - api-layer: the HTTP server
//
// Services are wrapped in the services subpackage so that components
// with their own lifecycle idioms (http.Server's blocking
// ListenAndServe, the hub's RunWithContext) present a uniform
// suture.Service surface.
//
// # Restart Semantics
//
// Each layer uses suture's default failure accounting: five failures
// decaying over thirty seconds, then a fifteen-second backoff. A
// panicking hub restarts independently of the HTTP listener, so cached
// and non-realtime endpoints keep serving while the hub recovers.
//
// Supervisor events are logged through sutureslog, bridged onto the
// process-wide zerolog logger via logging.NewSlogLogger.
package supervisor
