// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package services adapts Curbside's long-running components to the
// suture.Service interface so the supervisor tree can manage them.
//
// Each wrapper owns one translation problem:
//
//   - HTTPServerService: http.Server's blocking ListenAndServe plus
//     graceful Shutdown, driven by context cancellation.
//   - WebSocketHubService: the hub's RunWithContext, which already
//     matches the suture pattern and only needs a stable name.
//
// Wrappers accept small interfaces rather than concrete types so tests
// can substitute mocks.
package services
