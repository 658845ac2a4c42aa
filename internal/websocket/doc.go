// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package websocket implements the realtime broadcast hub for parking
// availability updates.
//
// The Hub owns the client registry and fans availability updates out to
// clients whose bounding-box subscription contains the changed spot;
// clients without a subscription receive everything. Each Client runs
// the standard gorilla read/write pump pair and owns its own
// subscription filter, updatable at any time via a subscribe frame.
//
// Wire protocol (client to server): ping, subscribe. Server to client:
// connected, pong, subscribed, availability_update, error. Unknown
// inbound types are logged and ignored; malformed JSON is answered with
// an error frame without closing the connection.
//
// Delivery is best-effort and per-connection ordered: every client has
// a buffered send queue serviced by a single writer goroutine, and a
// client whose queue overflows is dropped rather than allowed to stall
// the hub.
package websocket
