// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package middleware provides http.HandlerFunc middleware shared by the
// API layer: request ID propagation for tracing and Prometheus request
// instrumentation. Chi-specific middleware (CORS, rate limiting) lives
// in the api package, which adapts these via a small bridge.
package middleware
