// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package metrics exposes Prometheus collectors for the Curbside
// server. Collectors are registered once via promauto at package init
// and served on /metrics by the HTTP layer.
//
// Naming follows Prometheus conventions: counters end in _total,
// durations are histograms in seconds, gauges describe current state.
package metrics
