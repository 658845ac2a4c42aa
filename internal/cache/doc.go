// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package cache provides a thread-safe in-memory TTL cache used to
// absorb repeated discovery and recommendation queries. Entries expire
// after a configurable duration and a background sweeper reclaims
// expired keys. Hit, miss and eviction counters are exposed for the
// metrics layer.
package cache
