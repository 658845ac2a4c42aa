// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package models defines the shared domain types for Curbside: parking
// spots, reviews, occupancy events, user parking behavior, and the
// standardized API request/response envelopes.
//
// Types here carry no behavior beyond small convenience accessors. All
// business logic lives in the service packages (scoring, predictor,
// recommend, occupancy) that consume these types.
package models
