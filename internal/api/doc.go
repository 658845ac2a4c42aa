// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package api provides the HTTP surface of Curbside: spot discovery and
// CRUD, occupancy reporting, reviews, personalized recommendations, A/B
// experiment statistics, health probes, and the websocket upgrade
// endpoint for realtime availability updates.
//
// Routing uses chi with go-chi/cors and go-chi/httprate middleware.
// Every response is wrapped in the models.APIResponse envelope and
// marshaled with goccy/go-json.
package api
