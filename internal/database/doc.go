// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package database provides the DuckDB data access layer for the Curbside
// application.
//
// # Overview
//
// This package sits between the application and DuckDB, providing type-safe
// query execution for parking spots, occupancy events, reviews, and user
// behavior data. All queries are instrumented through the metrics package.
//
// # Architecture
//
// The package is organized into domain-specific files:
//
// Core Database Operations:
//   - database.go: Database lifecycle (connection, initialization, cleanup)
//   - database_schema.go: Table creation and index management
//   - errors.go: Sentinel errors and resource cleanup helpers
//   - seed.go: Mock data seeding for development environments
//
// CRUD Operations:
//   - crud_spots.go: Parking spot persistence and radius search
//   - crud_occupancy.go: Occupancy event log (append-only)
//   - crud_reviews.go: Review persistence and text retrieval
//   - crud_behavior.go: User parking history and preference upserts
//
// # Radius Search
//
// FindSpotsWithinRadius uses a bounding-box SQL prefilter followed by an
// exact haversine refinement in Go. This keeps the query on core SQL with
// no DuckDB extensions, at the cost of scanning slightly more rows than a
// true spatial index would.
//
// # Concurrency
//
// DuckDB runs in-process through CGO. The connection pool is deliberately
// small (see configureConnectionPool) to bound native memory usage.
package database
