// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package config provides layered configuration for the Curbside server
// using Koanf v2. Settings are resolved from built-in defaults, an
// optional YAML config file, and environment variables, in ascending
// order of precedence. The resulting Config is validated once at load
// and immutable afterwards.
package config
