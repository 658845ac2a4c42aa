// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML config file, and environment variables.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in sensible defaults for every setting
//  2. Config file: optional YAML file (config.yaml) for persistent settings
//  3. Environment variables: override any setting
//
// Config is immutable after Load and safe for concurrent reads.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal().Err(err).Msg("failed to load config")
//	}
//	store, err := database.New(cfg.Database)
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	API       APIConfig       `koanf:"api"`
	Recommend RecommendConfig `koanf:"recommend"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables:
//   - HTTP_PORT: Listen port (default: 8000)
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - ENVIRONMENT: "development" or "production"
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
//
// Environment variables:
//   - DUCKDB_PATH: Database file path, empty for in-memory
//   - DUCKDB_MAX_MEMORY: Memory limit passed to DuckDB (default: 2GB)
//   - DUCKDB_THREADS: Worker threads, 0 = runtime.NumCPU()
//   - SEED_MOCK_DATA: Populate demo spots on first start
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"`
	SeedMockData bool   `koanf:"seed_mock_data"`
}

// APIConfig holds pagination and query limits for the REST surface.
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	DefaultRadiusM    float64       `koanf:"default_radius_m"`
	MaxRadiusM        float64       `koanf:"max_radius_m"`
	DiscoveryCacheTTL time.Duration `koanf:"discovery_cache_ttl"`
}

// RecommendConfig holds ranking settings.
//
// Environment variables:
//   - RECOMMEND_MODEL_PATH: Path to the trained model artifact. Empty
//     disables the model and every request uses distance ranking.
//   - RECOMMEND_DEFAULT_LIMIT: Results returned when the request does
//     not specify a limit (default: 10)
type RecommendConfig struct {
	ModelPath    string        `koanf:"model_path"`
	DefaultLimit int           `koanf:"default_limit"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// WebSocketConfig bounds the realtime fan-out layer.
type WebSocketConfig struct {
	MaxConnections int `koanf:"max_connections"`
}

// SecurityConfig holds rate limiting and CORS settings.
//
// Environment variables:
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW / DISABLE_RATE_LIMIT
//   - CORS_ORIGINS: Comma-separated allowed origins
//   - TRUSTED_PROXIES: Comma-separated CIDRs trusted for X-Forwarded-For
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
