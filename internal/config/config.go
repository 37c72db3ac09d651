// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The acd-cli Authors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the acd-cli
// cache. It aggregates all sub-configurations and is populated by merging
// values from environment variables and command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the cache database backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds configuration for the remote changes-API client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds sync-round policy settings.
	Sync Sync `envPrefix:"SYNC_"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application
	// (e.g. "1.2.3").
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the cache database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the cache database.
type DB struct {
	// Driver selects the backend: "sqlite3" (default) or "pgx" for a
	// shared PostgreSQL cache.
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the data source name: a file path for SQLite
	// (e.g. "nodes.db") or a PostgreSQL connection string for pgx.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds configuration for the remote changes-API client.
type Adapter struct {
	// BaseURL is the metadata endpoint of the remote drive service.
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the maximum duration allowed for a single changes
	// request before the client cancels it (e.g. "30s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds sync-round policy settings.
type Sync struct {
	// MaxAgeDays is the cache age, in fractional days, beyond which the CLI
	// requests a full resync instead of an incremental one. Zero disables
	// the check.
	// Env: SYNC_MAX_AGE_DAYS
	MaxAgeDays float64 `env:"MAX_AGE_DAYS"`
}

// GetStructuredConfig loads and merges the application configuration from
// all available sources in the following priority order (the first source to
// set a field wins):
//  1. Environment variables
//  2. Command-line flags
//
// Returns a fully populated *StructuredConfig with defaults applied, or an
// error if any source fails to load.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		build()
}
