// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging environment variables, command-line flags, an optional JSON file
// and defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds credentials: the client's API token and the server's token
	// signing parameters.
	App App `envPrefix:"APP_"`

	// Storage holds the local SQLite database settings of the client.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address of the reference sync server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's view of the remote sync API.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync tunes a single sync run.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds configuration for the periodic sync job.
	Workers Workers `envPrefix:"WORKERS_"`

	// Telemetry holds the Prometheus exposition address.
	Telemetry Telemetry `envPrefix:"TELEMETRY_"`

	// Log configures the level and sink of the application logger.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds authentication settings.
type App struct {
	// APIToken is the bearer token the client presents to the sync API.
	// Env: APP_API_TOKEN
	APIToken string `env:"API_TOKEN"`

	// TokenSignKey is the HMAC key the reference server verifies tokens with.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the expected "iss" claim.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of tokens issued by the reference server.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// Storage groups the persistence settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path or URI (e.g. "timesync.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings of the reference server.
type Server struct {
	// HTTPAddress is the "host:port" the server listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds the handling of one request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the client-side settings of the remote sync API.
type Adapter struct {
	// HTTPAddress is the base address of the sync API, with or without scheme.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds one outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// MaxRetries is how many times an idempotent fetch is retried after a
	// transient failure.
	// Env: ADAPTER_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`
}

// Sync tunes a sync run.
type Sync struct {
	// FanOut is the maximum number of concurrent push requests per entity type.
	// Env: SYNC_FAN_OUT
	FanOut int `env:"FAN_OUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the background sync job.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Telemetry holds metrics exposition settings.
type Telemetry struct {
	// MetricsAddress is where the daemon serves /metrics. Empty disables it.
	// Env: TELEMETRY_METRICS_ADDRESS
	MetricsAddress string `env:"METRICS_ADDRESS"`
}

// Log configures logging.
type Log struct {
	// Level is a zerolog level name. Env: LOG_LEVEL
	Level string `env:"LEVEL"`

	// File is the client log file. Env: LOG_FILE
	File string `env:"FILE"`
}

// GetStructuredConfig loads and merges the configuration from all sources.
// flagCfg holds the values bound by [RegisterFlags]; it may be nil.
func GetStructuredConfig(flagCfg *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(flagCfg).
		withJSON().
		withDefaults().
		build()
}
