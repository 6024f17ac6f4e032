// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_API_TOKEN":      "api-token",
		"APP_TOKEN_SIGN_KEY": "jwt_secret",
		"APP_TOKEN_ISSUER":   "test_issuer",
		"APP_TOKEN_DURATION": "1h",

		"SERVER_ADDRESS":         "localhost:8080",
		"SERVER_REQUEST_TIMEOUT": "30s",

		"ADAPTER_ADDRESS":         "http://sync.local",
		"ADAPTER_REQUEST_TIMEOUT": "10s",
		"ADAPTER_MAX_RETRIES":     "2",

		"STORAGE_DB_DATABASE_URI":   "/var/lib/ts.db",
		"SYNC_FAN_OUT":              "6",
		"WORKERS_SYNC_INTERVAL":     "2m",
		"TELEMETRY_METRICS_ADDRESS": ":9464",
		"LOG_LEVEL":                 "debug",
		"LOG_FILE":                  "/var/log/ts.log",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.NoError(t, err)
	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "api-token", cfg.App.APIToken)
	assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.App.TokenIssuer)
	assert.Equal(t, time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "http://sync.local", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 2, cfg.Adapter.MaxRetries)
	assert.Equal(t, "/var/lib/ts.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 6, cfg.Sync.FanOut)
	assert.Equal(t, 2*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, ":9464", cfg.Telemetry.MetricsAddress)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/log/ts.log", cfg.Log.File)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("WORKERS_SYNC_INTERVAL", "often")

	err := parseEnv(&StructuredConfig{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}
