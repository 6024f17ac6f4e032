package config

import (
	"fmt"
	"time"
)

// ClientApp holds the client's credentials.
type ClientApp struct {
	// APIToken is the bearer token presented to the sync API.
	APIToken string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the sync API address.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// MaxRetries bounds retries of idempotent fetches.
	MaxRetries int
}

// ClientDB contains local database connection settings.
type ClientDB struct {
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientSync tunes one sync run.
type ClientSync struct {
	FanOut int
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the sync job runs.
	SyncInterval time.Duration
}

// ClientTelemetry holds the metrics endpoint of the daemon.
type ClientTelemetry struct {
	MetricsAddress string
}

// ClientLog configures the client logger.
type ClientLog struct {
	Level string
	File  string
}

// ClientConfig is the client configuration view of [StructuredConfig].
type ClientConfig struct {
	App       ClientApp
	Adapter   ClientAdapter
	Storage   ClientStorage
	Sync      ClientSync
	Workers   ClientWorkers
	Telemetry ClientTelemetry
	Log       ClientLog
}

// GetClientConfig builds and validates the client view of the merged
// configuration. flagCfg holds values bound by [RegisterFlags].
func GetClientConfig(flagCfg *StructuredConfig) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flagCfg)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{APIToken: cfg.App.APIToken},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			MaxRetries:     cfg.Adapter.MaxRetries,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Sync:      ClientSync{FanOut: cfg.Sync.FanOut},
		Workers:   ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
		Telemetry: ClientTelemetry{MetricsAddress: cfg.Telemetry.MetricsAddress},
		Log:       ClientLog{Level: cfg.Log.Level, File: cfg.Log.File},
	}
}
