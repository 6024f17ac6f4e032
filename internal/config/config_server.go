package config

import (
	"fmt"
	"time"
)

// ServerApp holds token parameters of the reference server.
type ServerApp struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

// ServerConfig is the reference server view of [StructuredConfig].
type ServerConfig struct {
	App    ServerApp
	Server Server
	Log    Log
}

// GetServerConfig builds and validates the server view of the merged
// configuration.
func GetServerConfig(flagCfg *StructuredConfig) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(flagCfg)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App: ServerApp{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
		},
		Server: cfg.Server,
		Log:    cfg.Log,
	}

	return serverCfg, serverCfg.validate()
}
