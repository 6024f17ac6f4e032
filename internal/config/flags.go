package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// RegisterFlags binds every configuration flag to fs and returns the config
// the parsed values are written into. The returned value is only meaningful
// after fs (or the cobra command adopting it) has been parsed.
//
// Flags:
//
//	-a              reference server address in format [host]:[port]
//	-server         sync API address used by the client
//	-d              SQLite database DSN
//	-c / -config    JSON file path with configs
//	-token          API bearer token
//	-token-sign-key token signing key (server)
//	-token-issuer   token issuer name (server)
//	-token-duration token lifetime (server, e.g. "24h")
//	-request-timeout outbound request timeout (e.g. "15s")
//	-max-retries    retries for idempotent fetches
//	-fan-out        concurrent push requests per entity type
//	-sync-interval  period of the background sync job
//	-metrics-address address serving /metrics
//	-log-level      log level
//	-log-file       client log file
func RegisterFlags(fs *flag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs.Var(addressFlag{dst: &cfg.Server.HTTPAddress}, "a", "Net address host:port")
	fs.StringVar(&cfg.Adapter.HTTPAddress, "server", "", "Sync API address")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.APIToken, "token", "", "API token")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Token duration (e.g., 24h)")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	fs.IntVar(&cfg.Adapter.MaxRetries, "max-retries", 0, "Retries for idempotent fetches")
	fs.IntVar(&cfg.Sync.FanOut, "fan-out", 0, "Concurrent push requests per entity type")
	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Background sync interval (e.g., 5m)")
	fs.Var(addressFlag{dst: &cfg.Telemetry.MetricsAddress}, "metrics-address", "Metrics address host:port")
	fs.StringVar(&cfg.Log.Level, "log-level", "", "Log level")
	fs.StringVar(&cfg.Log.File, "log-file", "", "Client log file")

	return cfg
}

// addressFlag validates a host:port value through [NetAddress] and stores
// its canonical form in dst.
type addressFlag struct {
	dst *string
}

func (f addressFlag) String() string {
	if f.dst == nil {
		return ""
	}
	return *f.dst
}

func (f addressFlag) Set(s string) error {
	var addr NetAddress
	if err := addr.Set(s); err != nil {
		return err
	}
	*f.dst = addr.String()
	return nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
