package client

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/models"
)

const loggerRole = "go-time-sync-client"

type App struct {
	buildInfo models.AppBuildInfo
	flagCfg   *config.StructuredConfig
	root      *cobra.Command
	out       io.Writer
}

// NewApp builds the command tree. Configuration flags are registered on a
// Go flag set that cobra adopts, so env, flags and the JSON file merge the
// same way as on the server.
func NewApp(buildInfo models.AppBuildInfo) *App {
	a := &App{buildInfo: buildInfo, out: os.Stdout}

	fs := flag.NewFlagSet("timesync", flag.ContinueOnError)
	a.flagCfg = config.RegisterFlags(fs)

	a.root = a.newRootCommand()
	a.root.PersistentFlags().AddGoFlagSet(fs)

	return a
}

func (a *App) Run(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	a.root.SetOut(a.out)
	return a.root.ExecuteContext(ctx)
}

func (a *App) newLogger(cfg config.ClientLog) *logger.Logger {
	log := logger.NewClientLogger(loggerRole, cfg.File)
	if err := logger.SetLevel(cfg.Level); err != nil {
		log.Warn().Err(err).Str("level", cfg.Level).Msg("unknown log level, keeping debug")
	}
	return log
}
