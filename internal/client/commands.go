package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-time-sync/internal/workers"
	"github.com/MKhiriev/go-time-sync/models"
)

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "timesync",
		Short:         "Offline-first time tracking sync client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		a.syncCommand(),
		a.resyncCommand(),
		a.retryCommand(),
		a.failuresCommand(),
		a.graphCommand(),
		a.daemonCommand(),
		a.versionCommand(),
	)

	return root
}

// withSession opens a session for the duration of fn.
func (a *App) withSession(ctx context.Context, withMetrics bool, fn func(s *session) error) error {
	s, err := a.openSession(ctx, withMetrics)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			s.logger.Err(closeErr).Str("func", "App.withSession").Msg("error closing session")
		}
	}()

	return fn(s)
}

func (a *App) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push local changes and pull server changes once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), false, func(s *session) error {
				return reportOutcome(cmd.OutOrStdout(), s.services.SyncService.Run(cmd.Context()))
			})
		},
	}
}

func (a *App) resyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resync",
		Short: "Forget every since-parameter and pull everything again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), false, func(s *session) error {
				return reportOutcome(cmd.OutOrStdout(), s.services.SyncService.Resync(cmd.Context()))
			})
		},
	}
}

func (a *App) retryCommand() *cobra.Command {
	var queueOnly bool

	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Queue failed entities for another push and sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), false, func(s *session) error {
				n, err := s.services.SyncService.RetryFailed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d entities queued for sync\n", n)

				if queueOnly || n == 0 {
					return nil
				}
				return reportOutcome(cmd.OutOrStdout(), s.services.SyncService.Run(cmd.Context()))
			})
		},
	}
	cmd.Flags().BoolVar(&queueOnly, "queue-only", false, "Only queue, do not sync")

	return cmd
}

func (a *App) failuresCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "failures",
		Short: "List entities whose last push failed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), false, func(s *session) error {
				items, err := s.services.SyncService.Failures(cmd.Context())
				if err != nil {
					return err
				}

				if asJSON {
					if items == nil {
						items = []models.SyncFailureItem{}
					}
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(items)
				}

				renderFailures(cmd.OutOrStdout(), items)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func (a *App) graphCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the sync state graph in DOT format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), false, func(s *session) error {
				return s.services.SyncService.WriteGraph(cmd.OutOrStdout())
			})
		},
	}
}

func (a *App) daemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Sync periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
			defer stop()

			return a.withSession(ctx, true, func(s *session) error {
				ws := []workers.Worker{
					workers.NewSyncWorker(s.services, s.cfg.Workers.SyncInterval, s.logger),
				}
				if s.metrics != nil {
					ws = append(ws, workers.NewMetricsWorker(s.cfg.Telemetry.MetricsAddress, s.metrics, s.logger))
				}

				return workers.NewWorkers(ws...).Run(ctx)
			})
		},
	}
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), a.buildInfo.String())
			return err
		},
	}
}
