package workers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-time-sync/internal/logger"
)

const metricsShutdownTimeout = 5 * time.Second

// MetricsWorker serves the Prometheus exposition of the daemon on /metrics.
type MetricsWorker struct {
	server *http.Server
	logger *logger.Logger
}

func NewMetricsWorker(address string, metrics http.Handler, logger *logger.Logger) *MetricsWorker {
	router := chi.NewRouter()
	router.Method(http.MethodGet, "/metrics", metrics)

	return &MetricsWorker{
		server: &http.Server{
			Addr:              address,
			Handler:           router,
			ReadHeaderTimeout: metricsShutdownTimeout,
		},
		logger: logger,
	}
}

func (w *MetricsWorker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		w.logger.Info().Str("address", w.server.Addr).Msg("serving metrics")
		if err := w.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	if err := w.server.Shutdown(shutdownCtx); err != nil {
		w.logger.Err(err).Str("func", "MetricsWorker.Run").Msg("metrics server shutdown")
		return err
	}

	return <-errCh
}
