package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofrs/flock"

	"github.com/MKhiriev/go-time-sync/internal/adapter"
	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/service"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/internal/telemetry"
)

// session is everything one command needs, opened under the database lock.
type session struct {
	cfg      *config.ClientConfig
	logger   *logger.Logger
	storages *store.ClientStorages
	services *service.ClientServices

	// metrics is nil unless the session was opened with metrics and an
	// address is configured.
	metrics http.Handler

	lock *flock.Flock
}

func (a *App) openSession(ctx context.Context, withMetrics bool) (s *session, err error) {
	cfg, err := config.GetClientConfig(a.flagCfg)
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}

	log := a.newLogger(cfg.Log)

	lock, err := acquireLock(cfg.Storage.DB.DSN)
	if err != nil {
		return nil, err
	}
	s = &session{cfg: cfg, logger: log, lock: lock}
	defer func() {
		if err != nil {
			err = errors.Join(err, s.Close())
			s = nil
		}
	}()

	s.storages, err = store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return s, fmt.Errorf("create local storage: %w", err)
	}

	api, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		return s, fmt.Errorf("create server adapter: %w", err)
	}

	var syncMetrics *telemetry.SyncMetrics
	if withMetrics && cfg.Telemetry.MetricsAddress != "" {
		provider, handler, err := telemetry.NewPrometheusProvider()
		if err != nil {
			return s, err
		}
		if syncMetrics, err = telemetry.NewSyncMetrics(provider); err != nil {
			return s, fmt.Errorf("create sync metrics: %w", err)
		}
		s.metrics = handler
	}

	s.services, err = service.NewClientServices(s.storages, api, syncMetrics, cfg.Sync, log)
	if err != nil {
		return s, fmt.Errorf("create client services: %w", err)
	}

	return s, nil
}

// Close releases the database and then the lock.
func (s *session) Close() error {
	var errs []error
	if s.storages != nil {
		errs = append(errs, s.storages.Close())
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Unlock())
	}
	return errors.Join(errs...)
}
