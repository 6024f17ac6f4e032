// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/MKhiriev/go-time-sync/internal/adapter"
	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/statemachine"
	"github.com/MKhiriev/go-time-sync/internal/states"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/internal/telemetry"
	"github.com/MKhiriev/go-time-sync/internal/utils"
	"github.com/MKhiriev/go-time-sync/models"
)

type clientSyncService struct {
	storages *store.ClientStorages
	machine  *statemachine.Machine
	metrics  *telemetry.SyncMetrics
	runIDs   *utils.UUIDGenerator
	logger   *logger.Logger

	// running is held for the whole of a run and of a retry.
	running sync.Mutex
}

// NewClientSyncService builds the sync graph over storages and api. The graph
// is validated here, so a wiring mistake surfaces at startup.
func NewClientSyncService(storages *store.ClientStorages, api *adapter.RemoteAPI, metrics *telemetry.SyncMetrics, cfg config.ClientSync, logger *logger.Logger) (ClientSyncService, error) {
	machine, err := states.NewSyncMachine(states.Dependencies{
		Storages: storages,
		API:      api,
		Metrics:  metrics,
		FanOut:   cfg.FanOut,
	})
	if err != nil {
		return nil, fmt.Errorf("build sync graph: %w", err)
	}

	return &clientSyncService{
		storages: storages,
		machine:  machine,
		metrics:  metrics,
		runIDs:   utils.NewUUIDGenerator(),
		logger:   logger,
	}, nil
}

func (s *clientSyncService) Run(ctx context.Context) models.SyncOutcome {
	if !s.running.TryLock() {
		return models.Fatal(ErrSyncInProgress)
	}
	defer s.running.Unlock()

	return s.run(ctx, false)
}

func (s *clientSyncService) Resync(ctx context.Context) models.SyncOutcome {
	if !s.running.TryLock() {
		return models.Fatal(ErrSyncInProgress)
	}
	defer s.running.Unlock()

	return s.run(ctx, true)
}

func (s *clientSyncService) run(ctx context.Context, full bool) models.SyncOutcome {
	runID := s.runIDs.Generate()
	log := s.logger.WithRunID(runID)
	ctx = log.WithContext(utils.WithRunID(ctx, runID))

	log.Info().Str("func", "clientSyncService.Run").Bool("full", full).Msg("sync started")
	started := time.Now()

	outcome := s.execute(ctx, full)

	elapsed := time.Since(started)
	s.metrics.RecordRun(ctx, outcome.Kind.String(), elapsed)

	event := log.Info()
	switch outcome.Kind {
	case models.OutcomeFatal:
		event = log.Error().Err(outcome.Err)
	case models.OutcomePartialFailure:
		event = log.Warn().
			Int("failed_entities", len(outcome.Failures)).
			Int("failed_types", len(outcome.TypeFailures))
	}
	event.Str("func", "clientSyncService.Run").
		Str("outcome", outcome.Kind.String()).
		Dur("elapsed", elapsed).
		Msg("sync finished")

	return outcome
}

func (s *clientSyncService) execute(ctx context.Context, full bool) models.SyncOutcome {
	if full {
		if err := s.storages.Since.ResetAll(ctx); err != nil {
			return models.Fatal(fmt.Errorf("reset since parameters: %w", err))
		}
	}

	report := states.NewReport()
	out, err := s.machine.Run(ctx, report)
	if err != nil {
		return models.Fatal(err)
	}
	if out.Terminal != states.Finished {
		return models.Fatal(fmt.Errorf("sync stopped at %s", out.Last))
	}

	items, err := s.Failures(ctx)
	if err != nil {
		return models.Fatal(fmt.Errorf("collect failed entities: %w", err))
	}

	typeFailures := report.TypeFailures()
	if len(items) == 0 && len(typeFailures) == 0 {
		return models.Success()
	}

	return models.PartialFailure(items, typeFailures)
}

func (s *clientSyncService) Failures(ctx context.Context) ([]models.SyncFailureItem, error) {
	var items []models.SyncFailureItem
	err := errors.Join(
		collectFailures(ctx, s.storages.Workspaces, &items),
		collectFailures(ctx, s.storages.Preferences, &items),
		collectFailures(ctx, s.storages.Users, &items),
		collectFailures(ctx, s.storages.Clients, &items),
		collectFailures(ctx, s.storages.Tags, &items),
		collectFailures(ctx, s.storages.Projects, &items),
		collectFailures(ctx, s.storages.Tasks, &items),
		collectFailures(ctx, s.storages.TimeEntries, &items),
	)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (s *clientSyncService) RetryFailed(ctx context.Context) (int, error) {
	if !s.running.TryLock() {
		return 0, ErrSyncInProgress
	}
	defer s.running.Unlock()

	var queued int
	err := errors.Join(
		requeueFailed(ctx, s.storages.Workspaces, &queued),
		requeueFailed(ctx, s.storages.Preferences, &queued),
		requeueFailed(ctx, s.storages.Users, &queued),
		requeueFailed(ctx, s.storages.Clients, &queued),
		requeueFailed(ctx, s.storages.Tags, &queued),
		requeueFailed(ctx, s.storages.Projects, &queued),
		requeueFailed(ctx, s.storages.Tasks, &queued),
		requeueFailed(ctx, s.storages.TimeEntries, &queued),
	)

	logger.FromContext(ctx).Info().
		Str("func", "clientSyncService.RetryFailed").
		Int("queued", queued).
		Msg("failed entities queued for push")

	return queued, err
}

func (s *clientSyncService) WriteGraph(w io.Writer) error {
	return s.machine.WriteDOT(w)
}

var failedQuery = store.Query{Statuses: []models.SyncStatus{models.SyncFailed}}

func collectFailures[T models.Entity[T]](ctx context.Context, repo store.Repository[T], items *[]models.SyncFailureItem) error {
	failed, err := repo.GetAll(ctx, failedQuery)
	if err != nil {
		var zero T
		return fmt.Errorf("%s: %w", zero.EntityType(), err)
	}
	for _, e := range failed {
		*items = append(*items, models.NewSyncFailureItem(e))
	}
	return nil
}

func requeueFailed[T models.Entity[T]](ctx context.Context, repo store.Repository[T], queued *int) error {
	failed, err := repo.GetAll(ctx, failedQuery)
	if err != nil {
		var zero T
		return fmt.Errorf("%s: %w", zero.EntityType(), err)
	}

	var errs []error
	for _, e := range failed {
		if _, err = repo.Update(ctx, e.WithMeta(e.Meta().Requeued())); err != nil {
			errs = append(errs, fmt.Errorf("%s %d: %w", e.EntityType(), e.Meta().ID, err))
			continue
		}
		*queued++
	}
	return errors.Join(errs...)
}
