package service

import (
	"fmt"

	"github.com/MKhiriev/go-time-sync/internal/adapter"
	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/internal/telemetry"
)

type ClientServices struct {
	SyncService ClientSyncService
	SyncJob     ClientSyncJob
}

func NewClientServices(storages *store.ClientStorages, api *adapter.RemoteAPI, metrics *telemetry.SyncMetrics, cfg config.ClientSync, logger *logger.Logger) (*ClientServices, error) {
	syncSvc, err := NewClientSyncService(storages, api, metrics, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating sync service: %w", err)
	}

	return &ClientServices{
		SyncService: syncSvc,
		SyncJob:     NewClientSyncJob(syncSvc, logger),
	}, nil
}
