package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/service"
	"github.com/MKhiriev/go-time-sync/models"
)

// SyncWorker runs one sync right away and then keeps the periodic sync job
// alive until the context is done.
type SyncWorker struct {
	syncService service.ClientSyncService
	job         service.ClientSyncJob
	interval    time.Duration
	logger      *logger.Logger
}

func NewSyncWorker(services *service.ClientServices, interval time.Duration, logger *logger.Logger) *SyncWorker {
	return &SyncWorker{
		syncService: services.SyncService,
		job:         services.SyncJob,
		interval:    interval,
		logger:      logger,
	}
}

func (w *SyncWorker) Run(ctx context.Context) error {
	outcome := w.syncService.Run(ctx)
	if outcome.Kind == models.OutcomeFatal {
		w.logger.Warn().Err(outcome.Err).Str("func", "SyncWorker.Run").Msg("initial sync failed")
	}

	w.job.Start(ctx, w.interval)
	defer w.job.Stop()

	w.logger.Info().Dur("interval", w.interval).Msg("sync job started")
	<-ctx.Done()
	w.logger.Info().Msg("sync job stopped")

	return nil
}
