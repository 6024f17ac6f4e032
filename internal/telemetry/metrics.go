// Package telemetry provides OpenTelemetry instrumentation for the sync
// client.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the sync metrics meter
const SyncMetricsMeterName = "github.com/MKhiriev/go-time-sync/sync"

// Push results recorded by [SyncMetrics.RecordPush].
const (
	PushSynced  = "synced"
	PushDeleted = "deleted"
	PushFailed  = "failed"
)

// Pull actions recorded by [SyncMetrics.RecordPull].
const (
	PullCreated   = "created"
	PullUpdated   = "updated"
	PullDeleted   = "deleted"
	PullConflict  = "conflict"
	PullUnchanged = "unchanged"
)

// SyncMetrics holds the OpenTelemetry instruments for sync runs
type SyncMetrics struct {
	runDuration  metric.Float64Histogram
	pushed       metric.Int64Counter
	pulled       metric.Int64Counter
	typeFailures metric.Int64Counter
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	runDuration, err := meter.Float64Histogram(
		"timesync_run_duration_seconds",
		metric.WithDescription("Duration of sync runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, err
	}

	pushed, err := meter.Int64Counter(
		"timesync_entities_pushed_total",
		metric.WithDescription("Entities pushed to the server by result"),
		metric.WithUnit("{entity}"),
	)
	if err != nil {
		return nil, err
	}

	pulled, err := meter.Int64Counter(
		"timesync_entities_pulled_total",
		metric.WithDescription("Entities received from the server by local action"),
		metric.WithUnit("{entity}"),
	)
	if err != nil {
		return nil, err
	}

	typeFailures, err := meter.Int64Counter(
		"timesync_type_failures_total",
		metric.WithDescription("Entity types whose pull failed"),
		metric.WithUnit("{type}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		runDuration:  runDuration,
		pushed:       pushed,
		pulled:       pulled,
		typeFailures: typeFailures,
	}, nil
}

// RecordRun records the duration and outcome of one sync run
func (m *SyncMetrics) RecordRun(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil || m.runDuration == nil {
		return
	}

	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordPush counts one pushed entity
func (m *SyncMetrics) RecordPush(ctx context.Context, entityType, result string) {
	if m == nil || m.pushed == nil {
		return
	}

	m.pushed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", entityType),
		attribute.String("result", result),
	))
}

// RecordPull counts one pulled entity
func (m *SyncMetrics) RecordPull(ctx context.Context, entityType, action string) {
	if m == nil || m.pulled == nil {
		return
	}

	m.pulled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", entityType),
		attribute.String("action", action),
	))
}

// RecordTypeFailure counts an entity type that could not be pulled
func (m *SyncMetrics) RecordTypeFailure(ctx context.Context, entityType string) {
	if m == nil || m.typeFailures == nil {
		return
	}

	m.typeFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", entityType),
	))
}
