package states

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-time-sync/internal/adapter"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/statemachine"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/internal/telemetry"
	"github.com/MKhiriev/go-time-sync/models"
)

// FinishedPushing is yielded once every dirty entity of a type was attempted.
const FinishedPushing statemachine.Result = "FinishedPushing"

// pushState uploads the SyncNeeded entities of one type. Every entity is
// attempted; a request failure is recorded on the entity itself and never
// stops the batch. A local store failure that leaves an entity unrecorded is
// reported as a type failure. Only an authorization failure aborts the state.
type pushState[T models.Entity[T]] struct {
	entityType models.EntityType
	repo       store.Repository[T]
	api        adapter.EntityAPI[T]
	locks      *keyedMutex
	fanOut     int
	metrics    *telemetry.SyncMetrics
}

func newPushState[T models.Entity[T]](repo store.Repository[T], api adapter.EntityAPI[T], shared *shared) *pushState[T] {
	var zero T
	return &pushState[T]{
		entityType: zero.EntityType(),
		repo:       repo,
		api:        api,
		locks:      shared.locks,
		fanOut:     shared.fanOut,
		metrics:    shared.metrics,
	}
}

func (p *pushState[T]) ID() statemachine.StateID {
	return pushStateID(p.entityType)
}

func (p *pushState[T]) Results() []statemachine.Result {
	return []statemachine.Result{FinishedPushing}
}

func (p *pushState[T]) Start(ctx context.Context, input any) (statemachine.Transition, error) {
	report, err := reportFrom(input)
	if err != nil {
		return statemachine.Transition{}, err
	}
	log := logger.FromContext(ctx)

	dirty, err := p.repo.GetAll(ctx, store.Query{Statuses: []models.SyncStatus{models.SyncNeeded}})
	if err != nil {
		// nothing was attempted; the entities stay SyncNeeded for the next run
		log.Err(err).
			Str("func", "pushState.Start").
			Str("entity_type", p.entityType.String()).
			Msg("failed to read dirty entities")
		report.FailPush(p.entityType, fmt.Errorf("read dirty entities: %w", err))
		return statemachine.Transition{Result: FinishedPushing, Payload: report}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.fanOut, 1))
	for _, e := range dirty {
		g.Go(func() error {
			return p.pushOne(gctx, report, e)
		})
	}
	if err = g.Wait(); err != nil {
		return statemachine.Transition{}, err
	}

	log.Debug().
		Str("func", "pushState.Start").
		Str("entity_type", p.entityType.String()).
		Int("count", len(dirty)).
		Msg("finished pushing")

	return statemachine.Transition{Result: FinishedPushing, Payload: report}, nil
}

func (p *pushState[T]) pushOne(ctx context.Context, report *Report, e T) error {
	if ctx.Err() != nil {
		return nil
	}

	meta := e.Meta()
	singleton := p.entityType.IsSingleton()

	if meta.IsDeleted && !meta.HasServerID() && !singleton {
		p.deleteLocal(ctx, report, meta.ID)
		return nil
	}

	if !meta.IsDeleted || singleton {
		if ref, ok := placeholderReference(e); ok {
			msg := fmt.Sprintf("referenced %s %d has not been synced", ref.Type, ref.ID)
			p.markFailed(ctx, report, e, models.SyncErrorDependency, msg)
			return nil
		}
	}

	var (
		stored T
		err    error
	)
	switch {
	case meta.IsDeleted && !singleton:
		err = p.api.Delete(ctx, meta.ID)
		if err == nil || errors.Is(err, adapter.ErrNotFound) {
			p.deleteLocal(ctx, report, meta.ID)
			return nil
		}
	case !meta.HasServerID() && !singleton:
		stored, err = p.api.Create(ctx, e)
	default:
		stored, err = p.api.Update(ctx, e)
	}
	if err != nil {
		return p.handleFailure(ctx, report, e, err)
	}

	p.persistPushed(ctx, report, e, stored)
	return nil
}

func (p *pushState[T]) handleFailure(ctx context.Context, report *Report, e T, err error) error {
	if adapter.IsAuthorizationFailure(err) {
		return fmt.Errorf("push %s %d: %w", p.entityType, e.Meta().ID, err)
	}
	if ctx.Err() != nil {
		// another request of this batch aborted the run
		return nil
	}

	p.markFailed(ctx, report, e, failureKind(err), err.Error())
	return nil
}

func (p *pushState[T]) deleteLocal(ctx context.Context, report *Report, id int64) {
	unlock := p.locks.Lock(entityKey(p.entityType, id))
	defer unlock()

	if err := p.repo.Delete(ctx, id); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "pushState.deleteLocal").
			Str("entity_type", p.entityType.String()).
			Int64("id", id).
			Msg("failed to delete pushed tombstone")
		report.FailPush(p.entityType, fmt.Errorf("delete tombstone %d: %w", id, err))
		return
	}
	p.metrics.RecordPush(ctx, p.entityType.String(), telemetry.PushDeleted)
}

// persistPushed stores the server copy under its server id. If the row was
// edited while the request was in flight, only the server id is adopted and
// the newer local edit stays SyncNeeded.
func (p *pushState[T]) persistPushed(ctx context.Context, report *Report, sent, stored T) {
	log := logger.FromContext(ctx)
	sentMeta := sent.Meta()

	unlock := p.locks.Lock(entityKey(p.entityType, sentMeta.ID))
	defer unlock()

	current, err := p.repo.Get(ctx, sentMeta.ID)
	if errors.Is(err, store.ErrEntityNotFound) {
		return
	}
	if err != nil {
		log.Err(err).Str("func", "pushState.persistPushed").Int64("id", sentMeta.ID).Msg("failed to reload pushed entity")
		report.FailPush(p.entityType, fmt.Errorf("reload pushed %d: %w", sentMeta.ID, err))
		return
	}

	storedMeta := stored.Meta()
	if storedMeta.ID == 0 {
		storedMeta.ID = sentMeta.ID
	}
	if storedMeta.At.IsZero() {
		storedMeta.At = sentMeta.At
	}

	var next T
	if current.Meta().At.After(sentMeta.At) {
		m := current.Meta()
		m.ID = storedMeta.ID
		next = current.WithMeta(m)
	} else {
		next = stored.WithMeta(storedMeta.MarkedInSync())
	}

	if _, err = p.repo.ReplaceID(ctx, sentMeta.ID, next); err != nil {
		log.Err(err).
			Str("func", "pushState.persistPushed").
			Str("entity_type", p.entityType.String()).
			Int64("placeholder_id", sentMeta.ID).
			Int64("id", storedMeta.ID).
			Msg("failed to persist pushed entity")
		report.FailPush(p.entityType, fmt.Errorf("persist pushed %d: %w", sentMeta.ID, err))
		return
	}
	p.metrics.RecordPush(ctx, p.entityType.String(), telemetry.PushSynced)
}

func (p *pushState[T]) markFailed(ctx context.Context, report *Report, e T, kind models.SyncErrorKind, message string) {
	log := logger.FromContext(ctx)
	id := e.Meta().ID

	unlock := p.locks.Lock(entityKey(p.entityType, id))
	defer unlock()

	current, err := p.repo.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrEntityNotFound) {
			log.Err(err).Str("func", "pushState.markFailed").Int64("id", id).Msg("failed to reload entity")
			report.FailPush(p.entityType, fmt.Errorf("reload %d: %w", id, err))
		}
		return
	}
	if current.Meta().At.After(e.Meta().At) {
		return
	}

	if _, err = p.repo.Update(ctx, current.WithMeta(current.Meta().MarkedFailed(kind, message))); err != nil {
		log.Err(err).Str("func", "pushState.markFailed").Int64("id", id).Msg("failed to record push failure")
		report.FailPush(p.entityType, fmt.Errorf("record failure of %d: %w", id, err))
		return
	}

	log.Info().
		Str("func", "pushState.markFailed").
		Str("entity_type", p.entityType.String()).
		Int64("id", id).
		Str("kind", string(kind)).
		Str("reason", message).
		Msg("entity failed to sync")
	p.metrics.RecordPush(ctx, p.entityType.String(), telemetry.PushFailed)
}

// placeholderReference returns the first reference of e that points at an
// entity the server has never acknowledged.
func placeholderReference[T models.Entity[T]](e T) (models.Reference, bool) {
	for _, ref := range e.References() {
		if ref.ID < 0 {
			return ref, true
		}
	}
	return models.Reference{}, false
}

func failureKind(err error) models.SyncErrorKind {
	switch {
	case adapter.IsFeatureRestriction(err):
		return models.SyncErrorPaymentRequired
	case errors.Is(err, adapter.ErrTransport),
		errors.Is(err, adapter.ErrTooManyRequests),
		errors.Is(err, adapter.ErrInternalServerError),
		errors.Is(err, adapter.ErrBadGateway):
		return models.SyncErrorTransport
	default:
		return models.SyncErrorRejected
	}
}
