package states

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-time-sync/internal/adapter"
	"github.com/MKhiriev/go-time-sync/internal/conflict"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/statemachine"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/internal/telemetry"
	"github.com/MKhiriev/go-time-sync/models"
)

const (
	// FinishedPulling is yielded after the whole batch was persisted.
	FinishedPulling statemachine.Result = "FinishedPulling"
	// FailedPulling is yielded when the batch could not be fetched or
	// persisted; the since-parameter is left untouched.
	FailedPulling statemachine.Result = "FailedPulling"
)

// pulledHook runs after a batch was persisted and before the since-parameter
// advances. created is the number of entities that were new locally.
type pulledHook func(ctx context.Context, created int) error

// pullState fetches the server changes of one type and merges them into the
// local store.
type pullState[T models.Entity[T]] struct {
	entityType models.EntityType
	repo       store.Repository[T]
	api        adapter.EntityAPI[T]
	since      store.SinceParameterRepository
	resolver   conflict.Resolver[T]
	locks      *keyedMutex
	metrics    *telemetry.SyncMetrics
	afterPull  pulledHook
}

func newPullState[T models.Entity[T]](repo store.Repository[T], api adapter.EntityAPI[T], shared *shared) *pullState[T] {
	var zero T
	return &pullState[T]{
		entityType: zero.EntityType(),
		repo:       repo,
		api:        api,
		since:      shared.since,
		resolver:   conflict.LatestWins[T](),
		locks:      shared.locks,
		metrics:    shared.metrics,
	}
}

func (p *pullState[T]) ID() statemachine.StateID {
	return pullStateID(p.entityType)
}

func (p *pullState[T]) Results() []statemachine.Result {
	return []statemachine.Result{FinishedPulling, FailedPulling}
}

func (p *pullState[T]) Start(ctx context.Context, input any) (statemachine.Transition, error) {
	report, err := reportFrom(input)
	if err != nil {
		return statemachine.Transition{}, err
	}

	for _, dep := range p.entityType.Dependencies() {
		if report.PullFailed(dep) {
			return p.fail(ctx, report, fmt.Errorf("%w: %s", ErrDependencyFailed, dep)), nil
		}
	}

	err = p.pull(ctx)
	if adapter.IsAuthorizationFailure(err) {
		return statemachine.Transition{}, fmt.Errorf("pull %s: %w", p.entityType, err)
	}
	if err != nil {
		return p.fail(ctx, report, err), nil
	}

	return statemachine.Transition{Result: FinishedPulling, Payload: report}, nil
}

func (p *pullState[T]) fail(ctx context.Context, report *Report, err error) statemachine.Transition {
	logger.FromContext(ctx).Warn().Err(err).
		Str("func", "pullState.Start").
		Str("entity_type", p.entityType.String()).
		Msg("pull failed")

	report.FailPull(p.entityType, err)
	p.metrics.RecordTypeFailure(ctx, p.entityType.String())
	return statemachine.Transition{Result: FailedPulling, Payload: report}
}

func (p *pullState[T]) pull(ctx context.Context) error {
	since, err := p.since.Get(ctx, p.entityType)
	if err != nil {
		return fmt.Errorf("read since parameter: %w", err)
	}

	items, err := p.api.GetSince(ctx, since)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", p.entityType, err)
	}
	if len(items) == 0 {
		return nil
	}

	local, err := p.localIndex(ctx, items)
	if err != nil {
		return fmt.Errorf("read local %s: %w", p.entityType, err)
	}

	var (
		maxAt   time.Time
		created int
	)
	for _, item := range items {
		current, exists := local[item.Meta().ID]
		isNew, err := p.persist(ctx, item, current, exists)
		if err != nil {
			return fmt.Errorf("persist %s %d: %w", p.entityType, item.Meta().ID, err)
		}
		if isNew {
			created++
		}
		if at := item.Meta().At; at.After(maxAt) {
			maxAt = at
		}
	}

	if p.afterPull != nil {
		if err = p.afterPull(ctx, created); err != nil {
			return err
		}
	}

	if maxAt.IsZero() || (since != nil && !maxAt.After(*since)) {
		return nil
	}
	if err = p.since.Set(ctx, p.entityType, maxAt); err != nil {
		return fmt.Errorf("advance since parameter: %w", err)
	}

	return nil
}

// localIndex loads the local copies of items keyed by server id with one
// query. A singleton is matched to its only local row whatever its id.
func (p *pullState[T]) localIndex(ctx context.Context, items []T) (map[int64]T, error) {
	index := make(map[int64]T, len(items))

	if p.entityType.IsSingleton() {
		rows, err := p.repo.GetAll(ctx, store.Query{})
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			index[items[len(items)-1].Meta().ID] = rows[0]
		}
		return index, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Meta().ID)
	}
	rows, err := p.repo.GetAll(ctx, store.Query{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		index[row.Meta().ID] = row
	}
	return index, nil
}

// persist merges one server entity into the local store and reports whether
// it was new locally.
func (p *pullState[T]) persist(ctx context.Context, item, current T, exists bool) (bool, error) {
	meta := item.Meta()

	unlock := p.locks.Lock(entityKey(p.entityType, meta.ID))
	defer unlock()

	typeName := p.entityType.String()

	switch {
	case meta.IsDeleted:
		if !exists {
			p.metrics.RecordPull(ctx, typeName, telemetry.PullUnchanged)
			return false, nil
		}
		if err := p.repo.Delete(ctx, current.Meta().ID); err != nil {
			return false, err
		}
		p.metrics.RecordPull(ctx, typeName, telemetry.PullDeleted)
		return false, nil

	case !exists:
		if _, err := p.repo.Create(ctx, item.WithMeta(meta.MarkedInSync())); err != nil {
			return false, err
		}
		p.metrics.RecordPull(ctx, typeName, telemetry.PullCreated)
		return true, nil

	case current.Meta().SyncStatus == models.InSync:
		if current.Meta().ID == meta.ID && !meta.At.After(current.Meta().At) {
			p.metrics.RecordPull(ctx, typeName, telemetry.PullUnchanged)
			return false, nil
		}
		if _, err := p.repo.ReplaceID(ctx, current.Meta().ID, item.WithMeta(meta.MarkedInSync())); err != nil {
			return false, err
		}
		p.metrics.RecordPull(ctx, typeName, telemetry.PullUpdated)
		return false, nil

	default:
		winner, decision := p.resolver.Resolve(current, item)
		switch {
		case decision == conflict.KeepLocal && winner.Meta().IsDeleted && !p.entityType.IsSingleton():
			// a settled tombstone would never be pushed or cleaned up
			if err := p.repo.Delete(ctx, current.Meta().ID); err != nil {
				return false, err
			}
		default:
			if decision == conflict.KeepLocal {
				m := winner.Meta()
				m.ID = meta.ID
				winner = winner.WithMeta(m)
			}
			if _, err := p.repo.ReplaceID(ctx, current.Meta().ID, winner); err != nil {
				return false, err
			}
		}
		logger.FromContext(ctx).Info().
			Str("func", "pullState.persist").
			Str("entity_type", typeName).
			Int64("id", meta.ID).
			Str("decision", decision.String()).
			Msg("resolved conflict")
		p.metrics.RecordPull(ctx, typeName, telemetry.PullConflict)
		return false, nil
	}
}
