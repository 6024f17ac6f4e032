package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-time-sync/models"
)

// serverClock hands out strictly increasing timestamps so that a since
// cursor equal to one write never hides a later write.
type serverClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newServerClock(now func() time.Time) *serverClock {
	if now == nil {
		now = time.Now
	}
	return &serverClock{now: now}
}

func (c *serverClock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}

type memoryRepository[T models.Entity[T]] struct {
	mu     sync.RWMutex
	items  map[int64]T
	nextID int64
	clock  *serverClock
}

func newMemoryRepository[T models.Entity[T]](clock *serverClock) *memoryRepository[T] {
	return &memoryRepository[T]{
		items:  make(map[int64]T),
		nextID: 1,
		clock:  clock,
	}
}

func (r *memoryRepository[T]) ListSince(_ context.Context, since *time.Time) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.items))
	for _, id := range slices.Sorted(maps.Keys(r.items)) {
		e := r.items[id]
		meta := e.Meta()
		if since == nil {
			if !meta.IsDeleted {
				out = append(out, e)
			}
			continue
		}
		if meta.At.After(*since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryRepository[T]) Get(_ context.Context, id int64) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok || e.Meta().IsDeleted {
		var zero T
		return zero, ErrEntityNotFound
	}
	return e, nil
}

func (r *memoryRepository[T]) Insert(_ context.Context, e T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := serverMeta(e.Meta())
	meta.ID = r.nextID
	meta.At = r.clock.next()
	r.nextID++

	e = e.WithMeta(meta)
	r.items[meta.ID] = e
	return e, nil
}

func (r *memoryRepository[T]) Save(_ context.Context, e T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := serverMeta(e.Meta())
	current, ok := r.items[meta.ID]
	if !ok || current.Meta().IsDeleted {
		var zero T
		return zero, ErrEntityNotFound
	}

	meta.At = r.clock.next()
	e = e.WithMeta(meta)
	r.items[meta.ID] = e
	return e, nil
}

func (r *memoryRepository[T]) MarkDeleted(_ context.Context, id int64) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[id]
	if !ok || current.Meta().IsDeleted {
		var zero T
		return zero, ErrEntityNotFound
	}

	meta := current.Meta()
	meta.IsDeleted = true
	meta.At = r.clock.next()
	current = current.WithMeta(meta)
	r.items[id] = current
	return current, nil
}

// seed stores e as is. Used for singletons that exist from the start.
func (r *memoryRepository[T]) seed(e T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := serverMeta(e.Meta())
	meta.At = r.clock.next()
	r.items[meta.ID] = e.WithMeta(meta)
	r.nextID = max(r.nextID, meta.ID+1)
}

// serverMeta drops the client-only sync bookkeeping.
func serverMeta(m models.SyncMeta) models.SyncMeta {
	return models.SyncMeta{ID: m.ID, At: m.At, IsDeleted: m.IsDeleted}
}
