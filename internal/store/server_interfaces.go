package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-time-sync/models"
)

// ServerRepository keeps the authoritative copy of one entity type on the
// reference server. Every write stamps the entity with a fresh server time
// that is strictly later than any time handed out before.
type ServerRepository[T models.Entity[T]] interface {
	// ListSince returns the entities written strictly after since, tombstones
	// included, ordered by id. A nil since returns every live entity.
	ListSince(ctx context.Context, since *time.Time) ([]T, error)

	// Get returns the live entity with the given id or [ErrEntityNotFound].
	Get(ctx context.Context, id int64) (T, error)

	// Insert stores e under the next free id.
	Insert(ctx context.Context, e T) (T, error)

	// Save overwrites the live entity with e's id or returns
	// [ErrEntityNotFound].
	Save(ctx context.Context, e T) (T, error)

	// MarkDeleted turns the entity into a tombstone.
	MarkDeleted(ctx context.Context, id int64) (T, error)
}
