// Package store implements the local persistence of the sync client, one
// SQLite table per entity type plus the since-parameter table, and the
// in-memory repositories of the reference server.
package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-time-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Query filters [Repository.GetAll]. A nil slice means "no filter".
type Query struct {
	IDs      []int64
	Statuses []models.SyncStatus
}

// Repository is the persistence adapter for one entity type.
type Repository[T models.Entity[T]] interface {
	// GetAll returns the entities matching q ordered by id.
	GetAll(ctx context.Context, q Query) ([]T, error)

	// Get returns the entity with the given id or [ErrEntityNotFound].
	Get(ctx context.Context, id int64) (T, error)

	// Create inserts e. A zero id is replaced by the next free placeholder
	// (negative) id. The stored entity is returned.
	Create(ctx context.Context, e T) (T, error)

	// Update overwrites the row with e's id or returns [ErrEntityNotFound].
	Update(ctx context.Context, e T) (T, error)

	// Delete removes the row with the given id. Deleting a missing row is
	// not an error.
	Delete(ctx context.Context, id int64) error

	// ReplaceID atomically moves the row stored under placeholderID to e's
	// id, overwrites it with e and rewrites every local reference to
	// placeholderID.
	ReplaceID(ctx context.Context, placeholderID int64, e T) (T, error)
}

// SinceParameterRepository stores the incremental fetch cursor of each
// entity type. A nil cursor means the next pull is a full fetch.
type SinceParameterRepository interface {
	Get(ctx context.Context, entityType models.EntityType) (*time.Time, error)
	Set(ctx context.Context, entityType models.EntityType, since time.Time) error
	Reset(ctx context.Context, entityType models.EntityType) error
	ResetAll(ctx context.Context) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
