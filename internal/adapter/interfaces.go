// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter talks to the remote time-tracking API.
//
// Every entity type gets its own [EntityAPI]; [RemoteAPI] bundles them. HTTP
// status codes are mapped to the sentinel errors in errors.go so that callers
// can branch with [errors.Is] (e.g. [ErrPaymentRequired] for 402,
// [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-time-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/entity_api_mock.go -package=mock

// EntityAPI is the remote counterpart of one entity type.
type EntityAPI[T models.Entity[T]] interface {
	// Create sends a new entity and returns the server copy carrying the
	// server-assigned id and At. Singletons are written with a PUT instead.
	Create(ctx context.Context, e T) (T, error)

	// Update overwrites the server copy of e and returns the stored version.
	Update(ctx context.Context, e T) (T, error)

	// Delete removes the server copy with the given id. Singletons cannot be
	// deleted and yield [ErrUnsupportedOperation].
	Delete(ctx context.Context, id int64) error

	// GetSince returns every entity changed after since, tombstones included.
	// A nil since fetches everything.
	GetSince(ctx context.Context, since *time.Time) ([]T, error)
}

// RemoteAPI groups the remote APIs of all entity types.
type RemoteAPI struct {
	Workspaces  EntityAPI[models.Workspace]
	Preferences EntityAPI[models.Preferences]
	Users       EntityAPI[models.User]
	Clients     EntityAPI[models.Client]
	Tags        EntityAPI[models.Tag]
	Projects    EntityAPI[models.Project]
	Tasks       EntityAPI[models.Task]
	TimeEntries EntityAPI[models.TimeEntry]
}
