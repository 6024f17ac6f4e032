package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/models"
)

// referenceChecker reports whether a referenced entity exists on the server.
type referenceChecker func(ctx context.Context, ref models.Reference) (bool, error)

// entityGuard rejects writes the account is not entitled to.
type entityGuard[T models.Entity[T]] func(ctx context.Context, e T) error

type collectionService[T models.Entity[T]] struct {
	entityType models.EntityType
	repo       store.ServerRepository[T]
	references referenceChecker
	guard      entityGuard[T]
	logger     *logger.Logger
}

func newCollectionService[T models.Entity[T]](repo store.ServerRepository[T], references referenceChecker, guard entityGuard[T], logger *logger.Logger) *collectionService[T] {
	var zero T
	return &collectionService[T]{
		entityType: zero.EntityType(),
		repo:       repo,
		references: references,
		guard:      guard,
		logger:     logger,
	}
}

func (s *collectionService[T]) List(ctx context.Context, since *time.Time) ([]T, error) {
	return s.repo.ListSince(ctx, since)
}

func (s *collectionService[T]) Create(ctx context.Context, e T) (T, error) {
	var zero T
	if s.entityType.IsSingleton() {
		return zero, fmt.Errorf("create %s: %w", s.entityType, ErrSingletonNotEditable)
	}
	if err := s.checkWrite(ctx, e); err != nil {
		return zero, err
	}

	stored, err := s.repo.Insert(ctx, e)
	if err != nil {
		return zero, fmt.Errorf("insert %s: %w", s.entityType, err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "collectionService.Create").
		Str("entity_type", s.entityType.String()).
		Int64("id", stored.Meta().ID).
		Msg("entity created")

	return stored, nil
}

func (s *collectionService[T]) Update(ctx context.Context, e T) (T, error) {
	var zero T
	if s.entityType.IsSingleton() {
		meta := e.Meta()
		meta.ID = store.SingletonID
		e = e.WithMeta(meta)
	}
	if err := s.checkWrite(ctx, e); err != nil {
		return zero, err
	}

	stored, err := s.repo.Save(ctx, e)
	if errors.Is(err, store.ErrEntityNotFound) {
		return zero, fmt.Errorf("%w: %s %d", ErrEntityNotFound, s.entityType, e.Meta().ID)
	}
	if err != nil {
		return zero, fmt.Errorf("save %s: %w", s.entityType, err)
	}

	return stored, nil
}

func (s *collectionService[T]) Delete(ctx context.Context, id int64) error {
	if s.entityType.IsSingleton() {
		return fmt.Errorf("delete %s: %w", s.entityType, ErrSingletonNotEditable)
	}

	_, err := s.repo.MarkDeleted(ctx, id)
	if errors.Is(err, store.ErrEntityNotFound) {
		return fmt.Errorf("%w: %s %d", ErrEntityNotFound, s.entityType, id)
	}
	return err
}

func (s *collectionService[T]) checkWrite(ctx context.Context, e T) error {
	if s.references != nil {
		for _, ref := range e.References() {
			ok, err := s.references(ctx, ref)
			if err != nil {
				return fmt.Errorf("look up %s %d: %w", ref.Type, ref.ID, err)
			}
			if !ok {
				return fmt.Errorf("%w: %s %d", ErrUnknownReference, ref.Type, ref.ID)
			}
		}
	}
	if s.guard != nil {
		return s.guard(ctx, e)
	}
	return nil
}

// lookup builds a referenceChecker over the server storages.
func lookup(s *store.ServerStorages) referenceChecker {
	return func(ctx context.Context, ref models.Reference) (bool, error) {
		var err error
		switch ref.Type {
		case models.EntityWorkspace:
			_, err = s.Workspaces.Get(ctx, ref.ID)
		case models.EntityClient:
			_, err = s.Clients.Get(ctx, ref.ID)
		case models.EntityTag:
			_, err = s.Tags.Get(ctx, ref.ID)
		case models.EntityProject:
			_, err = s.Projects.Get(ctx, ref.ID)
		case models.EntityTask:
			_, err = s.Tasks.Get(ctx, ref.ID)
		default:
			return false, fmt.Errorf("unexpected reference type %s", ref.Type)
		}
		if errors.Is(err, store.ErrEntityNotFound) {
			return false, nil
		}
		return err == nil, err
	}
}

// premiumColors allows a custom project colour only in premium workspaces.
func premiumColors(workspaces store.ServerRepository[models.Workspace]) entityGuard[models.Project] {
	return func(ctx context.Context, p models.Project) error {
		if p.Color == "" || p.Color == models.DefaultProjectColor {
			return nil
		}

		ws, err := workspaces.Get(ctx, p.WorkspaceID)
		if err != nil {
			return fmt.Errorf("look up workspace %d: %w", p.WorkspaceID, err)
		}
		if !ws.IsPremium {
			return fmt.Errorf("%w: custom project color %s", ErrFeatureNeedsPremium, p.Color)
		}
		return nil
	}
}
