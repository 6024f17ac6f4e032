package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-time-sync/internal/validators"
	"github.com/MKhiriev/go-time-sync/models"
)

type CollectionValidationService[T models.Entity[T]] struct {
	inner     CollectionService[T]
	validator validators.Validator
}

func NewCollectionValidationService[T models.Entity[T]]() CollectionServiceWrapper[T] {
	return &CollectionValidationService[T]{
		validator: validators.NewEntityValidator(),
	}
}

func (v *CollectionValidationService[T]) List(ctx context.Context, since *time.Time) ([]T, error) {
	return v.inner.List(ctx, since)
}

func (v *CollectionValidationService[T]) Create(ctx context.Context, e T) (T, error) {
	// a new entity still carries the client's local id
	if err := v.validator.Validate(ctx, e); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Create(ctx, e)
}

func (v *CollectionValidationService[T]) Update(ctx context.Context, e T) (T, error) {
	fields := validators.DefaultFields
	if !e.EntityType().IsSingleton() {
		fields = append([]string{validators.FieldID}, fields...)
	}
	if err := v.validator.Validate(ctx, e, fields...); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Update(ctx, e)
}

func (v *CollectionValidationService[T]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidDataProvided, validators.ErrInvalidID, id)
	}
	return v.inner.Delete(ctx, id)
}

func (v *CollectionValidationService[T]) Wrap(inner CollectionService[T]) CollectionService[T] {
	v.inner = inner
	return v
}
