package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/models"
)

type sinceParameterRepository struct {
	*DB
}

// NewSinceParameterRepository returns the SQLite-backed
// [SinceParameterRepository].
func NewSinceParameterRepository(db *DB) SinceParameterRepository {
	return &sinceParameterRepository{DB: db}
}

func (s *sinceParameterRepository) Get(ctx context.Context, entityType models.EntityType) (*time.Time, error) {
	var since time.Time
	err := s.DB.QueryRowContext(ctx, getSinceParameter, entityType.String()).Scan(&since)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sinceParameterRepository.Get").
			Str("entity_type", entityType.String()).
			Msg("failed to read since parameter")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return &since, nil
}

func (s *sinceParameterRepository) Set(ctx context.Context, entityType models.EntityType, since time.Time) error {
	if _, err := s.DB.ExecContext(ctx, setSinceParameter, entityType.String(), since.UTC()); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sinceParameterRepository.Set").
			Str("entity_type", entityType.String()).
			Msg("failed to store since parameter")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *sinceParameterRepository) Reset(ctx context.Context, entityType models.EntityType) error {
	if _, err := s.DB.ExecContext(ctx, resetSinceParameter, entityType.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *sinceParameterRepository) ResetAll(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, resetAllSinceParameters); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
