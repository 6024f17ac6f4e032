package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/models"
)

// entityRepository is the SQLite implementation of [Repository] shared by
// every entity type. The per-type mapping lives in a [table].
type entityRepository[T models.Entity[T]] struct {
	*DB
	table table[T]
}

func newEntityRepository[T models.Entity[T]](db *DB, t table[T]) *entityRepository[T] {
	return &entityRepository[T]{DB: db, table: t}
}

func (r *entityRepository[T]) GetAll(ctx context.Context, q Query) ([]T, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select(r.table.allColumns()...).From(r.table.name).OrderBy("id")
	if q.IDs != nil {
		builder = builder.Where(sq.Eq{"id": q.IDs})
	}
	if q.Statuses != nil {
		builder = builder.Where(sq.Eq{"sync_status": q.Statuses})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.GetAll").
			Str("table", r.table.name).
			Msg("failed to execute select query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		e, scanErr := r.table.scan(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "entityRepository.GetAll").
				Str("table", r.table.name).
				Msg("failed to scan row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return result, nil
}

func (r *entityRepository[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T

	found, err := r.GetAll(ctx, Query{IDs: []int64{id}})
	if err != nil {
		return zero, err
	}
	if len(found) == 0 {
		return zero, fmt.Errorf("%w: %s %d", ErrEntityNotFound, r.table.name, id)
	}

	return found[0], nil
}

func (r *entityRepository[T]) Create(ctx context.Context, e T) (T, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if e.Meta().ID == 0 {
			id, err := r.nextPlaceholderID(ctx, tx)
			if err != nil {
				return err
			}
			meta := e.Meta()
			meta.ID = id
			e = e.WithMeta(meta)
		}
		return r.insert(ctx, tx, e)
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.Create").
			Str("table", r.table.name).
			Msg("failed to create entity")
		var zero T
		return zero, err
	}

	return e, nil
}

func (r *entityRepository[T]) Update(ctx context.Context, e T) (T, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		return r.update(ctx, tx, e.Meta().ID, e)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return e, nil
}

func (r *entityRepository[T]) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete(r.table.name).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.Delete").
			Str("table", r.table.name).
			Int64("id", id).
			Msg("failed to delete entity")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *entityRepository[T]) ReplaceID(ctx context.Context, placeholderID int64, e T) (T, error) {
	newID := e.Meta().ID

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.update(ctx, tx, placeholderID, e); err != nil {
			return err
		}
		if placeholderID == newID {
			return nil
		}

		for _, fk := range r.table.referencedBy {
			query, args, err := sq.Update(fk.table).
				Set(fk.column, newID).
				Where(sq.Eq{fk.column: placeholderID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %s.%s: %w", ErrExecutingStatement, fk.table, fk.column, err)
			}
		}

		for _, stmt := range r.table.remapStatements {
			if _, err := tx.ExecContext(ctx, stmt, placeholderID, newID, placeholderID); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.ReplaceID").
			Str("table", r.table.name).
			Int64("placeholder_id", placeholderID).
			Int64("id", newID).
			Msg("failed to replace entity id")
		var zero T
		return zero, err
	}

	return e, nil
}

func (r *entityRepository[T]) insert(ctx context.Context, tx *sql.Tx, e T) error {
	query, args, err := sq.Insert(r.table.name).
		Columns(r.table.allColumns()...).
		Values(r.table.values(e)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEntityNotSaved
	}

	return nil
}

// update overwrites the row currently stored under id with every column of e,
// including e's own id.
func (r *entityRepository[T]) update(ctx context.Context, tx *sql.Tx, id int64, e T) error {
	builder := sq.Update(r.table.name)
	values := r.table.values(e)
	for i, col := range r.table.allColumns() {
		builder = builder.Set(col, values[i])
	}

	query, args, err := builder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", ErrEntityNotFound, r.table.name, id)
	}

	return nil
}

// nextPlaceholderID returns a negative id lower than every id in the table.
func (r *entityRepository[T]) nextPlaceholderID(ctx context.Context, tx *sql.Tx) (int64, error) {
	var minID int64
	err := tx.QueryRowContext(ctx, fmt.Sprintf(minEntityID, r.table.name)).Scan(&minID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return min(minID, 0) - 1, nil
}
