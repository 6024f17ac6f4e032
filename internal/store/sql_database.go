package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/migrations"
	"github.com/cenkalti/backoff/v5"
)

const maxTxAttempts = 3

type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// withTx runs fn inside a transaction and commits it. The whole transaction
// is retried when the classifier marks the failure as transient (a busy or
// locked database).
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := db.runTx(ctx, fn)
		if err == nil {
			return struct{}{}, nil
		}
		if db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return struct{}{}, backoff.Permanent(err)
		}
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "DB.withTx").
			Int("attempt", attempt).
			Msg("retrying transaction after transient error")
		return struct{}{}, err
	},
		backoff.WithBackOff(newTxBackOff()),
		backoff.WithMaxTries(maxTxAttempts),
	)

	return err
}

func (db *DB) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func newTxBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	return b
}
