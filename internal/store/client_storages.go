package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/models"
)

// ClientStorages groups the local repositories of every entity type plus the
// since-parameter repository. All of them share one SQLite connection.
type ClientStorages struct {
	Workspaces  Repository[models.Workspace]
	Preferences Repository[models.Preferences]
	Users       Repository[models.User]
	Clients     Repository[models.Client]
	Tags        Repository[models.Tag]
	Projects    Repository[models.Project]
	Tasks       Repository[models.Task]
	TimeEntries Repository[models.TimeEntry]

	Since SinceParameterRepository

	db *DB
}

// NewClientStorages opens the SQLite database named by cfg, applies pending
// migrations and wires a repository per entity type.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewClientStoragesFromDB(db), nil
}

// NewClientStoragesFromDB wires repositories over an already migrated
// database.
func NewClientStoragesFromDB(db *DB) *ClientStorages {
	return &ClientStorages{
		Workspaces:  newEntityRepository(db, workspacesTable),
		Preferences: newEntityRepository(db, preferencesTable),
		Users:       newEntityRepository(db, usersTable),
		Clients:     newEntityRepository(db, clientsTable),
		Tags:        newEntityRepository(db, tagsTable),
		Projects:    newEntityRepository(db, projectsTable),
		Tasks:       newEntityRepository(db, tasksTable),
		TimeEntries: newEntityRepository(db, timeEntriesTable),
		Since:       NewSinceParameterRepository(db),
		db:          db,
	}
}

// Close releases the underlying database connection.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
