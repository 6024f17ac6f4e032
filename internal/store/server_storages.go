package store

import (
	"time"

	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/models"
)

// SingletonID is the id of the user and the preferences on the reference
// server, which serves a single account.
const SingletonID int64 = 1

// ServerStorages groups the in-memory repositories of the reference server.
// All of them share one clock.
type ServerStorages struct {
	Workspaces  ServerRepository[models.Workspace]
	Preferences ServerRepository[models.Preferences]
	Users       ServerRepository[models.User]
	Clients     ServerRepository[models.Client]
	Tags        ServerRepository[models.Tag]
	Projects    ServerRepository[models.Project]
	Tasks       ServerRepository[models.Task]
	TimeEntries ServerRepository[models.TimeEntry]
}

// NewServerStorages creates empty repositories plus the account's user and
// preferences. now may be nil.
func NewServerStorages(owner models.User, now func() time.Time, log *logger.Logger) *ServerStorages {
	log.Info().Msg("creating new in-memory storages...")

	clock := newServerClock(now)

	users := newMemoryRepository[models.User](clock)
	owner.SyncMeta = models.SyncMeta{ID: SingletonID}
	users.seed(owner)

	preferences := newMemoryRepository[models.Preferences](clock)
	preferences.seed(models.Preferences{
		SyncMeta:        models.SyncMeta{ID: SingletonID},
		TimeOfDayFormat: "H:mm",
		DateFormat:      "YYYY-MM-DD",
		DurationFormat:  "improved",
	})

	return &ServerStorages{
		Workspaces:  newMemoryRepository[models.Workspace](clock),
		Preferences: preferences,
		Users:       users,
		Clients:     newMemoryRepository[models.Client](clock),
		Tags:        newMemoryRepository[models.Tag](clock),
		Projects:    newMemoryRepository[models.Project](clock),
		Tasks:       newMemoryRepository[models.Task](clock),
		TimeEntries: newMemoryRepository[models.TimeEntry](clock),
	}
}
