package states

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-time-sync/internal/adapter"
	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/models"
)

var t0 = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

// serverClock hands out strictly increasing server timestamps.
type serverClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *serverClock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// fakeAPI is an in-memory server collection.
type fakeAPI[T models.Entity[T]] struct {
	mu        sync.Mutex
	clock     *serverClock
	items     []T
	nextID    int64
	inclusive bool

	getErr    error
	rejectFn  func(T) error
	getCalls  int
	sinceSeen []*time.Time
}

func newFakeAPI[T models.Entity[T]](clock *serverClock) *fakeAPI[T] {
	return &fakeAPI[T]{clock: clock, nextID: 100}
}

func (f *fakeAPI[T]) stamp(e T) T {
	m := e.Meta()
	m.At = f.clock.tick()
	m.SyncStatus, m.LastSyncErrorMessage, m.LastSyncErrorKind = models.InSync, "", models.SyncErrorNone
	return e.WithMeta(m)
}

func (f *fakeAPI[T]) Create(_ context.Context, e T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rejectFn != nil {
		if err := f.rejectFn(e); err != nil {
			var zero T
			return zero, err
		}
	}
	m := e.Meta()
	m.ID = f.nextID
	f.nextID++
	stored := f.stamp(e.WithMeta(m))
	f.items = append(f.items, stored)
	return stored, nil
}

func (f *fakeAPI[T]) Update(_ context.Context, e T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rejectFn != nil {
		if err := f.rejectFn(e); err != nil {
			var zero T
			return zero, err
		}
	}
	stored := f.stamp(e)
	for i, item := range f.items {
		if item.Meta().ID == e.Meta().ID {
			f.items[i] = stored
			return stored, nil
		}
	}
	f.items = append(f.items, stored)
	return stored, nil
}

func (f *fakeAPI[T]) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = slices.DeleteFunc(f.items, func(item T) bool { return item.Meta().ID == id })
	return nil
}

func (f *fakeAPI[T]) GetSince(_ context.Context, since *time.Time) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls++
	f.sinceSeen = append(f.sinceSeen, since)
	if f.getErr != nil {
		return nil, f.getErr
	}

	var out []T
	for _, item := range f.items {
		at := item.Meta().At
		if since == nil || at.After(*since) || (f.inclusive && at.Equal(*since)) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeAPI[T]) seed(items ...T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, items...)
}

type fakeServer struct {
	clock       *serverClock
	workspaces  *fakeAPI[models.Workspace]
	preferences *fakeAPI[models.Preferences]
	users       *fakeAPI[models.User]
	clients     *fakeAPI[models.Client]
	tags        *fakeAPI[models.Tag]
	projects    *fakeAPI[models.Project]
	tasks       *fakeAPI[models.Task]
	entries     *fakeAPI[models.TimeEntry]
}

func newFakeServer() *fakeServer {
	clock := &serverClock{now: t0.Add(time.Hour)}
	return &fakeServer{
		clock:       clock,
		workspaces:  newFakeAPI[models.Workspace](clock),
		preferences: newFakeAPI[models.Preferences](clock),
		users:       newFakeAPI[models.User](clock),
		clients:     newFakeAPI[models.Client](clock),
		tags:        newFakeAPI[models.Tag](clock),
		projects:    newFakeAPI[models.Project](clock),
		tasks:       newFakeAPI[models.Task](clock),
		entries:     newFakeAPI[models.TimeEntry](clock),
	}
}

func (s *fakeServer) remoteAPI() *adapter.RemoteAPI {
	return &adapter.RemoteAPI{
		Workspaces:  s.workspaces,
		Preferences: s.preferences,
		Users:       s.users,
		Clients:     s.clients,
		Tags:        s.tags,
		Projects:    s.projects,
		Tasks:       s.tasks,
		TimeEntries: s.entries,
	}
}

func newTestStorages(t *testing.T) *store.ClientStorages {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "sync.db")
	s, err := store.NewClientStorages(context.Background(), config.ClientStorage{DB: config.ClientDB{DSN: dsn}}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func newTestShared(since store.SinceParameterRepository) *shared {
	return &shared{since: since, locks: newKeyedMutex(), fanOut: 4}
}

func dirtyMeta(at time.Time) models.SyncMeta {
	return models.SyncMeta{SyncStatus: models.SyncNeeded, At: at}
}

func ptr[T any](v T) *T { return &v }
