package states

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-time-sync/internal/adapter"
	"github.com/MKhiriev/go-time-sync/internal/statemachine"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/models"
)

func runSync(t *testing.T, s *store.ClientStorages, srv *fakeServer) (statemachine.Outcome, *Report, error) {
	t.Helper()

	m, err := NewSyncMachine(Dependencies{Storages: s, API: srv.remoteAPI(), FanOut: 4})
	require.NoError(t, err)

	report := NewReport()
	out, err := m.Run(context.Background(), report)
	return out, report, err
}

// ── graph shape ──────────────────────────────────────────────────────────────

func TestNewSyncMachine_Graph(t *testing.T) {
	s := newTestStorages(t)
	m, err := NewSyncMachine(Dependencies{Storages: s, API: newFakeServer().remoteAPI()})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteDOT(&buf))
	dot := buf.String()

	for _, node := range []string{
		"Push1[workspace,preferences]",
		"Push2[user,client,tag]",
		"Push:project",
		"Push:task",
		"Push:time_entry",
		"Pull1[workspace,preferences]",
		"Pull:time_entry",
		"Finished",
	} {
		assert.Contains(t, dot, node)
	}
}

func TestNewSyncMachine_RequiresCollaborators(t *testing.T) {
	_, err := NewSyncMachine(Dependencies{})
	assert.Error(t, err)
}

func TestNewSyncMachine_PathOrder(t *testing.T) {
	s := newTestStorages(t)
	out, _, err := runSync(t, s, newFakeServer())
	require.NoError(t, err)

	assert.Equal(t, Finished, out.Terminal)
	assert.Equal(t, []statemachine.StateID{
		"Push1[workspace,preferences]",
		"Push2[user,client,tag]",
		"Push:project",
		"Push:task",
		"Push:time_entry",
		"Pull1[workspace,preferences]",
		"Pull2[user,client,tag]",
		"Pull:project",
		"Pull:task",
		"Pull:time_entry",
	}, out.Path)
}

// ── end to end ───────────────────────────────────────────────────────────────

func TestSync_PlaceholderChainIsRemapped(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)
	srv := newFakeServer()

	ws, err := s.Workspaces.Create(ctx, models.Workspace{SyncMeta: dirtyMeta(t0), Name: "Home"})
	require.NoError(t, err)
	project, err := s.Projects.Create(ctx, models.Project{SyncMeta: dirtyMeta(t0), WorkspaceID: ws.ID, Name: "Site", Color: models.DefaultProjectColor})
	require.NoError(t, err)
	tag, err := s.Tags.Create(ctx, models.Tag{SyncMeta: dirtyMeta(t0), WorkspaceID: ws.ID, Name: "focus"})
	require.NoError(t, err)
	entry, err := s.TimeEntries.Create(ctx, models.TimeEntry{
		SyncMeta:    dirtyMeta(t0),
		WorkspaceID: ws.ID,
		ProjectID:   ptr(project.ID),
		TagIDs:      []int64{tag.ID},
		Description: "landing page",
		Start:       t0,
	})
	require.NoError(t, err)
	require.Negative(t, entry.ID)

	out, report, err := runSync(t, s, srv)
	require.NoError(t, err)
	assert.Equal(t, Finished, out.Terminal)
	assert.Empty(t, report.TypeFailures())

	entries, err := s.TimeEntries.GetAll(ctx, store.Query{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got := entries[0]

	assert.Positive(t, got.ID)
	assert.Equal(t, models.InSync, got.SyncStatus)
	assert.Equal(t, srv.workspaces.items[0].ID, got.WorkspaceID)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, srv.projects.items[0].ID, *got.ProjectID)
	assert.Equal(t, []int64{srv.tags.items[0].ID}, got.TagIDs)

	// the server only ever saw server ids
	assert.Equal(t, srv.workspaces.items[0].ID, srv.projects.items[0].WorkspaceID)
	assert.Equal(t, got.ID, srv.entries.items[0].ID)
	assert.Equal(t, []int64{srv.tags.items[0].ID}, srv.entries.items[0].TagIDs)

	dirty, err := s.Projects.GetAll(ctx, store.Query{Statuses: []models.SyncStatus{models.SyncNeeded, models.SyncFailed}})
	require.NoError(t, err)
	assert.Empty(t, dirty)
}

func TestSync_PaymentRequiredDoesNotBlockSiblings(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)
	srv := newFakeServer()
	srv.projects.rejectFn = func(p models.Project) error {
		if p.Color != models.DefaultProjectColor {
			return fmt.Errorf("%w: custom project colors need a premium workspace", adapter.ErrPaymentRequired)
		}
		return nil
	}

	_, err := s.Workspaces.Create(ctx, models.Workspace{SyncMeta: models.SyncMeta{ID: 1, At: t0}, Name: "Free"})
	require.NoError(t, err)
	colored, err := s.Projects.Create(ctx, models.Project{SyncMeta: dirtyMeta(t0), WorkspaceID: 1, Name: "Red", Color: "#ff0000"})
	require.NoError(t, err)
	plain, err := s.Projects.Create(ctx, models.Project{SyncMeta: dirtyMeta(t0), WorkspaceID: 1, Name: "Blue", Color: models.DefaultProjectColor})
	require.NoError(t, err)
	blocked, err := s.TimeEntries.Create(ctx, models.TimeEntry{SyncMeta: dirtyMeta(t0), WorkspaceID: 1, ProjectID: ptr(colored.ID), Start: t0})
	require.NoError(t, err)
	_, err = s.TimeEntries.Create(ctx, models.TimeEntry{SyncMeta: dirtyMeta(t0), WorkspaceID: 1, ProjectID: ptr(plain.ID), Start: t0})
	require.NoError(t, err)

	out, report, err := runSync(t, s, srv)
	require.NoError(t, err)
	assert.Equal(t, Finished, out.Terminal)
	assert.Empty(t, report.TypeFailures())

	failedProject, err := s.Projects.Get(ctx, colored.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncFailed, failedProject.SyncStatus)
	assert.Equal(t, models.SyncErrorPaymentRequired, failedProject.LastSyncErrorKind)

	failedEntry, err := s.TimeEntries.Get(ctx, blocked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncFailed, failedEntry.SyncStatus)
	assert.Equal(t, models.SyncErrorDependency, failedEntry.LastSyncErrorKind)

	synced, err := s.Projects.GetAll(ctx, store.Query{Statuses: []models.SyncStatus{models.SyncNeeded, models.InSync}})
	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, "Blue", synced[0].Name)
	assert.Positive(t, synced[0].ID)

	entries, err := s.TimeEntries.GetAll(ctx, store.Query{Statuses: []models.SyncStatus{models.InSync}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, synced[0].ID, *entries[0].ProjectID)
}

func TestSync_PullFailureSkipsDependents(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)
	srv := newFakeServer()
	srv.clients.getErr = adapter.ErrBadGateway
	srv.tags.seed(serverTag(4, t0, "ok"))

	out, report, err := runSync(t, s, srv)
	require.NoError(t, err)
	assert.Equal(t, Finished, out.Terminal)

	var failed []models.EntityType
	for _, f := range report.TypeFailures() {
		failed = append(failed, f.Type)
	}
	assert.Equal(t, []models.EntityType{models.EntityClient, models.EntityProject, models.EntityTask, models.EntityTimeEntry}, failed)

	// dependents were never fetched, independent siblings were
	assert.Zero(t, srv.projects.getCalls)
	assert.Zero(t, srv.tasks.getCalls)
	assert.Zero(t, srv.entries.getCalls)
	_, err = s.Tags.Get(ctx, 4)
	assert.NoError(t, err)

	since, err := s.Since.Get(ctx, models.EntityClient)
	require.NoError(t, err)
	assert.Nil(t, since)
}

func TestSync_AuthorizationFailureIsFatal(t *testing.T) {
	s := newTestStorages(t)
	srv := newFakeServer()
	srv.workspaces.getErr = fmt.Errorf("token revoked: %w", adapter.ErrUnauthorized)

	out, _, err := runSync(t, s, srv)
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.Empty(t, out.Terminal)
	assert.Zero(t, srv.entries.getCalls)
}

func TestSync_CanceledBeforeStart(t *testing.T) {
	s := newTestStorages(t)
	m, err := NewSyncMachine(Dependencies{Storages: s, API: newFakeServer().remoteAPI()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Run(ctx, NewReport())
	assert.ErrorIs(t, err, context.Canceled)
}
