package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &DB{DB: conn, errorClassificator: NewSQLiteErrorClassifier(), logger: logger.Nop()}, mock
}

var clientRowColumns = []string{
	"id", "sync_status", "at", "is_deleted", "last_sync_error_message", "last_sync_error_kind",
	"workspace_id", "name",
}

func TestEntityRepository_GetAll(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     Query
		sqlRegexp string
		args      []driver.Value
		rows      *sqlmock.Rows
		queryErr  error
		wantErr   error
		wantLen   int
	}{
		{
			name:      "no filter",
			query:     Query{},
			sqlRegexp: `SELECT .* FROM clients ORDER BY id`,
			rows: sqlmock.NewRows(clientRowColumns).
				AddRow(1, models.InSync, at, false, "", "", 10, "Acme").
				AddRow(2, models.SyncNeeded, at, false, "", "", 10, "Globex"),
			wantLen: 2,
		},
		{
			name:      "filter by status",
			query:     Query{Statuses: []models.SyncStatus{models.SyncNeeded, models.SyncFailed}},
			sqlRegexp: `SELECT .* FROM clients WHERE sync_status IN \(\?,\?\) ORDER BY id`,
			args:      []driver.Value{int64(models.SyncNeeded), int64(models.SyncFailed)},
			rows: sqlmock.NewRows(clientRowColumns).
				AddRow(-1, models.SyncNeeded, at, false, "", "", 10, "Draft"),
			wantLen: 1,
		},
		{
			name:      "filter by ids and status",
			query:     Query{IDs: []int64{3}, Statuses: []models.SyncStatus{models.InSync}},
			sqlRegexp: `SELECT .* FROM clients WHERE id IN \(\?\) AND sync_status IN \(\?\) ORDER BY id`,
			args:      []driver.Value{int64(3), int64(models.InSync)},
			rows:      sqlmock.NewRows(clientRowColumns),
			wantLen:   0,
		},
		{
			name:      "query error",
			query:     Query{},
			sqlRegexp: `SELECT .* FROM clients`,
			queryErr:  errors.New("disk I/O error"),
			wantErr:   ErrExecutingQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := newEntityRepository(db, clientsTable)

			exp := mock.ExpectQuery(tt.sqlRegexp)
			if tt.args != nil {
				exp = exp.WithArgs(tt.args...)
			}
			if tt.queryErr != nil {
				exp.WillReturnError(tt.queryErr)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			got, err := repo.GetAll(context.Background(), tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEntityRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newEntityRepository(db, clientsTable)

	mock.ExpectQuery(`SELECT .* FROM clients WHERE id IN \(\?\)`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(clientRowColumns))

	_, err := repo.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestEntityRepository_Create_AssignsPlaceholder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newEntityRepository(db, clientsTable)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MIN(id), 0) FROM clients`)).
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(-4))
	mock.ExpectExec(`INSERT INTO clients`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), models.Client{WorkspaceID: 7, Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, int64(-5), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Create_KeepsServerID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newEntityRepository(db, clientsTable)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO clients`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), models.Client{SyncMeta: models.SyncMeta{ID: 99}})
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newEntityRepository(db, clientsTable)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE clients SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), models.Client{SyncMeta: models.SyncMeta{ID: 5}})
	assert.ErrorIs(t, err, ErrEntityNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Update_RetriesBusyDatabase(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newEntityRepository(db, clientsTable)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE clients SET`).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE clients SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := repo.Update(context.Background(), models.Client{SyncMeta: models.SyncMeta{ID: 5}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newEntityRepository(db, clientsTable)

	mock.ExpectExec(`DELETE FROM clients WHERE id = \?`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_ReplaceID_RewritesForeignKeys(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newEntityRepository(db, projectsTable)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE projects SET .* WHERE id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE tasks SET project_id = \? WHERE project_id = \?`).
		WithArgs(int64(501), int64(-2)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE time_entries SET project_id = \? WHERE project_id = \?`).
		WithArgs(int64(501), int64(-2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := models.Project{SyncMeta: models.SyncMeta{ID: 501}, WorkspaceID: 1, Name: "Site"}
	got, err := repo.ReplaceID(context.Background(), -2, p)
	require.NoError(t, err)
	assert.Equal(t, int64(501), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_ReplaceID_RollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := newEntityRepository(db, clientsTable)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE clients SET .* WHERE id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE projects SET client_id`).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint})
	mock.ExpectRollback()

	_, err := repo.ReplaceID(context.Background(), -1, models.Client{SyncMeta: models.SyncMeta{ID: 8}})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIDList(t *testing.T) {
	v, err := idList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = idList{3, -1}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[3,-1]", v)

	var l idList
	require.NoError(t, l.Scan([]byte("[1,2]")))
	assert.Equal(t, idList{1, 2}, l)

	require.NoError(t, l.Scan("[]"))
	assert.Nil(t, l)

	assert.Error(t, l.Scan(12))
}
