package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-time-sync/models"
)

var metaColumns = []string{
	"id", "sync_status", "at", "is_deleted", "last_sync_error_message", "last_sync_error_kind",
}

type rowScanner interface {
	Scan(dest ...any) error
}

// foreignKey names a column of another table that stores ids of this table.
type foreignKey struct {
	table  string
	column string
}

// table maps one entity type onto its SQLite table.
type table[T models.Entity[T]] struct {
	name    string
	columns []string
	values  func(T) []any
	scan    func(rowScanner) (T, error)

	// referencedBy lists plain integer columns pointing at this table.
	referencedBy []foreignKey
	// remapStatements are extra raw statements executed with
	// (placeholderID, serverID, placeholderID) when an id is replaced.
	remapStatements []string
}

func (t table[T]) allColumns() []string {
	cols := make([]string, 0, len(metaColumns)+len(t.columns))
	cols = append(cols, metaColumns...)
	return append(cols, t.columns...)
}

func metaValues(m models.SyncMeta) []any {
	return []any{m.ID, m.SyncStatus, m.At.UTC(), m.IsDeleted, m.LastSyncErrorMessage, string(m.LastSyncErrorKind)}
}

func metaDest(m *models.SyncMeta) []any {
	return []any{&m.ID, &m.SyncStatus, &m.At, &m.IsDeleted, &m.LastSyncErrorMessage, (*string)(&m.LastSyncErrorKind)}
}

var workspacesTable = table[models.Workspace]{
	name:    "workspaces",
	columns: []string{"name", "is_premium"},
	values: func(w models.Workspace) []any {
		return append(metaValues(w.SyncMeta), w.Name, w.IsPremium)
	},
	scan: func(row rowScanner) (models.Workspace, error) {
		var w models.Workspace
		err := row.Scan(append(metaDest(&w.SyncMeta), &w.Name, &w.IsPremium)...)
		return w, err
	},
	referencedBy: []foreignKey{
		{table: "users", column: "default_workspace_id"},
		{table: "clients", column: "workspace_id"},
		{table: "projects", column: "workspace_id"},
		{table: "tags", column: "workspace_id"},
		{table: "tasks", column: "workspace_id"},
		{table: "time_entries", column: "workspace_id"},
	},
}

var usersTable = table[models.User]{
	name:    "users",
	columns: []string{"email", "fullname", "default_workspace_id", "beginning_of_week"},
	values: func(u models.User) []any {
		return append(metaValues(u.SyncMeta), u.Email, u.Fullname, u.DefaultWorkspaceID, u.BeginningOfWeek)
	},
	scan: func(row rowScanner) (models.User, error) {
		var u models.User
		err := row.Scan(append(metaDest(&u.SyncMeta), &u.Email, &u.Fullname, &u.DefaultWorkspaceID, &u.BeginningOfWeek)...)
		return u, err
	},
}

var preferencesTable = table[models.Preferences]{
	name:    "preferences",
	columns: []string{"time_of_day_format", "date_format", "duration_format", "collapse_time_entries"},
	values: func(p models.Preferences) []any {
		return append(metaValues(p.SyncMeta), p.TimeOfDayFormat, p.DateFormat, p.DurationFormat, p.CollapseTimeEntries)
	},
	scan: func(row rowScanner) (models.Preferences, error) {
		var p models.Preferences
		err := row.Scan(append(metaDest(&p.SyncMeta), &p.TimeOfDayFormat, &p.DateFormat, &p.DurationFormat, &p.CollapseTimeEntries)...)
		return p, err
	},
}

var clientsTable = table[models.Client]{
	name:    "clients",
	columns: []string{"workspace_id", "name"},
	values: func(c models.Client) []any {
		return append(metaValues(c.SyncMeta), c.WorkspaceID, c.Name)
	},
	scan: func(row rowScanner) (models.Client, error) {
		var c models.Client
		err := row.Scan(append(metaDest(&c.SyncMeta), &c.WorkspaceID, &c.Name)...)
		return c, err
	},
	referencedBy: []foreignKey{
		{table: "projects", column: "client_id"},
	},
}

var projectsTable = table[models.Project]{
	name:    "projects",
	columns: []string{"workspace_id", "client_id", "name", "color", "active", "billable"},
	values: func(p models.Project) []any {
		return append(metaValues(p.SyncMeta), p.WorkspaceID, p.ClientID, p.Name, p.Color, p.Active, p.Billable)
	},
	scan: func(row rowScanner) (models.Project, error) {
		var p models.Project
		err := row.Scan(append(metaDest(&p.SyncMeta), &p.WorkspaceID, &p.ClientID, &p.Name, &p.Color, &p.Active, &p.Billable)...)
		return p, err
	},
	referencedBy: []foreignKey{
		{table: "tasks", column: "project_id"},
		{table: "time_entries", column: "project_id"},
	},
}

var tagsTable = table[models.Tag]{
	name:    "tags",
	columns: []string{"workspace_id", "name"},
	values: func(t models.Tag) []any {
		return append(metaValues(t.SyncMeta), t.WorkspaceID, t.Name)
	},
	scan: func(row rowScanner) (models.Tag, error) {
		var t models.Tag
		err := row.Scan(append(metaDest(&t.SyncMeta), &t.WorkspaceID, &t.Name)...)
		return t, err
	},
	remapStatements: []string{remapTimeEntryTagIDs},
}

var tasksTable = table[models.Task]{
	name:    "tasks",
	columns: []string{"workspace_id", "project_id", "name", "active", "estimated_seconds"},
	values: func(t models.Task) []any {
		return append(metaValues(t.SyncMeta), t.WorkspaceID, t.ProjectID, t.Name, t.Active, t.EstimatedSeconds)
	},
	scan: func(row rowScanner) (models.Task, error) {
		var t models.Task
		err := row.Scan(append(metaDest(&t.SyncMeta), &t.WorkspaceID, &t.ProjectID, &t.Name, &t.Active, &t.EstimatedSeconds)...)
		return t, err
	},
	referencedBy: []foreignKey{
		{table: "time_entries", column: "task_id"},
	},
}

var timeEntriesTable = table[models.TimeEntry]{
	name: "time_entries",
	columns: []string{
		"workspace_id", "project_id", "task_id", "tag_ids", "description", "start", "duration", "billable",
	},
	values: func(e models.TimeEntry) []any {
		return append(metaValues(e.SyncMeta),
			e.WorkspaceID, e.ProjectID, e.TaskID, idList(e.TagIDs), e.Description, e.Start.UTC(), e.Duration, e.Billable)
	},
	scan: func(row rowScanner) (models.TimeEntry, error) {
		var e models.TimeEntry
		err := row.Scan(append(metaDest(&e.SyncMeta),
			&e.WorkspaceID, &e.ProjectID, &e.TaskID, (*idList)(&e.TagIDs), &e.Description, &e.Start, &e.Duration, &e.Billable)...)
		return e, err
	},
}

// idList stores a list of ids as a JSON array so that SQLite's json1
// functions can rewrite single elements.
type idList []int64

func (l idList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]int64(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *idList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported id list source %T", src)
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("decode id list: %w", err)
	}
	if len(ids) == 0 {
		ids = nil
	}
	*l = ids
	return nil
}
