package models

import "time"

// TimeEntry is one tracked interval. A nil Duration means the entry is still
// running.
type TimeEntry struct {
	SyncMeta
	WorkspaceID int64     `json:"workspace_id"`
	ProjectID   *int64    `json:"project_id,omitempty"`
	TaskID      *int64    `json:"task_id,omitempty"`
	TagIDs      []int64   `json:"tag_ids"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	Duration    *int64    `json:"duration,omitempty"`
	Billable    bool      `json:"billable"`
}

func (e TimeEntry) WithMeta(meta SyncMeta) TimeEntry {
	e.SyncMeta = meta
	return e
}

func (TimeEntry) EntityType() EntityType { return EntityTimeEntry }

func (e TimeEntry) DisplayName() string {
	if e.Description == "" {
		return "(no description)"
	}
	return e.Description
}

func (e TimeEntry) References() []Reference {
	refs := []Reference{{Type: EntityWorkspace, ID: e.WorkspaceID}}
	refs = appendRef(refs, EntityProject, e.ProjectID)
	refs = appendRef(refs, EntityTask, e.TaskID)
	for _, id := range e.TagIDs {
		refs = append(refs, Reference{Type: EntityTag, ID: id})
	}
	return refs
}

// IsRunning reports whether the entry has not been stopped yet.
func (e TimeEntry) IsRunning() bool {
	return e.Duration == nil
}
