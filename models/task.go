package models

type Task struct {
	SyncMeta
	WorkspaceID      int64  `json:"workspace_id"`
	ProjectID        int64  `json:"project_id"`
	Name             string `json:"name"`
	Active           bool   `json:"active"`
	EstimatedSeconds int64  `json:"estimated_seconds"`
}

func (t Task) WithMeta(meta SyncMeta) Task {
	t.SyncMeta = meta
	return t
}

func (Task) EntityType() EntityType { return EntityTask }

func (t Task) DisplayName() string { return t.Name }

func (t Task) References() []Reference {
	return []Reference{
		{Type: EntityWorkspace, ID: t.WorkspaceID},
		{Type: EntityProject, ID: t.ProjectID},
	}
}
