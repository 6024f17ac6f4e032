package models

// DefaultProjectColor is the only colour available on free workspaces.
const DefaultProjectColor = "#06aaf5"

type Project struct {
	SyncMeta
	WorkspaceID int64  `json:"workspace_id"`
	ClientID    *int64 `json:"client_id,omitempty"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Active      bool   `json:"active"`
	Billable    bool   `json:"billable"`
}

func (p Project) WithMeta(meta SyncMeta) Project {
	p.SyncMeta = meta
	return p
}

func (Project) EntityType() EntityType { return EntityProject }

func (p Project) DisplayName() string { return p.Name }

func (p Project) References() []Reference {
	refs := []Reference{{Type: EntityWorkspace, ID: p.WorkspaceID}}
	return appendRef(refs, EntityClient, p.ClientID)
}
