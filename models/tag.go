package models

type Tag struct {
	SyncMeta
	WorkspaceID int64  `json:"workspace_id"`
	Name        string `json:"name"`
}

func (t Tag) WithMeta(meta SyncMeta) Tag {
	t.SyncMeta = meta
	return t
}

func (Tag) EntityType() EntityType { return EntityTag }

func (t Tag) DisplayName() string { return t.Name }

func (t Tag) References() []Reference {
	return []Reference{{Type: EntityWorkspace, ID: t.WorkspaceID}}
}
