package models

type Client struct {
	SyncMeta
	WorkspaceID int64  `json:"workspace_id"`
	Name        string `json:"name"`
}

func (c Client) WithMeta(meta SyncMeta) Client {
	c.SyncMeta = meta
	return c
}

func (Client) EntityType() EntityType { return EntityClient }

func (c Client) DisplayName() string { return c.Name }

func (c Client) References() []Reference {
	return []Reference{{Type: EntityWorkspace, ID: c.WorkspaceID}}
}
