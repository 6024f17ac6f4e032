package models

// Workspace is the top-level container every other entity belongs to.
type Workspace struct {
	SyncMeta
	Name      string `json:"name"`
	IsPremium bool   `json:"is_premium"`
}

func (w Workspace) WithMeta(meta SyncMeta) Workspace {
	w.SyncMeta = meta
	return w
}

func (Workspace) EntityType() EntityType { return EntityWorkspace }

func (w Workspace) DisplayName() string { return w.Name }

func (Workspace) References() []Reference { return nil }
