package models

// User is the account owner. There is exactly one per account.
type User struct {
	SyncMeta
	Email              string `json:"email"`
	Fullname           string `json:"fullname"`
	DefaultWorkspaceID *int64 `json:"default_workspace_id,omitempty"`
	BeginningOfWeek    int    `json:"beginning_of_week"`
}

func (u User) WithMeta(meta SyncMeta) User {
	u.SyncMeta = meta
	return u
}

func (User) EntityType() EntityType { return EntityUser }

func (u User) DisplayName() string {
	if u.Fullname != "" {
		return u.Fullname
	}
	return u.Email
}

func (u User) References() []Reference {
	return appendRef(nil, EntityWorkspace, u.DefaultWorkspaceID)
}

func appendRef(refs []Reference, t EntityType, id *int64) []Reference {
	if id == nil {
		return refs
	}
	return append(refs, Reference{Type: t, ID: *id})
}
