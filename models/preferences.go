package models

// Preferences holds account-wide display settings. There is exactly one per
// account.
type Preferences struct {
	SyncMeta
	TimeOfDayFormat     string `json:"time_of_day_format"`
	DateFormat          string `json:"date_format"`
	DurationFormat      string `json:"duration_format"`
	CollapseTimeEntries bool   `json:"collapse_time_entries"`
}

func (p Preferences) WithMeta(meta SyncMeta) Preferences {
	p.SyncMeta = meta
	return p
}

func (Preferences) EntityType() EntityType { return EntityPreferences }

func (Preferences) DisplayName() string { return "preferences" }

func (Preferences) References() []Reference { return nil }
