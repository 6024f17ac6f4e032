package models

import (
	"fmt"
	"time"
)

// SyncStatus is the local synchronization state of an entity.
type SyncStatus int

const (
	// InSync means the local copy matches the last known server copy.
	InSync SyncStatus = iota
	// SyncNeeded means the entity carries local edits not yet pushed.
	SyncNeeded
	// SyncFailed means the last push was rejected; see LastSyncErrorMessage.
	SyncFailed
)

func (s SyncStatus) String() string {
	switch s {
	case InSync:
		return "InSync"
	case SyncNeeded:
		return "SyncNeeded"
	case SyncFailed:
		return "SyncFailed"
	default:
		return fmt.Sprintf("SyncStatus(%d)", int(s))
	}
}

// SyncErrorKind classifies why an entity ended up SyncFailed.
type SyncErrorKind string

const (
	SyncErrorNone            SyncErrorKind = ""
	SyncErrorTransport       SyncErrorKind = "transport"
	SyncErrorRejected        SyncErrorKind = "rejected"
	SyncErrorPaymentRequired SyncErrorKind = "payment_required"
	SyncErrorDependency      SyncErrorKind = "dependency"
)

// SyncMeta is embedded by every entity. A negative ID is a local placeholder
// that has never been acknowledged by the server; the server assigns a
// positive ID exactly once, on the first successful push.
type SyncMeta struct {
	ID                   int64         `json:"id"`
	At                   time.Time     `json:"at"`
	IsDeleted            bool          `json:"is_deleted"`
	SyncStatus           SyncStatus    `json:"-"`
	LastSyncErrorMessage string        `json:"-"`
	LastSyncErrorKind    SyncErrorKind `json:"-"`
}

// Meta returns a copy of the sync metadata. Entities get it by embedding.
func (m SyncMeta) Meta() SyncMeta {
	return m
}

// HasServerID reports whether the server has acknowledged this entity.
func (m SyncMeta) HasServerID() bool {
	return m.ID > 0
}

// MarkedInSync returns m with status InSync and no error.
func (m SyncMeta) MarkedInSync() SyncMeta {
	m.SyncStatus = InSync
	m.LastSyncErrorMessage = ""
	m.LastSyncErrorKind = SyncErrorNone
	return m
}

// MarkedFailed returns m with status SyncFailed and the given error.
func (m SyncMeta) MarkedFailed(kind SyncErrorKind, message string) SyncMeta {
	m.SyncStatus = SyncFailed
	m.LastSyncErrorMessage = message
	m.LastSyncErrorKind = kind
	return m
}

// MarkedDirty returns m with status SyncNeeded and At set to at.
func (m SyncMeta) MarkedDirty(at time.Time) SyncMeta {
	m.SyncStatus = SyncNeeded
	m.At = at
	return m
}

// Requeued returns m with status SyncNeeded and the last error cleared. At is
// kept so that conflict resolution still sees the time of the edit.
func (m SyncMeta) Requeued() SyncMeta {
	m.SyncStatus = SyncNeeded
	m.LastSyncErrorMessage = ""
	m.LastSyncErrorKind = SyncErrorNone
	return m
}

// SyncFailureItem is a read-only projection of one SyncFailed entity, used to
// surface push failures to the user.
type SyncFailureItem struct {
	Type             EntityType    `json:"type"`
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	SyncStatus       SyncStatus    `json:"sync_status"`
	SyncErrorMessage string        `json:"sync_error_message"`
	Kind             SyncErrorKind `json:"kind"`
}

// NewSyncFailureItem projects e into a failure report item.
func NewSyncFailureItem[T Entity[T]](e T) SyncFailureItem {
	meta := e.Meta()
	return SyncFailureItem{
		Type:             e.EntityType(),
		ID:               meta.ID,
		Name:             e.DisplayName(),
		SyncStatus:       meta.SyncStatus,
		SyncErrorMessage: meta.LastSyncErrorMessage,
		Kind:             meta.LastSyncErrorKind,
	}
}

// TypeFailure records that a whole entity type could not be pulled.
type TypeFailure struct {
	Type EntityType
	Err  error
}

func (f TypeFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Type, f.Err)
}

func (f TypeFailure) Unwrap() error {
	return f.Err
}

// OutcomeKind distinguishes the three results of a sync run.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomePartialFailure
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomePartialFailure:
		return "partial_failure"
	case OutcomeFatal:
		return "fatal"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// SyncOutcome is what a sync run reports. Failures and TypeFailures are set
// for OutcomePartialFailure, Err for OutcomeFatal.
type SyncOutcome struct {
	Kind         OutcomeKind
	Failures     []SyncFailureItem
	TypeFailures []TypeFailure
	Err          error
}

// Success builds an OutcomeSuccess.
func Success() SyncOutcome {
	return SyncOutcome{Kind: OutcomeSuccess}
}

// PartialFailure builds an OutcomePartialFailure.
func PartialFailure(items []SyncFailureItem, typeFailures []TypeFailure) SyncOutcome {
	return SyncOutcome{Kind: OutcomePartialFailure, Failures: items, TypeFailures: typeFailures}
}

// Fatal builds an OutcomeFatal.
func Fatal(err error) SyncOutcome {
	return SyncOutcome{Kind: OutcomeFatal, Err: err}
}
