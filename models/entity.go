// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EntityType names one kind of synchronized entity. The value doubles as the
// key of the since-parameter table and as the "type" field of failure reports.
type EntityType string

const (
	EntityWorkspace   EntityType = "workspace"
	EntityPreferences EntityType = "preferences"
	EntityUser        EntityType = "user"
	EntityClient      EntityType = "client"
	EntityTag         EntityType = "tag"
	EntityProject     EntityType = "project"
	EntityTask        EntityType = "task"
	EntityTimeEntry   EntityType = "time_entry"
)

// allEntityTypes is the canonical order. Stages keep it inside a layer.
var allEntityTypes = []EntityType{
	EntityWorkspace,
	EntityPreferences,
	EntityUser,
	EntityClient,
	EntityTag,
	EntityProject,
	EntityTask,
	EntityTimeEntry,
}

var dependencies = map[EntityType][]EntityType{
	EntityUser:      {EntityWorkspace},
	EntityClient:    {EntityWorkspace},
	EntityTag:       {EntityWorkspace},
	EntityProject:   {EntityWorkspace, EntityClient},
	EntityTask:      {EntityWorkspace, EntityProject},
	EntityTimeEntry: {EntityWorkspace, EntityProject, EntityTask, EntityTag},
}

var collections = map[EntityType]string{
	EntityWorkspace:   "workspaces",
	EntityPreferences: "preferences",
	EntityUser:        "me",
	EntityClient:      "clients",
	EntityTag:         "tags",
	EntityProject:     "projects",
	EntityTask:        "tasks",
	EntityTimeEntry:   "time_entries",
}

// AllEntityTypes returns every entity type in canonical order.
func AllEntityTypes() []EntityType {
	out := make([]EntityType, len(allEntityTypes))
	copy(out, allEntityTypes)
	return out
}

func (t EntityType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	_, ok := collections[t]
	return ok
}

// Collection returns the REST collection segment used for t.
func (t EntityType) Collection() string {
	return collections[t]
}

// IsSingleton reports whether exactly one instance of t exists per account.
// Singletons are never created or deleted by the client, only updated.
func (t EntityType) IsSingleton() bool {
	return t == EntityUser || t == EntityPreferences
}

// Dependencies returns the types t holds references to.
func (t EntityType) Dependencies() []EntityType {
	return dependencies[t]
}

// Dependents returns every type that references t directly or transitively,
// in canonical order.
func (t EntityType) Dependents() []EntityType {
	var out []EntityType
	for _, candidate := range allEntityTypes {
		if candidate != t && dependsOn(candidate, t) {
			out = append(out, candidate)
		}
	}
	return out
}

func dependsOn(from, to EntityType) bool {
	for _, dep := range dependencies[from] {
		if dep == to || dependsOn(dep, to) {
			return true
		}
	}
	return false
}

// SyncStages groups entity types into dependency layers. Every type appears in
// a later layer than all of its dependencies; types inside one layer are
// independent of each other and may be synchronized concurrently.
func SyncStages() [][]EntityType {
	placed := make(map[EntityType]bool, len(allEntityTypes))
	var stages [][]EntityType

	for len(placed) < len(allEntityTypes) {
		var stage []EntityType
		for _, t := range allEntityTypes {
			if placed[t] {
				continue
			}
			ready := true
			for _, dep := range dependencies[t] {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				stage = append(stage, t)
			}
		}
		if len(stage) == 0 {
			panic("models: cyclic entity dependencies")
		}
		for _, t := range stage {
			placed[t] = true
		}
		stages = append(stages, stage)
	}

	return stages
}

// Reference points from one entity to another by local id.
type Reference struct {
	Type EntityType
	ID   int64
}

// Entity is the capability set shared by every synchronized entity. T is the
// concrete entity type so that WithMeta can return a value of the same type.
type Entity[T any] interface {
	Meta() SyncMeta
	WithMeta(meta SyncMeta) T
	EntityType() EntityType
	DisplayName() string
	References() []Reference
}
