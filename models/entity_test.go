// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── SyncStages ───────────────────────────────────────────────────────────────

func TestSyncStages_Layers(t *testing.T) {
	stages := SyncStages()

	require.Len(t, stages, 5)
	assert.Equal(t, []EntityType{EntityWorkspace, EntityPreferences}, stages[0])
	assert.Equal(t, []EntityType{EntityUser, EntityClient, EntityTag}, stages[1])
	assert.Equal(t, []EntityType{EntityProject}, stages[2])
	assert.Equal(t, []EntityType{EntityTask}, stages[3])
	assert.Equal(t, []EntityType{EntityTimeEntry}, stages[4])
}

func TestSyncStages_DependenciesComeFirst(t *testing.T) {
	layer := make(map[EntityType]int)
	for i, stage := range SyncStages() {
		for _, typ := range stage {
			layer[typ] = i
		}
	}

	require.Len(t, layer, len(AllEntityTypes()))
	for typ, i := range layer {
		for _, dep := range typ.Dependencies() {
			assert.Less(t, layer[dep], i, "%s must be synced after %s", typ, dep)
		}
	}
}

// ── Dependents ───────────────────────────────────────────────────────────────

func TestEntityType_Dependents(t *testing.T) {
	assert.Equal(t,
		[]EntityType{EntityUser, EntityClient, EntityTag, EntityProject, EntityTask, EntityTimeEntry},
		EntityWorkspace.Dependents())
	assert.Equal(t, []EntityType{EntityProject, EntityTask, EntityTimeEntry}, EntityClient.Dependents())
	assert.Empty(t, EntityTimeEntry.Dependents())
	assert.Empty(t, EntityPreferences.Dependents())
}

func TestEntityType_Properties(t *testing.T) {
	assert.True(t, EntityUser.IsSingleton())
	assert.True(t, EntityPreferences.IsSingleton())
	assert.False(t, EntityProject.IsSingleton())

	assert.Equal(t, "time_entries", EntityTimeEntry.Collection())
	assert.Equal(t, "me", EntityUser.Collection())
	assert.True(t, EntityTag.Valid())
	assert.False(t, EntityType("invoice").Valid())
}

// ── References ───────────────────────────────────────────────────────────────

func TestTimeEntry_References(t *testing.T) {
	projectID, taskID := int64(-3), int64(7)
	te := TimeEntry{
		WorkspaceID: 1,
		ProjectID:   &projectID,
		TaskID:      &taskID,
		TagIDs:      []int64{5, -6},
	}

	assert.Equal(t, []Reference{
		{Type: EntityWorkspace, ID: 1},
		{Type: EntityProject, ID: -3},
		{Type: EntityTask, ID: 7},
		{Type: EntityTag, ID: 5},
		{Type: EntityTag, ID: -6},
	}, te.References())
}

func TestProject_References_WithoutClient(t *testing.T) {
	p := Project{WorkspaceID: 4}
	assert.Equal(t, []Reference{{Type: EntityWorkspace, ID: 4}}, p.References())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada", User{Fullname: "Ada", Email: "ada@example.com"}.DisplayName())
	assert.Equal(t, "ada@example.com", User{Email: "ada@example.com"}.DisplayName())
	assert.Equal(t, "(no description)", TimeEntry{}.DisplayName())
}
