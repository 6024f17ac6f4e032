// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package states holds the push and pull states of a sync run and wires
// them into the sync graph.
//
// The graph pushes every entity type layer by layer in dependency order, so
// that ids assigned to a workspace are rewritten into its projects before
// the projects are pushed, and then pulls the types in the same order.
// Types of one layer run concurrently.
package states

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-time-sync/internal/adapter"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/statemachine"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/internal/telemetry"
	"github.com/MKhiriev/go-time-sync/models"
)

// Finished is the terminal node of the sync graph.
const Finished statemachine.StateID = "Finished"

// Dependencies are the collaborators of the sync graph.
type Dependencies struct {
	Storages *store.ClientStorages
	API      *adapter.RemoteAPI
	Metrics  *telemetry.SyncMetrics
	// FanOut bounds concurrent push requests per entity type.
	FanOut int
}

type shared struct {
	since   store.SinceParameterRepository
	locks   *keyedMutex
	fanOut  int
	metrics *telemetry.SyncMetrics
}

type typeStates struct {
	push statemachine.State
	pull statemachine.State
}

func bind[T models.Entity[T]](repo store.Repository[T], api adapter.EntityAPI[T], s *shared) (*pushState[T], *pullState[T]) {
	return newPushState(repo, api, s), newPullState(repo, api, s)
}

// NewSyncMachine builds the validated sync graph.
func NewSyncMachine(d Dependencies) (*statemachine.Machine, error) {
	if d.Storages == nil || d.API == nil {
		return nil, fmt.Errorf("sync machine: storages and api are required")
	}

	s := &shared{
		since:   d.Storages.Since,
		locks:   newKeyedMutex(),
		fanOut:  max(d.FanOut, 1),
		metrics: d.Metrics,
	}

	byType := make(map[models.EntityType]typeStates, len(models.AllEntityTypes()))

	wsPush, wsPull := bind(d.Storages.Workspaces, d.API.Workspaces, s)
	wsPull.afterPull = resetDependentsOnNewWorkspace(d.Storages.Workspaces, d.Storages.Since)
	byType[models.EntityWorkspace] = typeStates{wsPush, wsPull}

	prefPush, prefPull := bind(d.Storages.Preferences, d.API.Preferences, s)
	byType[models.EntityPreferences] = typeStates{prefPush, prefPull}
	userPush, userPull := bind(d.Storages.Users, d.API.Users, s)
	byType[models.EntityUser] = typeStates{userPush, userPull}
	clientPush, clientPull := bind(d.Storages.Clients, d.API.Clients, s)
	byType[models.EntityClient] = typeStates{clientPush, clientPull}
	tagPush, tagPull := bind(d.Storages.Tags, d.API.Tags, s)
	byType[models.EntityTag] = typeStates{tagPush, tagPull}
	projectPush, projectPull := bind(d.Storages.Projects, d.API.Projects, s)
	byType[models.EntityProject] = typeStates{projectPush, projectPull}
	taskPush, taskPull := bind(d.Storages.Tasks, d.API.Tasks, s)
	byType[models.EntityTask] = typeStates{taskPush, taskPull}
	entryPush, entryPull := bind(d.Storages.TimeEntries, d.API.TimeEntries, s)
	byType[models.EntityTimeEntry] = typeStates{entryPush, entryPull}

	var (
		nodes []statemachine.State
		edges []statemachine.Edge
	)
	stages := models.SyncStages()

	phase := func(prefix string, pick func(typeStates) statemachine.State) {
		for i, stage := range stages {
			children := make([]statemachine.State, 0, len(stage))
			for _, t := range stage {
				children = append(children, pick(byType[t]))
			}

			node := children[0]
			if len(children) > 1 {
				node = statemachine.Parallel(stageID(prefix, i, stage), children...)
			}

			if n := len(nodes); n > 0 {
				for _, r := range nodes[n-1].Results() {
					edges = append(edges, statemachine.Edge{From: nodes[n-1].ID(), Result: r, To: node.ID()})
				}
			}
			nodes = append(nodes, node)
		}
	}
	phase("Push", func(ts typeStates) statemachine.State { return ts.push })
	phase("Pull", func(ts typeStates) statemachine.State { return ts.pull })

	last := nodes[len(nodes)-1]
	for _, r := range last.Results() {
		edges = append(edges, statemachine.Edge{From: last.ID(), Result: r, To: Finished})
	}

	return statemachine.New(nodes[0].ID(), nodes, edges, Finished)
}

// resetDependentsOnNewWorkspace forces full fetches of every workspace
// scoped type when a pull discovers a workspace the client did not know
// while others already existed locally; their since-parameters only cover
// the workspaces seen before.
func resetDependentsOnNewWorkspace(workspaces store.Repository[models.Workspace], since store.SinceParameterRepository) pulledHook {
	return func(ctx context.Context, created int) error {
		if created == 0 {
			return nil
		}

		all, err := workspaces.GetAll(ctx, store.Query{})
		if err != nil {
			return fmt.Errorf("count workspaces: %w", err)
		}
		if len(all) <= created {
			return nil
		}

		for _, t := range models.EntityWorkspace.Dependents() {
			if err = since.Reset(ctx, t); err != nil {
				return fmt.Errorf("reset since parameter of %s: %w", t, err)
			}
		}
		logger.FromContext(ctx).Info().
			Str("func", "resetDependentsOnNewWorkspace").
			Int("new_workspaces", created).
			Msg("new workspace discovered, dependent types will be fetched in full")

		return nil
	}
}

func pushStateID(t models.EntityType) statemachine.StateID {
	return statemachine.StateID("Push:" + t.String())
}

func pullStateID(t models.EntityType) statemachine.StateID {
	return statemachine.StateID("Pull:" + t.String())
}

func stageID(prefix string, index int, stage []models.EntityType) statemachine.StateID {
	names := make([]string, len(stage))
	for i, t := range stage {
		names[i] = t.String()
	}
	return statemachine.StateID(fmt.Sprintf("%s%d[%s]", prefix, index+1, strings.Join(names, ",")))
}
