// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package statemachine runs a fixed graph of states. The graph is an
// explicit transition table checked once at construction, so a run can only
// fail because a state failed or the context was canceled.
package statemachine

import (
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-time-sync/internal/logger"
)

// StateID names a node of the graph.
type StateID string

// Result names an outgoing edge of a state.
type Result string

// Transition is what a state yields when it finishes. Payload becomes the
// input of the next state.
type Transition struct {
	Result  Result
	Payload any
}

// State is one step of a run.
type State interface {
	ID() StateID
	// Results lists every Result that Start may yield.
	Results() []Result
	// Start performs the step. It yields exactly one transition or an error.
	Start(ctx context.Context, input any) (Transition, error)
}

// Edge routes Result of state From to To.
type Edge struct {
	From   StateID
	Result Result
	To     StateID
}

// Outcome describes how a run ended.
type Outcome struct {
	// Terminal is the terminal node reached, empty when the run failed.
	Terminal StateID
	// Last is the last state that was started.
	Last    StateID
	Result  Result
	Payload any
	Path    []StateID
}

const defaultMaxTransitions = 256

// Machine is an immutable, validated state graph. It holds no per-run state
// and may be run concurrently.
type Machine struct {
	entry     StateID
	states    map[StateID]State
	order     []StateID
	edges     map[StateID]map[Result]StateID
	edgeList  []Edge
	terminals []StateID

	maxTransitions int
}

// New validates the graph and builds a [Machine]. Terminals are plain node
// ids without behaviour; reaching one ends the run.
func New(entry StateID, states []State, edges []Edge, terminals ...StateID) (*Machine, error) {
	m := &Machine{
		entry:          entry,
		states:         make(map[StateID]State, len(states)),
		edges:          make(map[StateID]map[Result]StateID, len(states)),
		edgeList:       slices.Clone(edges),
		terminals:      slices.Clone(terminals),
		maxTransitions: defaultMaxTransitions,
	}

	for _, s := range states {
		if _, ok := m.states[s.ID()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateState, s.ID())
		}
		m.states[s.ID()] = s
		m.order = append(m.order, s.ID())
	}
	seenTerminals := make(map[StateID]bool, len(terminals))
	for _, t := range terminals {
		if _, ok := m.states[t]; ok || seenTerminals[t] {
			return nil, fmt.Errorf("%w: terminal %s", ErrDuplicateState, t)
		}
		seenTerminals[t] = true
	}
	if _, ok := m.states[entry]; !ok {
		return nil, fmt.Errorf("%w: entry %s", ErrUnknownState, entry)
	}

	for _, e := range edges {
		from, ok := m.states[e.From]
		if !ok {
			return nil, fmt.Errorf("%w: edge from %s", ErrUnknownState, e.From)
		}
		if !slices.Contains(from.Results(), e.Result) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUndeclaredResult, e.From, e.Result)
		}
		if _, ok = m.states[e.To]; !ok && !slices.Contains(terminals, e.To) {
			return nil, fmt.Errorf("%w: %s.%s -> %s", ErrDanglingTarget, e.From, e.Result, e.To)
		}
		if m.edges[e.From] == nil {
			m.edges[e.From] = make(map[Result]StateID)
		}
		if _, ok = m.edges[e.From][e.Result]; ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateEdge, e.From, e.Result)
		}
		m.edges[e.From][e.Result] = e.To
	}

	for _, id := range m.order {
		for _, r := range m.states[id].Results() {
			if _, ok := m.edges[id][r]; !ok {
				return nil, fmt.Errorf("%w: %s.%s", ErrUnhandledResult, id, r)
			}
		}
	}

	reachable := m.reachable()
	for _, id := range m.order {
		if !reachable[id] {
			return nil, fmt.Errorf("%w: %s", ErrUnreachableState, id)
		}
	}

	return m, nil
}

func (m *Machine) reachable() map[StateID]bool {
	seen := map[StateID]bool{m.entry: true}
	queue := []StateID{m.entry}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, to := range m.edges[id] {
			if !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	return seen
}

// Run walks the graph from the entry state until a terminal is reached.
//
// States are started with a context that is never canceled, so a started
// state always finishes its work; ctx is checked before each state instead.
func (m *Machine) Run(ctx context.Context, input any) (Outcome, error) {
	log := logger.FromContext(ctx)
	stateCtx := context.WithoutCancel(ctx)

	out := Outcome{}
	current, payload := m.entry, input

	for range m.maxTransitions {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("run canceled before %s: %w", current, err)
		}

		state := m.states[current]
		out.Last = current
		out.Path = append(out.Path, current)

		tr, err := state.Start(stateCtx, payload)
		if err != nil {
			return out, fmt.Errorf("state %s: %w", current, err)
		}

		next, ok := m.edges[current][tr.Result]
		if !ok {
			return out, fmt.Errorf("%w: %s.%s", ErrInvalidTransition, current, tr.Result)
		}
		log.Debug().
			Str("func", "Machine.Run").
			Str("from", string(current)).
			Str("result", string(tr.Result)).
			Str("to", string(next)).
			Msg("transition")

		out.Result, out.Payload = tr.Result, tr.Payload
		if slices.Contains(m.terminals, next) {
			out.Terminal = next
			return out, nil
		}
		current, payload = next, tr.Payload
	}

	return out, fmt.Errorf("%w: limit %d", ErrTooManyTransitions, m.maxTransitions)
}
