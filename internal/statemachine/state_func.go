package statemachine

import "context"

// StartFunc is the body of a state built with [NewState].
type StartFunc func(ctx context.Context, input any) (Transition, error)

type funcState struct {
	id      StateID
	results []Result
	start   StartFunc
}

// NewState builds a [State] from a plain function.
func NewState(id StateID, results []Result, start StartFunc) State {
	return &funcState{id: id, results: results, start: start}
}

func (s *funcState) ID() StateID { return s.id }

func (s *funcState) Results() []Result { return s.results }

func (s *funcState) Start(ctx context.Context, input any) (Transition, error) {
	return s.start(ctx, input)
}
