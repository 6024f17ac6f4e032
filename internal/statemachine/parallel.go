package statemachine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// AllFinished is the only result of a [Parallel] state.
const AllFinished Result = "AllFinished"

type parallelState struct {
	id       StateID
	children []State
}

// Parallel composes children into one state that starts all of them with
// the same input and waits for every one to return. It yields AllFinished
// with the unchanged input; the children's own transitions are discarded.
func Parallel(id StateID, children ...State) State {
	return &parallelState{id: id, children: children}
}

func (p *parallelState) ID() StateID { return p.id }

func (p *parallelState) Results() []Result { return []Result{AllFinished} }

func (p *parallelState) Start(ctx context.Context, input any) (Transition, error) {
	var g errgroup.Group
	for _, child := range p.children {
		g.Go(func() error {
			_, err := child.Start(ctx, input)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Transition{}, err
	}

	return Transition{Result: AllFinished, Payload: input}, nil
}
