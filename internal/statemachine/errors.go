package statemachine

import "errors"

// Construction errors returned by [New].
var (
	ErrUnknownState     = errors.New("unknown state")
	ErrDuplicateState   = errors.New("duplicate state id")
	ErrDuplicateEdge    = errors.New("duplicate edge")
	ErrUndeclaredResult = errors.New("result is not declared by the state")
	ErrUnhandledResult  = errors.New("declared result has no outgoing edge")
	ErrDanglingTarget   = errors.New("edge target is neither a state nor a terminal")
	ErrUnreachableState = errors.New("state is unreachable from the entry point")
)

// Run errors.
var (
	ErrTooManyTransitions = errors.New("too many transitions")
	ErrInvalidTransition  = errors.New("state produced a result without an edge")
)
