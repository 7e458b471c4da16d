// Package fsm is a generic hierarchical finite state machine driven by ticks and events
// Graphs are loaded from TOML and bound to registered guards and actions
package fsm

import (
	"errors"

	"github.com/lixenwraith/washaway/event"
)

// StateID identifies a node; IDs are assigned by name order at load
type StateID int

const (
	StateNone StateID = 0
	StateRoot StateID = 1
)

const rootName = "Root"

var (
	// ErrUnknownState is returned when a name or ID does not resolve to a node
	ErrUnknownState = errors.New("fsm: unknown state")

	// ErrNotLoaded is returned by Init before a graph is loaded
	ErrNotLoaded = errors.New("fsm: no graph loaded")
)

// GuardFunc reports whether a transition may fire
type GuardFunc[T any] func(ctx T, m *Machine[T]) bool

// ActionFunc runs a side effect with the args given in the graph
type ActionFunc[T any] func(ctx T, args map[string]any)

// GuardFactoryFunc builds a guard from its graph args, e.g. StateTimeExceeds{ms}
type GuardFactoryFunc[T any] func(args map[string]any) (GuardFunc[T], error)

type boundAction[T any] struct {
	fn   ActionFunc[T]
	args map[string]any
}

type edge[T any] struct {
	on    event.EventType // EventTick for guarded auto transitions
	to    StateID
	guard GuardFunc[T] // nil passes
}

type node[T any] struct {
	id      StateID
	name    string
	parent  StateID
	lineage []StateID // Root first, this node last

	enter  []boundAction[T]
	update []boundAction[T]
	exit   []boundAction[T]
	edges  []edge[T] // evaluated in declaration order
}

func run[T any](ctx T, actions []boundAction[T]) {
	for _, a := range actions {
		a.fn(ctx, a.args)
	}
}
