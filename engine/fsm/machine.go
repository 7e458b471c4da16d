package fsm

import (
	"fmt"
	"slices"
	"time"

	"github.com/lixenwraith/washaway/event"
)

// Machine runs one loaded graph against a context of type T (e.g. *reveal.Session)
// Not safe for concurrent use; the tick loop owns it
type Machine[T any] struct {
	nodes   map[StateID]*node[T]
	ids     map[string]StateID
	initial StateID

	active  StateID
	path    []StateID // lineage of active
	inState time.Duration
	firing  bool // set while exit/enter actions run; their events are dropped

	guards    map[string]GuardFunc[T]
	factories map[string]GuardFactoryFunc[T]
	actions   map[string]ActionFunc[T]

	observer func(from, to StateID)
}

// NewMachine returns an empty machine with the StateTimeExceeds guard factory registered
func NewMachine[T any]() *Machine[T] {
	m := &Machine[T]{
		nodes:     make(map[StateID]*node[T]),
		ids:       make(map[string]StateID),
		guards:    make(map[string]GuardFunc[T]),
		factories: make(map[string]GuardFactoryFunc[T]),
		actions:   make(map[string]ActionFunc[T]),
	}
	m.RegisterGuardFactory("StateTimeExceeds", stateTimeExceeds[T])
	return m
}

// Guards, factories and actions must be registered before LoadConfig binds them by name

func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) { m.guards[name] = fn }

func (m *Machine[T]) RegisterGuardFactory(name string, f GuardFactoryFunc[T]) {
	m.factories[name] = f
}

func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) { m.actions[name] = fn }

// OnTransition installs an observer called after each completed state change
func (m *Machine[T]) OnTransition(fn func(from, to StateID)) {
	m.observer = fn
}

// Init enters the initial state, running on_enter from Root down to the leaf
func (m *Machine[T]) Init(ctx T) error {
	if m.initial == StateNone {
		return ErrNotLoaded
	}
	n, ok := m.nodes[m.initial]
	if !ok {
		return fmt.Errorf("initial state %d: %w", m.initial, ErrUnknownState)
	}

	m.active = n.id
	m.inState = 0
	m.path = append(m.path[:0], n.lineage...)

	m.firing = true
	for _, id := range m.path {
		run(ctx, m.nodes[id].enter)
	}
	m.firing = false
	return nil
}

// Update advances the leaf clock by dt, runs its on_update then evaluates Tick transitions
func (m *Machine[T]) Update(ctx T, dt time.Duration) {
	if m.active == StateNone {
		return
	}
	m.inState += dt
	run(ctx, m.nodes[m.active].update)
	m.fire(ctx, event.EventTick)
}

// HandleEvent offers et to the active leaf, then to each ancestor
// Returns true if a transition fired
func (m *Machine[T]) HandleEvent(ctx T, et event.EventType) bool {
	if m.active == StateNone || et == event.EventTick {
		return false
	}
	return m.fire(ctx, et)
}

func (m *Machine[T]) fire(ctx T, on event.EventType) bool {
	if m.firing {
		return false
	}
	for id := m.active; id != StateNone; id = m.nodes[id].parent {
		for _, e := range m.nodes[id].edges {
			if e.on == on && (e.guard == nil || e.guard(ctx, m)) {
				m.switchTo(ctx, e.to)
				return true
			}
		}
	}
	return false
}

// switchTo exits up to the common ancestor of the active and target leaves, then enters down
func (m *Machine[T]) switchTo(ctx T, to StateID) {
	if to == m.active {
		return
	}
	target, ok := m.nodes[to]
	if !ok {
		panic(fmt.Sprintf("fsm: transition to unknown state %d", to))
	}

	m.firing = true
	defer func() { m.firing = false }()

	common := 0
	for common < len(m.path) && common < len(target.lineage) && m.path[common] == target.lineage[common] {
		common++
	}

	for i := len(m.path) - 1; i >= common; i-- {
		run(ctx, m.nodes[m.path[i]].exit)
	}

	from := m.active
	m.active = to
	m.inState = 0
	m.path = append(m.path[:0], target.lineage...)

	for _, id := range m.path[common:] {
		run(ctx, m.nodes[id].enter)
	}

	if m.observer != nil {
		m.observer(from, to)
	}
}

// Reset exits every active state and re-enters the initial one
func (m *Machine[T]) Reset(ctx T) error {
	if m.active != StateNone {
		m.firing = true
		for i := len(m.path) - 1; i >= 0; i-- {
			run(ctx, m.nodes[m.path[i]].exit)
		}
		m.firing = false
	}
	m.active = StateNone
	m.path = m.path[:0]
	return m.Init(ctx)
}

func (m *Machine[T]) StateID() StateID { return m.active }

func (m *Machine[T]) StateName() string {
	if n, ok := m.nodes[m.active]; ok {
		return n.name
	}
	return ""
}

// TimeInState is the update time accumulated since the active leaf was entered
func (m *Machine[T]) TimeInState() time.Duration {
	return m.inState
}

// IsIn reports whether name is the active leaf or one of its ancestors
func (m *Machine[T]) IsIn(name string) bool {
	id, ok := m.ids[name]
	return ok && slices.Contains(m.path, id)
}

func (m *Machine[T]) GetStateID(name string) (StateID, bool) {
	id, ok := m.ids[name]
	return id, ok
}

func stateTimeExceeds[T any](args map[string]any) (GuardFunc[T], error) {
	ms, err := numberArg(args, "ms")
	if err != nil {
		return nil, err
	}
	limit := time.Duration(ms * float64(time.Millisecond))
	return func(_ T, m *Machine[T]) bool {
		return m.TimeInState() >= limit
	}, nil
}

// numberArg reads a TOML number, which decodes as int64 or float64
func numberArg(args map[string]any, key string) (float64, error) {
	switch n := args[key].(type) {
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	case nil:
		return 0, fmt.Errorf("missing argument %q", key)
	default:
		return 0, fmt.Errorf("argument %q must be a number, got %T", key, n)
	}
}
