package fsm

import (
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/washaway/event"
)

// graphFile is the TOML layout of a state graph
//
//	initial = "Idle"
//	[states.Idle]
//	parent = "Interactive"
//	on_enter = [{ action = "ClearMarks" }]
//	transitions = [{ trigger = "EventMarkAdded", target = "Revealing" }]
type graphFile struct {
	Initial string              `toml:"initial"`
	States  map[string]stateDef `toml:"states"`
}

type stateDef struct {
	Parent      string      `toml:"parent"`
	OnEnter     []actionDef `toml:"on_enter"`
	OnUpdate    []actionDef `toml:"on_update"`
	OnExit      []actionDef `toml:"on_exit"`
	Transitions []edgeDef   `toml:"transitions"`
}

type edgeDef struct {
	Trigger   string         `toml:"trigger"` // event name or "Tick"
	Target    string         `toml:"target"`
	Guard     string         `toml:"guard"`
	GuardArgs map[string]any `toml:"guard_args"`
}

type actionDef struct {
	Action string         `toml:"action"`
	Args   map[string]any `toml:"args"`
}

// LoadConfig replaces the graph with the one in data
// Every state, parent, trigger, guard and action name must resolve; on error the machine is left unloaded
func (m *Machine[T]) LoadConfig(data []byte) error {
	var g graphFile
	if err := toml.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("fsm: decode graph: %w", err)
	}

	m.nodes = make(map[StateID]*node[T], len(g.States)+1)
	m.ids = make(map[string]StateID, len(g.States)+1)
	m.initial = StateNone
	m.active = StateNone
	m.path = m.path[:0]

	// Sorted names give stable IDs across loads of the same file
	names := []string{rootName}
	for name := range g.States {
		if name != rootName {
			names = append(names, name)
		}
	}
	slices.Sort(names[1:])
	for i, name := range names {
		m.ids[name] = StateRoot + StateID(i)
	}

	for _, name := range names {
		if err := m.build(name, g.States[name]); err != nil {
			return fmt.Errorf("fsm: state %q: %w", name, err)
		}
	}
	if err := m.link(); err != nil {
		return err
	}

	id, ok := m.ids[g.Initial]
	if !ok || id == StateRoot {
		return fmt.Errorf("fsm: initial state %q: %w", g.Initial, ErrUnknownState)
	}
	m.initial = id
	return nil
}

// LoadConfigFile loads a TOML graph from disk
func (m *Machine[T]) LoadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fsm: read graph: %w", err)
	}
	return m.LoadConfig(data)
}

func (m *Machine[T]) build(name string, def stateDef) error {
	n := &node[T]{id: m.ids[name], name: name}
	if n.id != StateRoot {
		parent := def.Parent
		if parent == "" {
			parent = rootName
		}
		pid, ok := m.ids[parent]
		if !ok {
			return fmt.Errorf("parent %q: %w", parent, ErrUnknownState)
		}
		n.parent = pid
	}

	var err error
	if n.enter, err = m.bindActions(def.OnEnter); err != nil {
		return fmt.Errorf("on_enter: %w", err)
	}
	if n.update, err = m.bindActions(def.OnUpdate); err != nil {
		return fmt.Errorf("on_update: %w", err)
	}
	if n.exit, err = m.bindActions(def.OnExit); err != nil {
		return fmt.Errorf("on_exit: %w", err)
	}
	for _, e := range def.Transitions {
		ed, err := m.bindEdge(e)
		if err != nil {
			return err
		}
		n.edges = append(n.edges, ed)
	}

	m.nodes[n.id] = n
	return nil
}

func (m *Machine[T]) bindActions(defs []actionDef) ([]boundAction[T], error) {
	out := make([]boundAction[T], 0, len(defs))
	for _, d := range defs {
		fn, ok := m.actions[d.Action]
		if !ok {
			return nil, fmt.Errorf("unknown action %q", d.Action)
		}
		out = append(out, boundAction[T]{fn: fn, args: d.Args})
	}
	return out, nil
}

func (m *Machine[T]) bindEdge(d edgeDef) (edge[T], error) {
	to, ok := m.ids[d.Target]
	if !ok {
		return edge[T]{}, fmt.Errorf("transition target %q: %w", d.Target, ErrUnknownState)
	}
	on, ok := event.GetEventType(d.Trigger)
	if !ok {
		return edge[T]{}, fmt.Errorf("unknown trigger %q", d.Trigger)
	}

	e := edge[T]{on: on, to: to}
	switch {
	case d.Guard == "":
	case m.factories[d.Guard] != nil:
		g, err := m.factories[d.Guard](d.GuardArgs)
		if err != nil {
			return edge[T]{}, fmt.Errorf("guard %q: %w", d.Guard, err)
		}
		e.guard = g
	case m.guards[d.Guard] != nil:
		e.guard = m.guards[d.Guard]
	default:
		return edge[T]{}, fmt.Errorf("unknown guard %q", d.Guard)
	}
	return e, nil
}

// link computes each node's lineage from Root, rejecting parent cycles
func (m *Machine[T]) link() error {
	for _, n := range m.nodes {
		var up []StateID
		for cur := n; ; cur = m.nodes[cur.parent] {
			up = append(up, cur.id)
			if cur.id == StateRoot {
				break
			}
			if len(up) > len(m.nodes) {
				return fmt.Errorf("fsm: state %q: parent cycle", n.name)
			}
		}
		slices.Reverse(up)
		n.lineage = up
	}
	return nil
}
