// Package input translates tcell terminal events into reveal session events
package input

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/washaway/event"
	"github.com/lixenwraith/washaway/render"
)

// Machine is the input state machine
// Tracks the primary button so press, drag and release become down, move and up
// Not safe for concurrent use: owned by the terminal polling goroutine
type Machine struct {
	keyTable *KeyTable
	geom     render.Geometry
	now      func() time.Duration

	held     bool
	lastCell [2]int // Last reported cell while held, repeats are dropped
}

// NewMachine creates a machine for the initial geometry; now stamps every pointer sample
func NewMachine(geom render.Geometry, now func() time.Duration) *Machine {
	return &Machine{
		keyTable: DefaultKeyTable(),
		geom:     geom,
		now:      now,
	}
}

// Geometry returns the last known terminal geometry
func (m *Machine) Geometry() render.Geometry {
	return m.geom
}

// Held reports whether the primary button is down
func (m *Machine) Held() bool {
	return m.held
}

// Process parses a terminal event
// Returns false if the event carries nothing for the session
func (m *Machine) Process(ev tcell.Event) (event.GameEvent, bool) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		cols, rows := e.Size()
		m.geom = render.Geometry{Cols: cols, Rows: rows}
		return event.GameEvent{
			Type:    event.EventResize,
			Payload: &event.ResizePayload{Size: m.geom.Viewport()},
		}, true
	case *tcell.EventKey:
		et, ok := m.keyTable.Lookup(e)
		if !ok {
			return event.GameEvent{}, false
		}
		return event.GameEvent{Type: et}, true
	case *tcell.EventMouse:
		return m.processMouse(e)
	}
	return event.GameEvent{}, false
}

func (m *Machine) processMouse(ev *tcell.EventMouse) (event.GameEvent, bool) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.Button1 != 0:
		if !m.held {
			m.held = true
			m.lastCell = [2]int{x, y}
			return m.pointer(event.EventPointerDown, x, y), true
		}
		if m.lastCell == [2]int{x, y} {
			return event.GameEvent{}, false
		}
		m.lastCell = [2]int{x, y}
		return m.pointer(event.EventPointerMove, x, y), true

	case m.held:
		// Any report without the primary button ends the drag
		m.held = false
		return m.pointer(event.EventPointerUp, x, y), true

	case buttons&(tcell.Button2|tcell.Button3) != 0:
		return m.pointer(event.EventTap, x, y), true
	}
	return event.GameEvent{}, false
}

func (m *Machine) pointer(et event.EventType, x, y int) event.GameEvent {
	return event.GameEvent{
		Type: et,
		Payload: &event.PointerPayload{
			Pos: m.geom.CellToPoint(x, y),
			At:  m.now(),
		},
	}
}
