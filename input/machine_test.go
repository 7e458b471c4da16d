package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/washaway/event"
	"github.com/lixenwraith/washaway/render"
	"github.com/lixenwraith/washaway/vmath"
)

func newTestMachine() *Machine {
	now := 42 * time.Millisecond
	return NewMachine(render.Geometry{Cols: 80, Rows: 24}, func() time.Duration { return now })
}

func mouse(x, y int, b tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, b, tcell.ModNone)
}

func TestDragSequence(t *testing.T) {
	m := newTestMachine()

	steps := []struct {
		ev   *tcell.EventMouse
		want event.EventType
		ok   bool
	}{
		{mouse(1, 1, tcell.Button1), event.EventPointerDown, true},
		{mouse(1, 1, tcell.Button1), 0, false}, // Same cell repeat dropped
		{mouse(3, 1, tcell.Button1), event.EventPointerMove, true},
		{mouse(3, 1, tcell.ButtonNone), event.EventPointerUp, true},
		{mouse(5, 5, tcell.ButtonNone), 0, false}, // Hover without button
	}

	for i, s := range steps {
		got, ok := m.Process(s.ev)
		if ok != s.ok {
			t.Fatalf("Step %d: expected ok=%v, got %v", i, s.ok, ok)
		}
		if ok && got.Type != s.want {
			t.Errorf("Step %d: expected %s, got %s", i, s.want, got.Type)
		}
	}
	if m.Held() {
		t.Error("Expected button released")
	}
}

func TestPointerPayloadMapsCells(t *testing.T) {
	m := newTestMachine()
	ev, ok := m.Process(mouse(2, 3, tcell.Button1))
	if !ok {
		t.Fatal("Expected down event")
	}
	p, ok := ev.Payload.(*event.PointerPayload)
	if !ok {
		t.Fatalf("Unexpected payload %T", ev.Payload)
	}
	if p.Pos != vmath.V(20, 56) {
		t.Errorf("Expected cell (2,3) at (20,56), got %v", p.Pos)
	}
	if p.At != 42*time.Millisecond {
		t.Errorf("Expected timestamp from clock, got %v", p.At)
	}
}

func TestSecondaryButtonTaps(t *testing.T) {
	m := newTestMachine()
	ev, ok := m.Process(mouse(4, 4, tcell.Button2))
	if !ok || ev.Type != event.EventTap {
		t.Errorf("Expected tap, got %v %v", ev.Type, ok)
	}
}

func TestKeys(t *testing.T) {
	m := newTestMachine()
	cases := []struct {
		ev   *tcell.EventKey
		want event.EventType
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone), event.EventBack},
		{tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone), event.EventForceReveal},
		{tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone), event.EventCancel},
		{tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone), event.EventToggleMusic},
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), event.EventQuit},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), event.EventQuit},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), event.EventQuit},
	}
	for _, tc := range cases {
		got, ok := m.Process(tc.ev)
		if !ok || got.Type != tc.want {
			t.Errorf("%s: expected %s, got %s (%v)", tc.ev.Name(), tc.want, got.Type, ok)
		}
	}

	if _, ok := m.Process(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)); ok {
		t.Error("Unbound key must be ignored")
	}
}

func TestResizeUpdatesGeometry(t *testing.T) {
	m := newTestMachine()
	ev, ok := m.Process(tcell.NewEventResize(100, 30))
	if !ok || ev.Type != event.EventResize {
		t.Fatalf("Expected resize, got %v %v", ev.Type, ok)
	}
	p := ev.Payload.(*event.ResizePayload)
	if p.Size != vmath.Sz(800, 480) {
		t.Errorf("Unexpected viewport %v", p.Size)
	}
	if m.Geometry() != (render.Geometry{Cols: 100, Rows: 30}) {
		t.Errorf("Geometry not updated: %v", m.Geometry())
	}
}
