package fsm

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/washaway/event"
)

type testCtx struct {
	log   []string
	ready bool
}

func (c *testCtx) record(args map[string]any) {
	if s, ok := args["tag"].(string); ok {
		c.log = append(c.log, s)
	}
}

const testGraph = `
initial = "Idle"

[states.Active]
on_enter = [{ action = "Record", args = { tag = "enter:Active" } }]
on_exit = [{ action = "Record", args = { tag = "exit:Active" } }]
transitions = [
	{ trigger = "EventCancel", target = "Idle" },
]

[states.Idle]
on_enter = [{ action = "Record", args = { tag = "enter:Idle" } }]
on_exit = [{ action = "Record", args = { tag = "exit:Idle" } }]
transitions = [
	{ trigger = "EventMarkAdded", target = "Working" },
]

[states.Working]
parent = "Active"
on_enter = [{ action = "Record", args = { tag = "enter:Working" } }]
on_exit = [{ action = "Record", args = { tag = "exit:Working" } }]
transitions = [
	{ trigger = "Tick", target = "Cooling", guard = "Ready" },
]

[states.Cooling]
parent = "Active"
on_enter = [{ action = "Record", args = { tag = "enter:Cooling" } }]
transitions = [
	{ trigger = "Tick", target = "Idle", guard = "StateTimeExceeds", guard_args = { ms = 100 } },
]
`

func newTestMachine(t *testing.T) (*Machine[*testCtx], *testCtx) {
	t.Helper()
	m := NewMachine[*testCtx]()
	m.RegisterAction("Record", func(c *testCtx, args map[string]any) { c.record(args) })
	m.RegisterGuard("Ready", func(c *testCtx, _ *Machine[*testCtx]) bool { return c.ready })
	if err := m.LoadConfig([]byte(testGraph)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	ctx := &testCtx{}
	if err := m.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return m, ctx
}

func equalLog(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestMachineInit(t *testing.T) {
	m, ctx := newTestMachine(t)

	if m.StateName() != "Idle" {
		t.Errorf("Expected initial state Idle, got %s", m.StateName())
	}
	if !equalLog(ctx.log, []string{"enter:Idle"}) {
		t.Errorf("Unexpected init log: %v", ctx.log)
	}
	t.Logf("✓ Init entered Idle")
}

func TestMachineEventTransitionUsesLCA(t *testing.T) {
	m, ctx := newTestMachine(t)
	ctx.log = nil

	if !m.HandleEvent(ctx, event.EventMarkAdded) {
		t.Fatal("Expected EventMarkAdded to transition")
	}
	if !equalLog(ctx.log, []string{"exit:Idle", "enter:Active", "enter:Working"}) {
		t.Errorf("Unexpected enter log: %v", ctx.log)
	}

	// Sibling transition under the same parent does not re-enter Active
	ctx.log = nil
	ctx.ready = true
	m.Update(ctx, time.Millisecond)
	if m.StateName() != "Cooling" {
		t.Fatalf("Expected Cooling, got %s", m.StateName())
	}
	if !equalLog(ctx.log, []string{"exit:Working", "enter:Cooling"}) {
		t.Errorf("Unexpected sibling log: %v", ctx.log)
	}
	if !m.IsIn("Active") {
		t.Error("Expected Active to remain on the active path")
	}
}

func TestMachineEventBubblesToParent(t *testing.T) {
	m, ctx := newTestMachine(t)
	m.HandleEvent(ctx, event.EventMarkAdded)
	ctx.log = nil

	if !m.HandleEvent(ctx, event.EventCancel) {
		t.Fatal("Expected EventCancel handled by parent Active")
	}
	if m.StateName() != "Idle" {
		t.Errorf("Expected Idle after cancel, got %s", m.StateName())
	}
	if !equalLog(ctx.log, []string{"exit:Working", "exit:Active", "enter:Idle"}) {
		t.Errorf("Unexpected exit log: %v", ctx.log)
	}
}

func TestMachineUnhandledEvent(t *testing.T) {
	m, ctx := newTestMachine(t)

	if m.HandleEvent(ctx, event.EventCancel) {
		t.Error("EventCancel should not be handled in Idle")
	}
	if m.HandleEvent(ctx, event.EventTick) {
		t.Error("EventTick must only fire through Update")
	}
	if m.StateName() != "Idle" {
		t.Errorf("State changed unexpectedly to %s", m.StateName())
	}
}

func TestMachineStateTimeGuard(t *testing.T) {
	m, ctx := newTestMachine(t)
	ctx.ready = true
	m.HandleEvent(ctx, event.EventMarkAdded)
	m.Update(ctx, time.Millisecond) // Working -> Cooling

	if m.TimeInState() != 0 {
		t.Errorf("Expected time reset on entry, got %v", m.TimeInState())
	}

	m.Update(ctx, 60*time.Millisecond)
	if m.StateName() != "Cooling" {
		t.Errorf("Left Cooling early at %v", m.TimeInState())
	}

	m.Update(ctx, 40*time.Millisecond)
	if m.StateName() != "Idle" {
		t.Errorf("Expected Idle once 100ms elapsed, got %s", m.StateName())
	}
	t.Logf("✓ StateTimeExceeds held for 100ms")
}

func TestMachineTransitionObserver(t *testing.T) {
	m, ctx := newTestMachine(t)

	var seen [][2]StateID
	m.OnTransition(func(from, to StateID) {
		seen = append(seen, [2]StateID{from, to})
	})
	m.HandleEvent(ctx, event.EventMarkAdded)

	idle, _ := m.GetStateID("Idle")
	working, _ := m.GetStateID("Working")
	if len(seen) != 1 || seen[0] != [2]StateID{idle, working} {
		t.Errorf("Unexpected observer calls: %v", seen)
	}
}

func TestMachineReset(t *testing.T) {
	m, ctx := newTestMachine(t)
	m.HandleEvent(ctx, event.EventMarkAdded)
	ctx.log = nil

	if err := m.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if m.StateName() != "Idle" {
		t.Errorf("Expected Idle after reset, got %s", m.StateName())
	}
	if !equalLog(ctx.log, []string{"exit:Working", "exit:Active", "enter:Idle"}) {
		t.Errorf("Unexpected reset log: %v", ctx.log)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name  string
		graph string
	}{
		{"unknown target", `initial = "A"
[states.A]
transitions = [{ trigger = "EventBack", target = "Nowhere" }]`},
		{"unknown trigger", `initial = "A"
[states.A]
transitions = [{ trigger = "EventBogus", target = "A" }]`},
		{"unknown action", `initial = "A"
[states.A]
on_enter = [{ action = "Missing" }]`},
		{"unknown guard", `initial = "A"
[states.A]
transitions = [{ trigger = "Tick", target = "A", guard = "Missing" }]`},
		{"bad guard args", `initial = "A"
[states.A]
transitions = [{ trigger = "Tick", target = "A", guard = "StateTimeExceeds", guard_args = { ms = "soon" } }]`},
		{"unknown parent", `initial = "A"
[states.A]
parent = "Ghost"`},
		{"unknown initial", `initial = "Ghost"
[states.A]`},
		{"malformed", `initial = `},
	}

	for _, tc := range cases {
		m := NewMachine[*testCtx]()
		if err := m.LoadConfig([]byte(tc.graph)); err == nil {
			t.Errorf("%s: expected error", tc.name)
		} else {
			t.Logf("✓ %s: %v", tc.name, err)
		}
	}
}

func TestInitWithoutGraph(t *testing.T) {
	m := NewMachine[*testCtx]()
	if err := m.Init(&testCtx{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded, got %v", err)
	}
}

func TestLoadConfigParentCycle(t *testing.T) {
	m := NewMachine[*testCtx]()
	err := m.LoadConfig([]byte(`initial = "A"
[states.A]
parent = "B"
[states.B]
parent = "A"`))
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if err := m.Init(&testCtx{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("machine must stay unloaded after a failed load, got %v", err)
	}
}

func TestLoadConfigStableIDs(t *testing.T) {
	a, _ := newTestMachine(t)
	b, _ := newTestMachine(t)
	for _, name := range []string{"Active", "Cooling", "Idle", "Working"} {
		ia, _ := a.GetStateID(name)
		ib, _ := b.GetStateID(name)
		if ia != ib || ia <= StateRoot {
			t.Errorf("%s: ids %d and %d", name, ia, ib)
		}
	}
}
