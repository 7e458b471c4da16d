package engine

import (
	"context"
	"testing"
	"time"

	"github.com/lixenwraith/washaway/event"
	"github.com/lixenwraith/washaway/status"
)

type recordingTarget struct {
	events []event.EventType
	ticks  []time.Duration
}

func (r *recordingTarget) Dispatch(ev event.GameEvent) bool {
	r.events = append(r.events, ev.Type)
	return ev.Type != event.EventMarkAdded
}

func (r *recordingTarget) Tick(now time.Duration) {
	r.ticks = append(r.ticks, now)
}

func newTestLoop(target Target, opts ...LoopOption) (*Loop, *MockTimeProvider) {
	clock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	opts = append([]LoopOption{WithClock(clock)}, opts...)
	return NewLoop(event.NewEventQueue(), target, opts...), clock
}

func TestStepAdvancesSessionTime(t *testing.T) {
	target := &recordingTarget{}
	loop, clock := newTestLoop(target)

	loop.Step()
	clock.Advance(16 * time.Millisecond)
	loop.Step()
	clock.Advance(16 * time.Millisecond)
	loop.Step()

	want := []time.Duration{0, 16 * time.Millisecond, 32 * time.Millisecond}
	for i := range want {
		if target.ticks[i] != want[i] {
			t.Errorf("Tick %d: expected %v, got %v", i, want[i], target.ticks[i])
		}
	}
	if loop.Now() != 32*time.Millisecond {
		t.Errorf("Expected Now 32ms, got %v", loop.Now())
	}
}

func TestStepCapsLargeDelta(t *testing.T) {
	target := &recordingTarget{}
	loop, clock := newTestLoop(target)

	loop.Step()
	clock.Advance(10 * time.Second)
	loop.Step()

	if loop.Now() != 250*time.Millisecond {
		t.Errorf("Expected delta capped at 250ms, got %v", loop.Now())
	}

	// Clock going backwards never rewinds session time
	clock.Advance(-time.Second)
	loop.Step()
	if loop.Now() != 250*time.Millisecond {
		t.Errorf("Session time rewound to %v", loop.Now())
	}
}

func TestStepDrainsBeforeTick(t *testing.T) {
	target := &recordingTarget{}
	var unhandled []event.EventType
	var frames int
	loop, _ := newTestLoop(target,
		WithUnhandled(func(ev event.GameEvent) { unhandled = append(unhandled, ev.Type) }),
		WithFrame(func(time.Duration) { frames++ }),
	)

	loop.Push(event.EventTap, nil)
	loop.Push(event.EventMarkAdded, nil)
	loop.Step()

	if len(target.events) != 2 || target.events[0] != event.EventTap {
		t.Errorf("Unexpected dispatch order: %v", target.events)
	}
	if len(unhandled) != 1 || unhandled[0] != event.EventMarkAdded {
		t.Errorf("Expected unconsumed event forwarded, got %v", unhandled)
	}
	if len(target.ticks) != 1 || frames != 1 {
		t.Errorf("Expected one tick and frame, got %d ticks %d frames", len(target.ticks), frames)
	}
}

func TestStepQuit(t *testing.T) {
	target := &recordingTarget{}
	loop, _ := newTestLoop(target)

	loop.Push(event.EventQuit, nil)
	loop.Push(event.EventTap, nil)
	if !loop.Step() {
		t.Fatal("Expected quit")
	}
	if len(target.ticks) != 0 || len(target.events) != 0 {
		t.Error("Nothing may run after quit")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	target := &recordingTarget{}
	reg := status.NewRegistry()
	loop := NewLoop(event.NewEventQueue(), target, WithInterval(time.Millisecond), WithLoopRegistry(reg))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil on cancel, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if reg.Ints.Get(status.KeyTicks).Load() == 0 {
		t.Error("Expected ticks recorded")
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	target := &recordingTarget{}
	loop := NewLoop(event.NewEventQueue(), target, WithInterval(time.Millisecond))
	loop.Push(event.EventQuit, nil)

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil on quit, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on quit")
	}
}

func TestGoRunsFunction(t *testing.T) {
	// Only the non-panicking path is exercised; HandleCrash exits the process
	done := make(chan struct{})
	Go(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Go did not run fn")
	}
}
