package event

import (
	"sync"
	"testing"

	"github.com/lixenwraith/washaway/parameter"
	"github.com/lixenwraith/washaway/vmath"
)

func TestQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	q.Push(GameEvent{Type: EventPointerDown, Payload: &PointerPayload{Pos: vmath.V(1, 1)}})
	q.Push(GameEvent{Type: EventPointerMove})
	q.Push(GameEvent{Type: EventPointerUp})

	if q.Len() != 3 {
		t.Fatalf("expected 3 pending, got %d", q.Len())
	}

	got := q.Consume()
	want := []EventType{EventPointerDown, EventPointerMove, EventPointerUp}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i, ev := range got {
		if ev.Type != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], ev.Type)
		}
	}

	if q.Consume() != nil {
		t.Error("second consume must be empty")
	}
}

func TestQueueOverflowKeepsNewest(t *testing.T) {
	q := NewEventQueue()
	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(GameEvent{Type: EventPointerMove, Payload: i})
	}

	got := q.Consume()
	if len(got) != parameter.EventQueueSize {
		t.Fatalf("expected %d events after overflow, got %d", parameter.EventQueueSize, len(got))
	}
	if first := got[0].Payload.(int); first != 10 {
		t.Errorf("expected oldest surviving payload 10, got %d", first)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewEventQueue()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(GameEvent{Type: EventTap})
			}
		}()
	}
	wg.Wait()

	if n := len(q.Consume()); n != 400 {
		t.Errorf("expected 400 events, got %d", n)
	}
}

func TestEventNames(t *testing.T) {
	if et, ok := GetEventType("tick"); !ok || et != EventTick {
		t.Error("Tick must resolve case-insensitively to EventTick")
	}
	if et, ok := GetEventType("EventForceReveal"); !ok || et != EventForceReveal {
		t.Error("EventForceReveal not registered")
	}
	if _, ok := GetEventType("EventNope"); ok {
		t.Error("unknown name must not resolve")
	}
	if EventMarkAdded.String() != "EventMarkAdded" {
		t.Errorf("unexpected name %q", EventMarkAdded.String())
	}
}

func TestQueueDrainAppends(t *testing.T) {
	q := NewEventQueue()
	buf := make([]GameEvent, 0, 8)
	q.Push(GameEvent{Type: EventTap})
	q.Push(GameEvent{Type: EventBack})

	buf = q.Drain(buf[:0])
	if len(buf) != 2 || buf[1].Type != EventBack {
		t.Fatalf("unexpected batch %v", buf)
	}
	if q.Len() != 0 {
		t.Errorf("expected drained queue, got %d pending", q.Len())
	}

	q.Push(GameEvent{Type: EventCancel})
	buf = q.Drain(buf[:0])
	if len(buf) != 1 || buf[0].Type != EventCancel {
		t.Fatalf("reused buffer kept stale events: %v", buf)
	}
}
