package gesture

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/washaway/vmath"
)

type recordingSink struct {
	marks  []vmath.Vec2
	reject bool
}

func (s *recordingSink) AddMark(pos vmath.Vec2, _ time.Duration) bool {
	if s.reject {
		return false
	}
	s.marks = append(s.marks, pos)
	return true
}

var testViewport = vmath.Sz(1000, 1000)

func (s *recordingSink) Clamp(pos vmath.Vec2) vmath.Vec2 {
	return testViewport.ClampPoint(pos)
}

func newTestAdapter() (*Adapter, *recordingSink) {
	sink := &recordingSink{}
	return NewAdapter(Config{MinSpacing: 15, LargeGestureMarks: 3}, sink), sink
}

func TestMoveBelowSpacingIsDropped(t *testing.T) {
	a, sink := newTestAdapter()

	a.Move(vmath.V(100, 100), 0)
	a.Move(vmath.V(105, 100), time.Millisecond)

	if len(sink.marks) != 1 {
		t.Fatalf("Expected 1 forwarded mark, got %d", len(sink.marks))
	}
	if sink.marks[0] != vmath.V(100, 100) {
		t.Errorf("Expected first sample forwarded, got %v", sink.marks[0])
	}
	t.Logf("✓ Second move 5px away dropped")
}

func TestMoveSpacingAccumulatesFromAnchor(t *testing.T) {
	a, sink := newTestAdapter()

	a.Down(vmath.V(0, 0), 0)
	for x := 5.0; x <= 40; x += 5 {
		a.Move(vmath.V(x, 0), 0)
	}

	// Anchors at 0, 20, 40: each forward needs strictly more than 15 from the last
	want := []vmath.Vec2{vmath.V(0, 0), vmath.V(20, 0), vmath.V(40, 0)}
	if len(sink.marks) != len(want) {
		t.Fatalf("Expected %d marks, got %v", len(want), sink.marks)
	}
	for i := range want {
		if sink.marks[i] != want[i] {
			t.Errorf("Mark %d: expected %v, got %v", i, want[i], sink.marks[i])
		}
	}
}

func TestExactSpacingIsDropped(t *testing.T) {
	a, sink := newTestAdapter()
	a.Down(vmath.V(0, 0), 0)
	a.Move(vmath.V(15, 0), 0)
	if len(sink.marks) != 1 {
		t.Errorf("Move at exactly MinSpacing must not forward, got %d marks", len(sink.marks))
	}
}

func TestDownAndTapAlwaysForward(t *testing.T) {
	a, sink := newTestAdapter()

	a.Down(vmath.V(10, 10), 0)
	a.Up(0)
	a.Down(vmath.V(11, 10), 0)
	a.Up(0)
	a.Tap(vmath.V(12, 10), 0)
	a.Tap(vmath.V(12, 10), 0)

	if len(sink.marks) != 4 {
		t.Errorf("Expected every down/tap forwarded, got %d", len(sink.marks))
	}
}

func TestUpClearsAnchor(t *testing.T) {
	a, sink := newTestAdapter()

	a.Down(vmath.V(50, 50), 0)
	a.Up(0)
	if a.Active() {
		t.Error("Expected no active gesture after up")
	}

	// A fresh gesture starts its own spacing count
	a.Move(vmath.V(52, 50), 0)
	if len(sink.marks) != 2 {
		t.Errorf("Expected move after up to forward, got %d marks", len(sink.marks))
	}
}

func TestLargeGesture(t *testing.T) {
	a, _ := newTestAdapter()

	a.Down(vmath.V(0, 0), 0)
	a.Move(vmath.V(20, 0), 0)
	if a.Up(0) {
		t.Error("Two marks must not qualify as a large gesture")
	}

	a.Down(vmath.V(0, 0), 0)
	a.Move(vmath.V(20, 0), 0)
	a.Move(vmath.V(40, 0), 0)
	if !a.Up(0) {
		t.Error("Three marks should qualify as a large gesture")
	}
	if a.Forwarded() != 0 {
		t.Errorf("Expected counter reset after up, got %d", a.Forwarded())
	}
}

func TestLargeGestureDisabled(t *testing.T) {
	sink := &recordingSink{}
	a := NewAdapter(Config{MinSpacing: 1, LargeGestureMarks: 0}, sink)
	a.Down(vmath.V(0, 0), 0)
	for i := 1; i < 100; i++ {
		a.Move(vmath.V(float64(i*2), 0), 0)
	}
	if a.Up(0) {
		t.Error("LargeGestureMarks 0 must disable the signal")
	}
}

func TestRejectedMarksNotCounted(t *testing.T) {
	a, sink := newTestAdapter()
	sink.reject = true

	a.Down(vmath.V(0, 0), 0)
	a.Move(vmath.V(20, 0), 0)
	a.Move(vmath.V(40, 0), 0)
	if a.Forwarded() != 0 {
		t.Errorf("Rejected marks counted: %d", a.Forwarded())
	}
	if a.Up(0) {
		t.Error("Rejected gesture must not be large")
	}
}

func TestNonFiniteDragIsSpaced(t *testing.T) {
	a, sink := newTestAdapter()

	a.Down(vmath.V(math.NaN(), math.NaN()), 0)
	for i := 0; i < 20; i++ {
		a.Move(vmath.V(math.NaN(), math.NaN()), time.Duration(i)*time.Millisecond)
	}
	if !a.Active() {
		t.Error("Clamped NaN sample must anchor the gesture")
	}
	if len(sink.marks) != 1 {
		t.Fatalf("Expected 1 mark for a NaN drag, got %d", len(sink.marks))
	}
	if sink.marks[0] != vmath.V(0, 0) {
		t.Errorf("Expected NaN clamped to origin, got %v", sink.marks[0])
	}

	a.Move(vmath.V(1, 1), 0)
	if len(sink.marks) != 1 {
		t.Errorf("Move within spacing of the clamped anchor forwarded: %d marks", len(sink.marks))
	}
}

func TestOffViewportDragIsSpaced(t *testing.T) {
	a, sink := newTestAdapter()

	a.Down(vmath.V(-10, 500), 0)
	for i := 1; i <= 10; i++ {
		a.Move(vmath.V(-10-float64(i)*20, 500), time.Duration(i)*time.Millisecond)
	}
	if len(sink.marks) != 1 {
		t.Fatalf("Expected 1 mark on the clamped edge, got %d", len(sink.marks))
	}
	if sink.marks[0] != vmath.V(0, 500) {
		t.Errorf("Expected mark at the left edge, got %v", sink.marks[0])
	}

	// Sliding along the edge past the spacing forwards again
	a.Move(vmath.V(-200, 520), 20*time.Millisecond)
	if len(sink.marks) != 2 || sink.marks[1] != vmath.V(0, 520) {
		t.Errorf("Expected second mark at {0 520}, got %v", sink.marks)
	}
}
