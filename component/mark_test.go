package component

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/washaway/vmath"
)

const testDuration = 2500 * time.Millisecond

func newTestMark() Mark {
	return Mark{
		ID:        1,
		Position:  vmath.V(500, 500),
		MaxRadius: vmath.Sz(1000, 1000).Diagonal(),
	}
}

func TestGrowthRadius(t *testing.T) {
	maxR := 1000.0
	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{-time.Second, 0},
		{0, 0},
		{testDuration / 2, 125},
		{testDuration, 250},
		{2 * testDuration, 250},
	}
	for _, tc := range tests {
		if got := GrowthRadius(tc.elapsed, testDuration, maxR, 0.25); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("GrowthRadius(%v) = %v, want %v", tc.elapsed, got, tc.want)
		}
	}
}

func TestGrowMonotonicUntilFinalized(t *testing.T) {
	m := newTestMark()

	prev := 0.0
	for ms := 0; ms <= 3000; ms += 100 {
		m.Grow(time.Duration(ms)*time.Millisecond, testDuration, 0.25)
		if m.Radius < prev {
			t.Fatalf("radius decreased at %dms: %v < %v", ms, m.Radius, prev)
		}
		prev = m.Radius
	}

	if m.Kind != MarkFinalized {
		t.Fatalf("expected finalized after full duration, got %s", m.Kind)
	}

	frozen := m.Radius
	if math.Abs(frozen-353.553) > 1e-2 {
		t.Errorf("expected frozen radius ≈353.55, got %v", frozen)
	}

	// Further grows never mutate a finalized mark
	if m.Grow(10*time.Second, testDuration, 0.25) {
		t.Error("finalized mark must not report a second transition")
	}
	if m.Radius != frozen {
		t.Errorf("finalized radius changed: %v -> %v", frozen, m.Radius)
	}
}

func TestGrowFinalizesExactlyOnce(t *testing.T) {
	m := newTestMark()
	if !m.Grow(testDuration, testDuration, 0.25) {
		t.Fatal("expected finalize at elapsed == duration")
	}
	if m.Grow(testDuration, testDuration, 0.25) {
		t.Error("second call with same now must be a no-op")
	}
}

func TestGrowIgnoresStaleNow(t *testing.T) {
	m := newTestMark()
	m.Grow(2*time.Second, testDuration, 0.25)
	r := m.Radius
	m.Grow(time.Second, testDuration, 0.25)
	if m.Radius != r {
		t.Errorf("stale now shrank radius: %v -> %v", r, m.Radius)
	}
}

func TestOpacityRamp(t *testing.T) {
	m := newTestMark()
	if got := m.Opacity(0.25, 0.8); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("fresh mark opacity = %v, want 0.8", got)
	}
	m.Grow(testDuration/2, testDuration, 0.25)
	if got := m.Opacity(0.25, 0.8); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("half-grown opacity = %v, want 0.9", got)
	}
	m.Grow(testDuration, testDuration, 0.25)
	if got := m.Opacity(0.25, 0.8); got != 1 {
		t.Errorf("finalized opacity = %v, want 1", got)
	}
}

func TestMarkKindString(t *testing.T) {
	if MarkGrowing.String() != "Growing" || MarkFinalized.String() != "Finalized" {
		t.Error("unexpected kind names")
	}
}
