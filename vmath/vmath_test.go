package vmath

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"inside", 5, 5},
		{"below", -3, 0},
		{"above", 12, 10},
		{"nan", math.NaN(), 0},
		{"posinf", math.Inf(1), 10},
		{"neginf", math.Inf(-1), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamp(tc.v, 0, 10); got != tc.want {
				t.Errorf("Clamp(%v) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestSizeClampPoint(t *testing.T) {
	s := Sz(1000, 1000)

	if got := s.ClampPoint(V(-50, -50)); got != V(0, 0) {
		t.Errorf("expected (0,0), got %v", got)
	}
	if got := s.ClampPoint(V(1200, 400)); got != V(1000, 400) {
		t.Errorf("expected (1000,400), got %v", got)
	}
	if got := s.ClampPoint(V(math.NaN(), math.Inf(1))); got != V(0, 1000) {
		t.Errorf("expected (0,1000), got %v", got)
	}
}

func TestSizeDiagonal(t *testing.T) {
	d := Sz(1000, 1000).Diagonal()
	if math.Abs(d-1414.2135) > 1e-3 {
		t.Errorf("diagonal = %v", d)
	}
	if Sz(0, 100).Diagonal() != 0 {
		t.Error("degenerate size must have zero diagonal")
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(V(0, 0), V(3, 4)); d != 5 {
		t.Errorf("expected 5, got %v", d)
	}
}

func TestCircleArea(t *testing.T) {
	if CircleArea(-1) != 0 {
		t.Error("negative radius must yield zero area")
	}
	if math.Abs(CircleArea(2)-4*math.Pi) > 1e-12 {
		t.Error("area of r=2 mismatch")
	}
}
