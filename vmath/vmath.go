// Package vmath provides float64 2D geometry for view-local coordinates
package vmath

import "math"

// Clamp limits v to [lo, hi]
// NaN maps to lo, infinities map to the nearest bound
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp linearly interpolates between a and b, t is not clamped
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CircleArea returns π·r², zero for non-positive radius
func CircleArea(r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Pi * r * r
}
