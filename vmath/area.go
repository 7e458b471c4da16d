package vmath

import "math"

// Size is a viewport extent in pixels
type Size struct {
	Width, Height float64
}

// Sz constructs a Size
func Sz(w, h float64) Size {
	return Size{Width: w, Height: h}
}

// Area returns width × height, zero for degenerate sizes
func (s Size) Area() float64 {
	if s.Width <= 0 || s.Height <= 0 {
		return 0
	}
	return s.Width * s.Height
}

// Diagonal returns sqrt(w² + h²)
func (s Size) Diagonal() float64 {
	if s.Width <= 0 || s.Height <= 0 {
		return 0
	}
	return math.Hypot(s.Width, s.Height)
}

// Empty reports whether the size has no area
func (s Size) Empty() bool {
	return s.Area() == 0
}

// Contains checks if p lies within [0,w]×[0,h]
func (s Size) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= s.Width && p.Y >= 0 && p.Y <= s.Height
}

// ClampPoint clamps p into [0,w]×[0,h]
// Non-finite components are clamped the same way as Clamp
func (s Size) ClampPoint(p Vec2) Vec2 {
	w, h := s.Width, s.Height
	if w < 0 || math.IsNaN(w) {
		w = 0
	}
	if h < 0 || math.IsNaN(h) {
		h = 0
	}
	return Vec2{X: Clamp(p.X, 0, w), Y: Clamp(p.Y, 0, h)}
}

// Center returns the midpoint of the viewport
func (s Size) Center() Vec2 {
	return Vec2{X: s.Width / 2, Y: s.Height / 2}
}
