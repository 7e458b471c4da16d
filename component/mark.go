package component

import (
	"time"

	"github.com/lixenwraith/washaway/vmath"
)

// MarkID uniquely identifies a mark within a tracker, assigned in creation order
type MarkID uint64

// MarkKind is the growth lifecycle stage of a mark
type MarkKind uint8

const (
	MarkGrowing   MarkKind = iota // Radius expands with elapsed time
	MarkFinalized                 // Radius frozen, never mutates again
)

// String returns human-readable kind name
func (k MarkKind) String() string {
	switch k {
	case MarkGrowing:
		return "Growing"
	case MarkFinalized:
		return "Finalized"
	default:
		return "Unknown"
	}
}

// Mark is a single reveal tap or drag sample growing into a circle
// MaxRadius is captured from the viewport at creation and never re-derived
type Mark struct {
	ID        MarkID
	Position  vmath.Vec2
	CreatedAt time.Duration // Monotonic session offset
	Kind      MarkKind
	MaxRadius float64 // Viewport diagonal at creation
	Radius    float64 // Current radius, frozen once finalized
}

// GrowthRadius implements the growth law min(elapsed/duration, 1) * maxRadius * fraction
// Elapsed before creation yields zero; non-positive duration yields the final radius
func GrowthRadius(elapsed, duration time.Duration, maxRadius, fraction float64) float64 {
	return growthProgress(elapsed, duration) * maxRadius * fraction
}

func growthProgress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(duration)
	if p > 1 {
		return 1
	}
	return p
}

// FinalRadius returns the radius this mark freezes at
func (m *Mark) FinalRadius(fraction float64) float64 {
	return m.MaxRadius * fraction
}

// Grow advances a growing mark to now, finalizing it once elapsed >= duration
// Returns true only on the call that performs the growing -> finalized transition
// Finalized marks are left untouched
func (m *Mark) Grow(now, duration time.Duration, fraction float64) bool {
	if m.Kind == MarkFinalized {
		return false
	}

	elapsed := now - m.CreatedAt
	if elapsed >= duration {
		m.Radius = m.FinalRadius(fraction)
		m.Kind = MarkFinalized
		return true
	}

	r := GrowthRadius(elapsed, duration, m.MaxRadius, fraction)
	// Time never runs backwards for a mark; a stale now cannot shrink it
	if r > m.Radius {
		m.Radius = r
	}
	return false
}

// Progress returns the growth fraction in [0,1] derived from the current radius
func (m *Mark) Progress(fraction float64) float64 {
	if m.Kind == MarkFinalized {
		return 1
	}
	final := m.FinalRadius(fraction)
	if final <= 0 {
		return 1
	}
	return vmath.Clamp01(m.Radius / final)
}

// Opacity ramps from floor to 1.0 as the mark grows, finalized marks are opaque
func (m *Mark) Opacity(fraction, floor float64) float64 {
	return vmath.Lerp(vmath.Clamp01(floor), 1, m.Progress(fraction))
}
