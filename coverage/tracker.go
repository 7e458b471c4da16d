// Package coverage tracks reveal marks, grows them over time and estimates how much
// of the viewport they uncover.
//
// The estimate is a heuristic: the summed circle area Σπr² divided by the viewport area
// inflated by an overlap discount factor, clamped to 1. It ignores real overlap and edge
// clipping, so it over-counts when marks cluster or sit near edges and under-counts
// when a few large marks are spread evenly. The discount factor is tunable, there is
// no derived correct value.
package coverage

import (
	"iter"
	"time"

	"github.com/lixenwraith/washaway/component"
	"github.com/lixenwraith/washaway/parameter"
	"github.com/lixenwraith/washaway/vmath"
)

// Config holds the growth and estimation tunables of a Tracker
type Config struct {
	RippleDuration  time.Duration
	RadiusFraction  float64
	OverlapDiscount float64
	OpacityFloor    float64

	// ProjectGrowth counts every mark at its final radius instead of its current one
	ProjectGrowth bool
}

// DefaultConfig returns the parameter defaults
func DefaultConfig() Config {
	return Config{
		RippleDuration:  parameter.RippleDuration,
		RadiusFraction:  parameter.RadiusFraction,
		OverlapDiscount: parameter.OverlapDiscountFactor,
		OpacityFloor:    parameter.OpacityFloor,
	}
}

// DrawCommand is one mask circle for the renderer
type DrawCommand struct {
	ID      component.MarkID
	Center  vmath.Vec2
	Radius  float64
	Opacity float64

	// Progress is the growth fraction in [0,1], 1 once finalized
	Progress float64
}

// Tracker owns the mark collection of one reveal session
// Not safe for concurrent use: callers serialize access through the tick loop
type Tracker struct {
	cfg      Config
	viewport vmath.Size
	marks    []component.Mark
	nextID   component.MarkID
	locked   bool

	// coverage is recomputed from marks + viewport on every change, never accumulated
	coverage float64
}

// NewTracker creates a tracker for the given viewport
func NewTracker(cfg Config, viewport vmath.Size) *Tracker {
	return &Tracker{
		cfg:      cfg,
		viewport: viewport,
		marks:    make([]component.Mark, 0, 64),
		nextID:   1,
	}
}

// Config returns the active tunables
func (t *Tracker) Config() Config {
	return t.cfg
}

// SetConfig swaps tunables; existing marks keep their captured max radius
func (t *Tracker) SetConfig(cfg Config) {
	t.cfg = cfg
	t.refresh()
}

// Resize caches a new viewport; marks keep the max radius captured at creation
func (t *Tracker) Resize(size vmath.Size) {
	t.viewport = size
	t.refresh()
}

// Viewport returns the cached viewport size
func (t *Tracker) Viewport() vmath.Size {
	return t.viewport
}

// TotalViewportArea returns width × height of the cached viewport
func (t *Tracker) TotalViewportArea() float64 {
	return t.viewport.Area()
}

// SetLocked toggles the transition lockout; a locked tracker rejects new marks
func (t *Tracker) SetLocked(locked bool) {
	t.locked = locked
}

// Locked reports whether the lockout is active
func (t *Tracker) Locked() bool {
	return t.locked
}

// AddMark appends a growing mark at pos timestamped now
// Off-viewport or non-finite positions are clamped, never rejected
// Returns false only when the lockout is active
func (t *Tracker) AddMark(pos vmath.Vec2, now time.Duration) bool {
	if t.locked {
		return false
	}

	m := component.Mark{
		ID:        t.nextID,
		Position:  t.viewport.ClampPoint(pos),
		CreatedAt: now,
		Kind:      component.MarkGrowing,
		MaxRadius: t.viewport.Diagonal(),
	}
	t.nextID++

	// A zero duration finalizes immediately
	m.Grow(now, t.cfg.RippleDuration, t.cfg.RadiusFraction)

	t.marks = append(t.marks, m)
	t.refresh()
	return true
}

// Advance grows every growing mark to now and finalizes those whose duration elapsed
// Idempotent for a repeated now; returns the number of marks finalized by this call
func (t *Tracker) Advance(now time.Duration) int {
	finalized := 0
	changed := false
	for i := range t.marks {
		m := &t.marks[i]
		if m.Kind == component.MarkFinalized {
			continue
		}
		before := m.Radius
		if m.Grow(now, t.cfg.RippleDuration, t.cfg.RadiusFraction) {
			finalized++
		}
		if m.Radius != before || m.Kind == component.MarkFinalized {
			changed = true
		}
	}
	if changed {
		t.refresh()
	}
	return finalized
}

// EstimateCoverage returns Σπr² / (area · discount) clamped to [0,1] for the given viewport
func (t *Tracker) EstimateCoverage(viewport vmath.Size) float64 {
	area := viewport.Area()
	if area == 0 || len(t.marks) == 0 {
		return 0
	}

	discount := t.cfg.OverlapDiscount
	if discount <= 0 {
		discount = 1
	}

	covered := 0.0
	for i := range t.marks {
		m := &t.marks[i]
		r := m.Radius
		if t.cfg.ProjectGrowth {
			r = m.FinalRadius(t.cfg.RadiusFraction)
		}
		covered += vmath.CircleArea(r)
	}

	return vmath.Clamp01(covered / (area * discount))
}

// Coverage returns the estimate for the cached viewport
func (t *Tracker) Coverage() float64 {
	return t.coverage
}

// Reset clears all marks and the derived coverage
func (t *Tracker) Reset() {
	t.marks = t.marks[:0]
	t.coverage = 0
}

// Len returns the number of marks
func (t *Tracker) Len() int {
	return len(t.marks)
}

// Growing returns the number of marks still expanding
func (t *Tracker) Growing() int {
	n := 0
	for i := range t.marks {
		if t.marks[i].Kind == component.MarkGrowing {
			n++
		}
	}
	return n
}

// Marks returns a copy of the marks in creation order
func (t *Tracker) Marks() []component.Mark {
	out := make([]component.Mark, len(t.marks))
	copy(out, t.marks)
	return out
}

// Commands yields one draw command per mark in creation order
// The sequence is lazy and restartable: each range reads the marks at that moment
func (t *Tracker) Commands() iter.Seq[DrawCommand] {
	return func(yield func(DrawCommand) bool) {
		for i := range t.marks {
			m := &t.marks[i]
			cmd := DrawCommand{
				ID:       m.ID,
				Center:   m.Position,
				Radius:   m.Radius,
				Opacity:  m.Opacity(t.cfg.RadiusFraction, t.cfg.OpacityFloor),
				Progress: m.Progress(t.cfg.RadiusFraction),
			}
			if !yield(cmd) {
				return
			}
		}
	}
}

func (t *Tracker) refresh() {
	t.coverage = t.EstimateCoverage(t.viewport)
}
