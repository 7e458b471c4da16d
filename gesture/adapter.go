// Package gesture converts pointer samples into tracker marks
package gesture

import (
	"time"

	"github.com/lixenwraith/washaway/parameter"
	"github.com/lixenwraith/washaway/vmath"
)

// MarkSink receives forwarded marks; AddMark reports whether the mark was accepted
// Clamp returns the position the sink would store for a sample, spacing is measured on it
type MarkSink interface {
	AddMark(pos vmath.Vec2, now time.Duration) bool
	Clamp(pos vmath.Vec2) vmath.Vec2
}

// Config holds gesture tunables
type Config struct {
	// MinSpacing is the distance a move must exceed from the last forwarded sample
	MinSpacing float64

	// LargeGestureMarks raises the large-gesture signal when a gesture forwarded at least this many marks, 0 disables
	LargeGestureMarks int
}

// DefaultConfig returns the parameter defaults
func DefaultConfig() Config {
	return Config{
		MinSpacing:        parameter.MinDragSpacing,
		LargeGestureMarks: parameter.LargeGestureMarks,
	}
}

// Adapter throttles a continuous drag into spaced marks
type Adapter struct {
	cfg  Config
	sink MarkSink

	anchor    vmath.Vec2
	hasAnchor bool
	forwarded int // Marks accepted during the current gesture
}

// NewAdapter creates an adapter forwarding into sink
func NewAdapter(cfg Config, sink MarkSink) *Adapter {
	return &Adapter{cfg: cfg, sink: sink}
}

// SetConfig swaps tunables without disturbing the current gesture
func (a *Adapter) SetConfig(cfg Config) {
	a.cfg = cfg
}

// Down starts a gesture and always forwards one mark
func (a *Adapter) Down(pos vmath.Vec2, now time.Duration) bool {
	a.forwarded = 0
	return a.forward(pos, now)
}

// Move forwards a mark only when the clamped pos is farther than MinSpacing from the anchor
// A move without a preceding down behaves like a down
func (a *Adapter) Move(pos vmath.Vec2, now time.Duration) bool {
	pos = a.sink.Clamp(pos)
	if a.hasAnchor && vmath.Distance(a.anchor, pos) <= a.cfg.MinSpacing {
		return false
	}
	return a.forward(pos, now)
}

// Up ends the gesture and clears the anchor
// Returns true when the gesture qualifies as a large gesture
func (a *Adapter) Up(_ time.Duration) bool {
	large := a.cfg.LargeGestureMarks > 0 && a.forwarded >= a.cfg.LargeGestureMarks
	a.hasAnchor = false
	a.forwarded = 0
	return large
}

// Tap forwards one isolated mark and leaves no anchor behind
func (a *Adapter) Tap(pos vmath.Vec2, now time.Duration) bool {
	ok := a.sink.AddMark(pos, now)
	a.hasAnchor = false
	return ok
}

// Active reports whether a gesture is in progress
func (a *Adapter) Active() bool {
	return a.hasAnchor
}

// Forwarded returns the marks accepted during the current gesture
func (a *Adapter) Forwarded() int {
	return a.forwarded
}

func (a *Adapter) forward(pos vmath.Vec2, now time.Duration) bool {
	a.anchor = a.sink.Clamp(pos)
	a.hasAnchor = true
	if !a.sink.AddMark(a.anchor, now) {
		return false
	}
	a.forwarded++
	return true
}
