package reveal

import (
	"time"

	"github.com/lixenwraith/washaway/coverage"
	"github.com/lixenwraith/washaway/gesture"
	"github.com/lixenwraith/washaway/parameter"
)

// State is the coarse reveal phase derived from the active FSM leaf
type State uint8

const (
	StateIdle          State = iota // No marks, current image only
	StateRevealing                  // Marks present, coverage below threshold
	StateTransitioning              // Lockout active until cooldown elapses
)

// String returns human-readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRevealing:
		return "Revealing"
	case StateTransitioning:
		return "Transitioning"
	default:
		return "Unknown"
	}
}

// Navigator receives image navigation callbacks from the session
type Navigator interface {
	// OnAdvance is called once the cooldown after a reveal elapses with the new current index
	OnAdvance(nextIndex int)
	// OnBack is called after a back navigation resets the session
	OnBack()
}

// Recorder is optionally implemented by a Navigator to receive completed reveals
type Recorder interface {
	OnReveal(rec Record)
}

// Record describes one completed reveal at the moment the lockout engaged
type Record struct {
	Index    int           // Image that was washed away
	Coverage float64       // Estimate when the transition fired
	Marks    int           // Marks placed on the image
	Forced   bool          // Triggered by a large gesture, a tap on a revealed image or a key
	Elapsed  time.Duration // From the first mark to the transition
}

// Config holds session tunables
type Config struct {
	Coverage coverage.Config
	Gesture  gesture.Config

	// Threshold is compared strictly: coverage must exceed it
	Threshold  float64
	Cooldown   time.Duration
	WrapAtEnd  bool
	ImageCount int
}

// DefaultConfig returns the parameter defaults for a sequence of imageCount images
func DefaultConfig(imageCount int) Config {
	return Config{
		Coverage:   coverage.DefaultConfig(),
		Gesture:    gesture.DefaultConfig(),
		Threshold:  parameter.CoverageThreshold,
		Cooldown:   parameter.TransitionCooldown,
		WrapAtEnd:  parameter.WrapAtEnd,
		ImageCount: imageCount,
	}
}
