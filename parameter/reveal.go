package parameter

import "time"

// Ripple Growth
const (
	// RippleDuration is how long a growing mark expands before it is finalized
	RippleDuration = 2500 * time.Millisecond

	// RadiusFraction scales the viewport diagonal into the final mark radius
	RadiusFraction = 0.25

	// OpacityFloor is the mask opacity of a freshly created mark, ramps to 1.0 at finalize
	OpacityFloor = 0.8
)

// Coverage Estimation
const (
	// CoverageThreshold is the fraction above which a reveal completes
	// Observed 0.8 to 0.99 across screens, tunable
	CoverageThreshold = 0.95

	// OverlapDiscountFactor inflates the viewport area to compensate for circle overlap
	// Empirical 1.5 to 2.0, no derivation exists
	OverlapDiscountFactor = 1.5
)

// Gesture Sampling
const (
	// MinDragSpacing is the distance in pixels a drag must travel before another mark is placed
	MinDragSpacing = 15.0

	// LargeGestureMarks is the forwarded-mark count at which releasing a drag forces completion
	// Zero disables the override
	LargeGestureMarks = 50
)

// Transition Lockout
const (
	// TransitionCooldown is the lockout between a completed reveal and re-enabled input
	TransitionCooldown = 100 * time.Millisecond

	// WrapAtEnd selects wrap-around instead of clamping at the last image
	WrapAtEnd = false
)
