package event

import (
	"time"

	"github.com/lixenwraith/washaway/vmath"
)

// EventType represents the type of session event
// Zero is reserved for the FSM tick trigger
type EventType int

const (
	// EventTick is the automatic per-tick transition trigger, never queued
	EventTick EventType = iota

	// === Input Event ===

	// EventPointerDown starts a gesture
	// Trigger: input translation | Payload: *PointerPayload
	EventPointerDown

	// EventPointerMove continues a gesture
	// Trigger: input translation | Payload: *PointerPayload
	EventPointerMove

	// EventPointerUp ends a gesture
	// Trigger: input translation | Payload: *PointerPayload (position ignored)
	EventPointerUp

	// EventTap places a single mark
	// Trigger: input translation | Payload: *PointerPayload
	EventTap

	// EventResize reports a new viewport
	// Trigger: terminal resize | Payload: *ResizePayload
	EventResize

	// === Navigation Event ===

	// EventBack returns to the previous image or the song selection
	// Trigger: 'b' key | Payload: nil
	EventBack

	// EventForceReveal completes the reveal regardless of coverage
	// Trigger: large gesture, tap when revealed, 'n' key | Payload: nil
	EventForceReveal

	// EventCancel drops all marks without advancing
	// Trigger: 'c' key | Payload: nil
	EventCancel

	// EventToggleMusic pauses or resumes background music
	// Trigger: 'm' key | Payload: nil
	EventToggleMusic

	// EventQuit ends the session loop
	// Trigger: 'q', Esc, Ctrl-C | Payload: nil
	EventQuit

	// === Machine Event ===

	// EventMarkAdded signals that the tracker accepted a mark
	// Trigger: Session mark sink | Consumer: FSM
	EventMarkAdded
)

// GameEvent is a single queued event
type GameEvent struct {
	Type    EventType
	Payload any
}

// PointerPayload carries a normalized pointer sample
type PointerPayload struct {
	Pos vmath.Vec2
	At  time.Duration // Monotonic session offset
}

// ResizePayload carries a new viewport size
type ResizePayload struct {
	Size vmath.Size
}
