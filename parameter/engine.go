package parameter

import "time"

// Tick Loop
const (
	// TickRate is the target evaluation rate in Hz
	TickRate = 60

	// TickInterval is the period between evaluation ticks (~16.67ms)
	TickInterval = time.Second / TickRate

	// MaxTickDelta caps how far session time advances in one tick after a stall
	MaxTickDelta = 250 * time.Millisecond
)

// Input Queue
const (
	// EventQueueSize is the fixed capacity of the input ring buffer
	EventQueueSize = 1024

	// EventBufferMask is the bitmask for fast modulo operations (1024 - 1)
	EventBufferMask = EventQueueSize - 1
)
