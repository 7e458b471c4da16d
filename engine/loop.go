// Package engine drives a reveal session on a fixed tick, serializing input through the event queue
package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/washaway/event"
	"github.com/lixenwraith/washaway/parameter"
	"github.com/lixenwraith/washaway/status"
)

// Target is the single-threaded consumer of events and ticks, implemented by reveal.Session
type Target interface {
	Dispatch(ev event.GameEvent) bool
	Tick(now time.Duration)
}

// FrameFunc is called after every tick with the session time, on the loop goroutine
type FrameFunc func(now time.Duration)

// Loop owns the tick and the session clock
// Session time advances by real elapsed time capped at MaxTickDelta per tick,
// so a suspended process resumes without a growth jump
type Loop struct {
	queue    *event.EventQueue
	target   Target
	clock    Clock
	interval time.Duration
	maxDelta time.Duration
	log      *slog.Logger

	onFrame   FrameFunc
	onUnknown func(ev event.GameEvent)

	batch   []event.GameEvent
	last    time.Time
	started bool
	elapsed atomic.Int64 // Session time in ns, read by input goroutines

	statTicks  *atomic.Int64
	statEvents *atomic.Int64
}

// LoopOption configures a Loop
type LoopOption func(*Loop)

// WithClock replaces the wall clock
func WithClock(c Clock) LoopOption {
	return func(l *Loop) { l.clock = c }
}

// WithInterval sets the tick period
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithFrame sets the per-tick frame callback
func WithFrame(fn FrameFunc) LoopOption {
	return func(l *Loop) { l.onFrame = fn }
}

// WithUnhandled receives events the target did not consume
func WithUnhandled(fn func(ev event.GameEvent)) LoopOption {
	return func(l *Loop) { l.onUnknown = fn }
}

// WithLoopLogger sets the loop logger
func WithLoopLogger(log *slog.Logger) LoopOption {
	return func(l *Loop) { l.log = log }
}

// WithLoopRegistry publishes tick and event counters into r
func WithLoopRegistry(r *status.Registry) LoopOption {
	return func(l *Loop) {
		l.statTicks = r.Ints.Get(status.KeyTicks)
		l.statEvents = r.Ints.Get(status.KeyEvents)
	}
}

// NewLoop creates a loop draining queue into target
func NewLoop(queue *event.EventQueue, target Target, opts ...LoopOption) *Loop {
	l := &Loop{
		queue:      queue,
		target:     target,
		clock:      NewTimeProvider(),
		interval:   parameter.TickInterval,
		maxDelta:   parameter.MaxTickDelta,
		statTicks:  new(atomic.Int64),
		statEvents: new(atomic.Int64),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = slog.New(slog.DiscardHandler)
	}
	return l
}

// Now returns the current session time; safe from any goroutine
func (l *Loop) Now() time.Duration {
	return time.Duration(l.elapsed.Load())
}

// Push enqueues an event for the next tick; safe from any goroutine
func (l *Loop) Push(et event.EventType, payload any) {
	l.queue.Push(event.GameEvent{Type: et, Payload: payload})
}

// Ticks returns the number of completed ticks
func (l *Loop) Ticks() int64 {
	return l.statTicks.Load()
}

// Run ticks until ctx is cancelled or an EventQuit is drained
// Returns nil on either; the ticker is stopped before returning
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.log.Debug("tick loop started", "interval", l.interval)
	defer l.log.Debug("tick loop stopped", "ticks", l.Ticks())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if l.Step() {
				return nil
			}
		}
	}
}

// Step runs one tick: advance session time, drain events, tick the target, emit the frame
// Returns true when an EventQuit was drained; remaining events of the batch are dropped
func (l *Loop) Step() (quit bool) {
	now := l.advance()

	l.batch = l.queue.Drain(l.batch[:0])
	for _, ev := range l.batch {
		l.statEvents.Add(1)
		if ev.Type == event.EventQuit {
			return true
		}
		if !l.target.Dispatch(ev) && l.onUnknown != nil {
			l.onUnknown(ev)
		}
	}

	l.target.Tick(now)
	l.statTicks.Add(1)

	if l.onFrame != nil {
		l.onFrame(now)
	}
	return false
}

func (l *Loop) advance() time.Duration {
	wall := l.clock.Now()
	if !l.started {
		l.started = true
		l.last = wall
		return l.Now()
	}

	delta := wall.Sub(l.last)
	l.last = wall
	if delta < 0 {
		delta = 0
	}
	if delta > l.maxDelta {
		l.log.Debug("tick delta capped", "delta", delta, "cap", l.maxDelta)
		delta = l.maxDelta
	}
	return time.Duration(l.elapsed.Add(int64(delta)))
}
