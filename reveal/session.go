// Package reveal runs one wash-away session: gestures become marks, ticks grow them,
// and an FSM advances the image once the coverage estimate crosses the threshold.
package reveal

import (
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/lixenwraith/washaway/asset"
	"github.com/lixenwraith/washaway/coverage"
	"github.com/lixenwraith/washaway/engine/fsm"
	"github.com/lixenwraith/washaway/event"
	"github.com/lixenwraith/washaway/gesture"
	"github.com/lixenwraith/washaway/status"
	"github.com/lixenwraith/washaway/vmath"
)

// Session owns the tracker, the gesture adapter and the reveal machine of one image sequence
// Not safe for concurrent use: every call must come from the tick loop goroutine
type Session struct {
	cfg     Config
	log     *slog.Logger
	nav     Navigator
	metrics *status.SessionMetrics

	tracker *coverage.Tracker
	gesture *gesture.Adapter
	machine *fsm.Machine[*Session]

	// Resolved leaf IDs of the loaded graph
	idleID, revealingID, transitioningID fsm.StateID

	index       int
	finished    bool
	now         time.Duration // Last tick
	revealStart time.Duration // First mark on the current image
	forcing     bool          // Set while a force trigger is being handled
}

// Option configures a Session at construction
type Option func(*sessionOptions)

type sessionOptions struct {
	log        *slog.Logger
	registry   *status.Registry
	graph      string
	startIndex int
}

// WithLogger sets the session logger
func WithLogger(log *slog.Logger) Option {
	return func(o *sessionOptions) { o.log = log }
}

// WithRegistry publishes session metrics into r
func WithRegistry(r *status.Registry) Option {
	return func(o *sessionOptions) { o.registry = r }
}

// WithGraph replaces the default reveal FSM graph
// The graph must define Idle, Revealing and Transitioning leaves
func WithGraph(toml string) Option {
	return func(o *sessionOptions) { o.graph = toml }
}

// WithStartIndex resumes the sequence at index, clamped to the image count
func WithStartIndex(index int) Option {
	return func(o *sessionOptions) { o.startIndex = index }
}

// NewSession builds a session over viewport; nav may be nil
func NewSession(cfg Config, viewport vmath.Size, nav Navigator, opts ...Option) (*Session, error) {
	o := sessionOptions{graph: asset.DefaultRevealFSMConfig}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.DiscardHandler)
	}
	if cfg.ImageCount < 1 {
		cfg.ImageCount = 1
	}

	s := &Session{
		cfg:     cfg,
		log:     o.log,
		nav:     nav,
		metrics: o.registry.Session(),
		tracker: coverage.NewTracker(cfg.Coverage, viewport),
		index:   max(0, min(o.startIndex, cfg.ImageCount-1)),
	}
	s.gesture = gesture.NewAdapter(cfg.Gesture, s)

	s.machine = fsm.NewMachine[*Session]()
	RegisterFSMComponents(s.machine)
	if err := s.machine.LoadConfig([]byte(o.graph)); err != nil {
		return nil, fmt.Errorf("load reveal graph: %w", err)
	}

	for name, dst := range map[string]*fsm.StateID{
		"Idle":          &s.idleID,
		"Revealing":     &s.revealingID,
		"Transitioning": &s.transitioningID,
	} {
		id, ok := s.machine.GetStateID(name)
		if !ok {
			return nil, fmt.Errorf("reveal graph state %q: %w", name, fsm.ErrUnknownState)
		}
		*dst = id
	}

	s.machine.OnTransition(func(from, to fsm.StateID) {
		s.metrics.State.Store(s.State().String())
		s.log.Debug("reveal state changed", "from", s.stateOf(from), "to", s.stateOf(to), "index", s.index)
	})

	if err := s.machine.Init(s); err != nil {
		return nil, fmt.Errorf("init reveal machine: %w", err)
	}
	s.metrics.State.Store(s.State().String())
	s.publish()
	return s, nil
}

// AddMark places a mark through the lockout; accepted marks move Idle to Revealing
func (s *Session) AddMark(pos vmath.Vec2, now time.Duration) bool {
	if !s.tracker.AddMark(pos, now) {
		s.metrics.Dropped.Add(1)
		return false
	}
	if s.machine.StateID() == s.idleID {
		s.revealStart = now
	}
	s.machine.HandleEvent(s, event.EventMarkAdded)
	s.publish()
	return true
}

// Clamp maps a sample onto the viewport the way the tracker stores it
func (s *Session) Clamp(pos vmath.Vec2) vmath.Vec2 {
	return s.tracker.Viewport().ClampPoint(pos)
}

// Down starts a drag gesture
func (s *Session) Down(pos vmath.Vec2, now time.Duration) {
	s.gesture.Down(pos, now)
}

// Move continues a drag gesture, forwarding spaced samples
func (s *Session) Move(pos vmath.Vec2, now time.Duration) {
	s.gesture.Move(pos, now)
}

// Up ends a drag gesture; a large gesture forces the reveal
func (s *Session) Up(now time.Duration) {
	if s.gesture.Up(now) {
		s.log.Debug("large gesture completed reveal", "index", s.index)
		s.ForceReveal()
	}
}

// Tap places a single mark, or forces the reveal when the image already reads as revealed
func (s *Session) Tap(pos vmath.Vec2, now time.Duration) {
	if s.machine.StateID() == s.revealingID && s.tracker.Coverage() >= s.cfg.Threshold {
		s.ForceReveal()
		return
	}
	s.gesture.Tap(pos, now)
}

// Tick grows marks to now and lets the machine evaluate coverage and cooldown
func (s *Session) Tick(now time.Duration) {
	dt := now - s.now
	if dt < 0 {
		dt = 0
	}
	s.now = now

	s.tracker.Advance(now)
	s.machine.Update(s, dt)
	s.publish()
}

// ForceReveal moves Revealing to Transitioning regardless of coverage
// Returns false when not revealing or already transitioning
func (s *Session) ForceReveal() bool {
	s.forcing = true
	ok := s.machine.HandleEvent(s, event.EventForceReveal)
	s.forcing = false
	return ok
}

// Back steps to the previous image, clears marks and notifies the navigator
// Ignored during the lockout
func (s *Session) Back() bool {
	if s.tracker.Locked() {
		return false
	}
	s.index = max(0, s.index-1)
	s.finished = false
	s.machine.HandleEvent(s, event.EventBack)
	s.clearMarks()
	s.publish()
	if s.nav != nil {
		s.nav.OnBack()
	}
	return true
}

// Cancel drops every mark without advancing; ignored during the lockout
func (s *Session) Cancel() bool {
	if s.tracker.Locked() {
		return false
	}
	s.machine.HandleEvent(s, event.EventCancel)
	s.clearMarks()
	s.publish()
	return true
}

// Resize caches a new viewport; existing marks keep their captured max radius
func (s *Session) Resize(size vmath.Size) {
	s.tracker.Resize(size)
	s.publish()
}

// SetConfig applies new tunables; marks in flight keep their captured geometry
func (s *Session) SetConfig(cfg Config) {
	if cfg.ImageCount < 1 {
		cfg.ImageCount = 1
	}
	s.cfg = cfg
	s.tracker.SetConfig(cfg.Coverage)
	s.gesture.SetConfig(cfg.Gesture)
	s.index = min(s.index, cfg.ImageCount-1)
	s.publish()
}

// Dispatch routes a queued input event to the matching session operation
// Returns false for event types the session does not consume
func (s *Session) Dispatch(ev event.GameEvent) bool {
	switch ev.Type {
	case event.EventPointerDown, event.EventPointerMove, event.EventPointerUp, event.EventTap:
		p, ok := ev.Payload.(*event.PointerPayload)
		if !ok {
			return false
		}
		switch ev.Type {
		case event.EventPointerDown:
			s.Down(p.Pos, p.At)
		case event.EventPointerMove:
			s.Move(p.Pos, p.At)
		case event.EventPointerUp:
			s.Up(p.At)
		default:
			s.Tap(p.Pos, p.At)
		}
	case event.EventResize:
		p, ok := ev.Payload.(*event.ResizePayload)
		if !ok {
			return false
		}
		s.Resize(p.Size)
	case event.EventForceReveal:
		s.ForceReveal()
	case event.EventBack:
		s.Back()
	case event.EventCancel:
		s.Cancel()
	default:
		return false
	}
	return true
}

// State returns the current reveal phase
func (s *Session) State() State {
	return s.stateOf(s.machine.StateID())
}

// Transitioning reports whether the lockout is active
func (s *Session) Transitioning() bool {
	return s.tracker.Locked()
}

// Index returns the current image index
func (s *Session) Index() int {
	return s.index
}

// ImageCount returns the configured sequence length
func (s *Session) ImageCount() int {
	return s.cfg.ImageCount
}

// Finished reports whether a reveal completed on the last image without wrap
func (s *Session) Finished() bool {
	return s.finished
}

// Coverage returns the current estimate
func (s *Session) Coverage() float64 {
	return s.tracker.Coverage()
}

// Marks returns the number of marks on the current image
func (s *Session) Marks() int {
	return s.tracker.Len()
}

// Viewport returns the cached viewport
func (s *Session) Viewport() vmath.Size {
	return s.tracker.Viewport()
}

// Commands yields the mask draw commands for the current frame
func (s *Session) Commands() iter.Seq[coverage.DrawCommand] {
	return s.tracker.Commands()
}

// Now returns the timestamp of the last tick
func (s *Session) Now() time.Duration {
	return s.now
}

func (s *Session) stateOf(id fsm.StateID) State {
	switch id {
	case s.revealingID:
		return StateRevealing
	case s.transitioningID:
		return StateTransitioning
	default:
		return StateIdle
	}
}

func (s *Session) clearMarks() {
	s.tracker.Reset()
	s.gesture.Up(s.now)
}

func (s *Session) recordReveal() {
	rec := Record{
		Index:    s.index,
		Coverage: s.tracker.Coverage(),
		Marks:    s.tracker.Len(),
		Forced:   s.forcing,
		Elapsed:  s.now - s.revealStart,
	}
	if rec.Elapsed < 0 {
		rec.Elapsed = 0
	}
	s.metrics.Transitions.Add(1)
	if rec.Forced {
		s.metrics.Forced.Add(1)
	}
	s.log.Info("image revealed",
		"index", rec.Index,
		"coverage", rec.Coverage,
		"marks", rec.Marks,
		"forced", rec.Forced,
		"elapsed", rec.Elapsed,
	)
	if r, ok := s.nav.(Recorder); ok {
		r.OnReveal(rec)
	}
}

func (s *Session) completeTransition() {
	next := s.index + 1
	switch {
	case next < s.cfg.ImageCount:
	case s.cfg.WrapAtEnd:
		next = 0
	default:
		// End of sequence: clamp without notifying
		s.finished = true
		s.log.Info("end of sequence reached", "index", s.index)
		return
	}
	s.index = next
	if s.nav != nil {
		s.nav.OnAdvance(next)
	}
}

func (s *Session) publish() {
	c := s.tracker.Coverage()
	s.metrics.Coverage.Set(c)
	s.metrics.Peak.SetMax(c)
	s.metrics.Marks.Store(int64(s.tracker.Len()))
	s.metrics.Growing.Store(int64(s.tracker.Growing()))
	s.metrics.Index.Store(int64(s.index))
}
