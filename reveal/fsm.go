package reveal

import (
	"github.com/lixenwraith/washaway/engine/fsm"
)

// RegisterFSMComponents registers the reveal guards and actions with the machine
func RegisterFSMComponents(m *fsm.Machine[*Session]) {
	// --- ACTIONS ---

	// ClearMarks: drop every mark and the gesture anchor
	m.RegisterAction("ClearMarks", func(s *Session, _ map[string]any) {
		s.clearMarks()
	})

	// LockInput: engage the transition lockout
	m.RegisterAction("LockInput", func(s *Session, _ map[string]any) {
		s.tracker.SetLocked(true)
		s.metrics.Locked.Store(true)
	})

	// UnlockInput: release the lockout
	m.RegisterAction("UnlockInput", func(s *Session, _ map[string]any) {
		s.tracker.SetLocked(false)
		s.metrics.Locked.Store(false)
	})

	// PublishCoverage: refresh metrics while revealing
	m.RegisterAction("PublishCoverage", func(s *Session, _ map[string]any) {
		s.publish()
	})

	// RecordReveal: report the completed reveal before the marks are cleared
	m.RegisterAction("RecordReveal", func(s *Session, _ map[string]any) {
		s.recordReveal()
	})

	// CompleteTransition: advance, wrap or clamp the image index
	m.RegisterAction("CompleteTransition", func(s *Session, _ map[string]any) {
		s.completeTransition()
	})

	// --- GUARDS ---

	// CoverageAbove: estimate strictly above the configured threshold
	m.RegisterGuard("CoverageAbove", func(s *Session, _ *fsm.Machine[*Session]) bool {
		return !s.tracker.Locked() && s.tracker.Coverage() > s.cfg.Threshold
	})

	// NotLocked: rejects a second trigger racing the first
	m.RegisterGuard("NotLocked", func(s *Session, _ *fsm.Machine[*Session]) bool {
		return !s.tracker.Locked()
	})

	// CooldownElapsed: lockout held for the configured cooldown
	m.RegisterGuard("CooldownElapsed", func(s *Session, machine *fsm.Machine[*Session]) bool {
		return machine.TimeInState() >= s.cfg.Cooldown
	})
}
