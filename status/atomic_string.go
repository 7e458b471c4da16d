package status

import "sync/atomic"

// AtomicString holds an immutable string behind an atomic pointer
// Zero value holds ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store publishes val
func (s *AtomicString) Store(val string) {
	s.ptr.Store(&val)
}

// Load returns the last published value
func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
