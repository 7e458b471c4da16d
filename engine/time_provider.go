package engine

import (
	"sync/atomic"
	"time"
)

// Clock supplies wall time to the tick loop
type Clock interface {
	Now() time.Time
}

// TimeProvider reads the system clock, monotonic reading included
type TimeProvider struct{}

func NewTimeProvider() *TimeProvider { return &TimeProvider{} }

func (*TimeProvider) Now() time.Time { return time.Now() }

// MockTimeProvider is a manually advanced clock for tests and headless simulation
// Safe to advance from one goroutine while the loop reads from another
type MockTimeProvider struct {
	base   time.Time
	offset atomic.Int64 // ns since base
}

func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{base: start}
}

func (m *MockTimeProvider) Now() time.Time {
	return m.base.Add(time.Duration(m.offset.Load()))
}

// SetTime jumps to t, which may be before the current reading
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.offset.Store(int64(t.Sub(m.base)))
}

func (m *MockTimeProvider) Advance(d time.Duration) {
	m.offset.Add(int64(d))
}
