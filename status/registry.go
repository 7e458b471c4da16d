// Package status holds lock-free session metrics read by the renderer and the CLI reports
package status

import (
	"sort"
	"strconv"
	"sync/atomic"
)

// Metric keys written by the reveal session and the tick loop
const (
	KeyCoverage    = "reveal.coverage"
	KeyPeak        = "reveal.coverage_peak"
	KeyMarks       = "reveal.marks"
	KeyGrowing     = "reveal.growing"
	KeyIndex       = "reveal.index"
	KeyTransitions = "reveal.transitions"
	KeyForced      = "reveal.forced"
	KeyDropped     = "reveal.dropped_marks"
	KeyLocked      = "reveal.locked"
	KeyState       = "reveal.state"
	KeyTicks       = "engine.ticks"
	KeyEvents      = "engine.events"
	KeyTrack       = "audio.track"
	KeyPlaying     = "audio.playing"
)

// Registry is the central metrics facade
// Writers cache cell pointers once and store into atomics afterwards
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Metric is one formatted registry entry
type Metric struct {
	Key   string
	Value string
}

// Snapshot formats every metric, sorted by key
func (r *Registry) Snapshot() []Metric {
	out := make([]Metric, 0, r.TotalCount())
	r.Bools.Range(func(k string, p *atomic.Bool) {
		out = append(out, Metric{k, strconv.FormatBool(p.Load())})
	})
	r.Ints.Range(func(k string, p *atomic.Int64) {
		out = append(out, Metric{k, strconv.FormatInt(p.Load(), 10)})
	})
	r.Floats.Range(func(k string, p *AtomicFloat) {
		out = append(out, Metric{k, strconv.FormatFloat(p.Get(), 'f', 3, 64)})
	})
	r.Strings.Range(func(k string, p *AtomicString) {
		out = append(out, Metric{k, p.Load()})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// SessionMetrics caches the cells a reveal session writes every tick
type SessionMetrics struct {
	Coverage    *AtomicFloat
	Peak        *AtomicFloat
	Marks       *atomic.Int64
	Growing     *atomic.Int64
	Index       *atomic.Int64
	Transitions *atomic.Int64
	Forced      *atomic.Int64
	Dropped     *atomic.Int64
	Locked      *atomic.Bool
	State       *AtomicString
}

// Session resolves the reveal session cells; a nil registry yields private cells
func (r *Registry) Session() *SessionMetrics {
	if r == nil {
		r = NewRegistry()
	}
	return &SessionMetrics{
		Coverage:    r.Floats.Get(KeyCoverage),
		Peak:        r.Floats.Get(KeyPeak),
		Marks:       r.Ints.Get(KeyMarks),
		Growing:     r.Ints.Get(KeyGrowing),
		Index:       r.Ints.Get(KeyIndex),
		Transitions: r.Ints.Get(KeyTransitions),
		Forced:      r.Ints.Get(KeyForced),
		Dropped:     r.Ints.Get(KeyDropped),
		Locked:      r.Bools.Get(KeyLocked),
		State:       r.Strings.Get(KeyState),
	}
}
