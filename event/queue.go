package event

import (
	"sync/atomic"

	"github.com/lixenwraith/washaway/parameter"
)

// slot holds one event and the ticket it was written under
// seq is ticket+1 once the write is visible, 0 while free or being written
type slot struct {
	ev  GameEvent
	seq atomic.Uint64
}

// EventQueue is a fixed-size MPSC ring of pending session events
// Any goroutine may Push (terminal poller, reload watcher, tests); only the tick loop drains.
// A full ring drops its oldest unread events, input is never blocked.
type EventQueue struct {
	slots [parameter.EventQueueSize]slot
	next  atomic.Uint64 // next ticket handed to a producer
	read  atomic.Uint64 // first ticket not yet drained
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push claims a ticket and publishes ev into its slot
func (q *EventQueue) Push(ev GameEvent) {
	ticket := q.next.Add(1) - 1
	s := &q.slots[ticket&parameter.EventBufferMask]
	s.seq.Store(0)
	s.ev = ev
	s.seq.Store(ticket + 1)

	// Overwrote an unread ticket: move the reader past it
	for {
		r := q.read.Load()
		if ticket < r+parameter.EventQueueSize {
			return
		}
		if q.read.CompareAndSwap(r, ticket-parameter.EventQueueSize+1) {
			return
		}
	}
}

// Drain appends pending events to dst in push order and returns it
// Stops at the first ticket whose write has not been published yet
func (q *EventQueue) Drain(dst []GameEvent) []GameEvent {
	n := len(dst)
	for {
		start := q.read.Load()
		end := q.next.Load()
		r := max(start, end-min(end, parameter.EventQueueSize))

		t := r
		for ; t < end; t++ {
			s := &q.slots[t&parameter.EventBufferMask]
			if s.seq.Load() != t+1 {
				break
			}
			dst = append(dst, s.ev)
		}

		if t == r || q.read.CompareAndSwap(start, t) {
			return dst
		}
		// A producer lapped the reader mid-batch, the copied slots may be stale
		dst = dst[:n]
	}
}

// Consume returns all pending events, nil when there are none
func (q *EventQueue) Consume() []GameEvent {
	evs := q.Drain(nil)
	if len(evs) == 0 {
		return nil
	}
	return evs
}

// Len is the approximate number of undrained events
func (q *EventQueue) Len() int {
	r, end := q.read.Load(), q.next.Load()
	if end <= r {
		return 0
	}
	return int(min(end-r, parameter.EventQueueSize))
}
