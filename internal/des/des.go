// Package des provides the event-scheduling kernel for the simulation.
//
// The kernel is deliberately minimal: a clock, an event queue, and a run
// loop. All time is simulated, there is only ever a single goroutine
// executing events, and all randomness comes from seeded streams owned by
// the caller. Given the same parameters and seeds, a run is deterministic.
package des

import (
	"container/heap"
	"fmt"
)

// Environment holds the simulation clock and the pending event queue.
// The clock unit is days; it never decreases.
type Environment struct {
	now   float64
	seq   uint64
	queue eventQueue
}

// NewEnvironment returns an Environment with the clock at zero.
func NewEnvironment() *Environment {
	env := &Environment{}
	heap.Init(&env.queue)
	return env
}

// Now returns the current simulation time in days.
func (e *Environment) Now() float64 {
	return e.now
}

// Schedule queues fn to execute delay days from now. Events scheduled for
// the same time execute in scheduling order. A negative delay is a
// programmer error and panics.
func (e *Environment) Schedule(delay float64, fn func()) {
	if delay < 0 {
		panic(fmt.Sprintf("des: negative delay %v", delay))
	}
	e.seq++
	heap.Push(&e.queue, &event{time: e.now + delay, seq: e.seq, fn: fn})
}

// Run executes events in time order until the queue is exhausted or the
// next event lies beyond until. The clock finishes at exactly until, even
// when no events remain. Events scheduled at exactly until still execute.
func (e *Environment) Run(until float64) {
	if until < e.now {
		panic(fmt.Sprintf("des: run until %v is before now %v", until, e.now))
	}
	for e.queue.Len() > 0 && e.queue[0].time <= until {
		ev := heap.Pop(&e.queue).(*event)
		e.now = ev.time
		ev.fn()
	}
	e.now = until
}

// Pending returns the number of queued events. Used by tests.
func (e *Environment) Pending() int {
	return e.queue.Len()
}

// event is one queued callback. seq breaks ties between events scheduled
// for the same simulation time, preserving FIFO order.
type event struct {
	time float64
	seq  uint64
	fn   func()
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}
