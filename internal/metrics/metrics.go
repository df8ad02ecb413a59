// Package metrics provides the lock-free counters for the button engine.
// Counters may be incremented and read from any context, including the
// edge-notification callback, without blocking.
package metrics

import (
	"sync/atomic"
	"time"
)

// Registry holds the engine's monotonic counters.
//
// Causal ordering: every settle run is caused by at least one raw edge,
// and every confirmed transition happens inside a settle run, so at any
// observation point RawEdges >= SettleRuns >= Transitions.
type Registry struct {
	rawEdges    atomic.Int64
	settleRuns  atomic.Int64
	transitions atomic.Int64
	readErrors  atomic.Int64
	sinkErrors  atomic.Int64
	lastEventNS atomic.Int64
}

// Snapshot is a point-in-time read of all counters. It is not atomic
// across counters; each is individually consistent, and all are
// monotonic, so a snapshot never goes backwards.
type Snapshot struct {
	RawEdges    int64
	SettleRuns  int64
	Transitions int64
	ReadErrors  int64
	SinkErrors  int64
	LastEvent   time.Time // zero if no transition has been confirmed
}

// NewRegistry creates a Registry with all counters at zero.
func NewRegistry() *Registry {
	return &Registry{}
}

// IncRawEdge counts one raw edge from the notification source.
func (r *Registry) IncRawEdge() {
	r.rawEdges.Add(1)
}

// IncSettleRun counts one execution of the settle task.
func (r *Registry) IncSettleRun() {
	r.settleRuns.Add(1)
}

// IncTransition counts one confirmed transition and records its
// timestamp. It returns the new transition count.
func (r *Registry) IncTransition(at time.Time) int64 {
	n := r.transitions.Add(1)
	r.lastEventNS.Store(at.UnixNano())
	return n
}

// IncReadError counts one failed line read during validation.
func (r *Registry) IncReadError() {
	r.readErrors.Add(1)
}

// IncSinkError counts one failed sink delivery.
func (r *Registry) IncSinkError() {
	r.sinkErrors.Add(1)
}

// Transitions returns the confirmed transition count.
func (r *Registry) Transitions() int64 {
	return r.transitions.Load()
}

// Snapshot returns a point-in-time copy of all counters.
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		RawEdges:    r.rawEdges.Load(),
		SettleRuns:  r.settleRuns.Load(),
		Transitions: r.transitions.Load(),
		ReadErrors:  r.readErrors.Load(),
		SinkErrors:  r.sinkErrors.Load(),
	}
	if ns := r.lastEventNS.Load(); ns != 0 {
		s.LastEvent = time.Unix(0, ns)
	}
	return s
}
