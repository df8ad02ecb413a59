package button

import (
	"sync"
	"time"
)

// scheduler owns the engine's single deferred settle check.
//
// Arm restarts the timer, so the task only fires after a full quiet
// interval with no further arms. A generation counter marks stale timer
// callbacks: an invocation that has been superseded by a later Arm or by
// Stop exits without side effects. At most one task body executes at a
// time, and Stop does not return until any in-flight body has.
type scheduler struct {
	delay time.Duration
	task  func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool

	// runMu serializes task bodies; running lets Stop drain them.
	runMu   sync.Mutex
	running sync.WaitGroup
}

func newScheduler(delay time.Duration, task func()) *scheduler {
	return &scheduler{delay: delay, task: task}
}

// Arm schedules the task delay from now, cancelling and replacing any
// pending schedule. It never blocks and never runs the task inline, so
// it is safe to call from the edge-notification callback.
func (s *scheduler) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

func (s *scheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.running.Add(1)
	s.mu.Unlock()
	defer s.running.Done()

	s.runMu.Lock()
	defer s.runMu.Unlock()

	// Re-check after acquiring the run lock: a newer arm or a stop may
	// have superseded this invocation while an earlier body finished.
	s.mu.Lock()
	current := !s.stopped && gen == s.gen
	s.mu.Unlock()
	if !current {
		return
	}

	s.task()
}

// Stop cancels any pending schedule and blocks until any task body that
// already started has returned. No task runs after Stop returns. The
// scheduler cannot be re-armed afterwards.
func (s *scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.running.Wait()
}
