package button

import (
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls cond until it is true or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func TestSchedulerFiresOnceAfterDelay(t *testing.T) {
	var runs atomic.Int64
	s := newScheduler(10*time.Millisecond, func() { runs.Add(1) })
	defer s.Stop()

	s.Arm()

	if !waitFor(t, 2*time.Second, func() bool { return runs.Load() == 1 }) {
		t.Fatalf("expected 1 run, got %d", runs.Load())
	}

	// No further runs without another arm.
	time.Sleep(50 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("expected still 1 run, got %d", got)
	}
}

// TestSchedulerRearmCoalesces arms repeatedly within the delay window
// and expects a single run: every arm restarts the timer.
func TestSchedulerRearmCoalesces(t *testing.T) {
	var runs atomic.Int64
	s := newScheduler(30*time.Millisecond, func() { runs.Add(1) })
	defer s.Stop()

	for i := 0; i < 10; i++ {
		s.Arm()
		time.Sleep(3 * time.Millisecond)
	}

	if !waitFor(t, 2*time.Second, func() bool { return runs.Load() == 1 }) {
		t.Fatalf("expected 1 coalesced run, got %d", runs.Load())
	}
	time.Sleep(80 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("expected still 1 run, got %d", got)
	}
}

func TestSchedulerStopBeforeFire(t *testing.T) {
	var runs atomic.Int64
	s := newScheduler(20*time.Millisecond, func() { runs.Add(1) })

	s.Arm()
	s.Stop()

	time.Sleep(80 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Errorf("expected 0 runs after stop, got %d", got)
	}
}

// TestSchedulerStopDrainsRunningTask starts a slow task, then verifies
// Stop blocks until the task body has fully returned.
func TestSchedulerStopDrainsRunningTask(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	s := newScheduler(time.Millisecond, func() {
		close(entered)
		<-release
		finished.Store(true)
	})

	s.Arm()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("task never started")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	// Stop must wait while the task is still in its body.
	time.Sleep(20 * time.Millisecond)
	select {
	case <-stopped:
		t.Fatal("Stop returned while task was still running")
	default:
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after task finished")
	}
	if !finished.Load() {
		t.Error("Stop returned before the task body completed")
	}
}

func TestSchedulerArmAfterStopIsNoop(t *testing.T) {
	var runs atomic.Int64
	s := newScheduler(time.Millisecond, func() { runs.Add(1) })
	s.Stop()

	s.Arm()
	time.Sleep(30 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Errorf("expected 0 runs, got %d", got)
	}
}

// TestSchedulerSerializesRuns arms during a slow run and checks that
// the next run does not overlap the first.
func TestSchedulerSerializesRuns(t *testing.T) {
	var inBody atomic.Int64
	var overlap atomic.Bool
	var runs atomic.Int64

	s := newScheduler(time.Millisecond, func() {
		if inBody.Add(1) > 1 {
			overlap.Store(true)
		}
		runs.Add(1)
		time.Sleep(20 * time.Millisecond)
		inBody.Add(-1)
	})
	defer s.Stop()

	s.Arm()
	if !waitFor(t, 2*time.Second, func() bool { return runs.Load() >= 1 }) {
		t.Fatal("first run never started")
	}
	// First body is still sleeping; arm again.
	s.Arm()

	if !waitFor(t, 2*time.Second, func() bool { return runs.Load() == 2 }) {
		t.Fatalf("expected 2 runs, got %d", runs.Load())
	}
	if overlap.Load() {
		t.Error("task bodies overlapped")
	}
}
