package sink

import (
	"sync"
	"time"
)

// Fake records reports and commits for test assertions. Safe for
// concurrent use: the engine delivers from its worker goroutine while
// tests assert from theirs.
type Fake struct {
	mu sync.Mutex

	// staged holds reports since the last commit.
	staged []Report

	// batches holds every committed batch, in commit order.
	batches [][]Report

	// ReportErr, if set, will be returned by ReportState.
	ReportErr error

	// CommitErr, if set, will be returned by Commit.
	CommitErr error

	// closed tracks if Close was called.
	closed bool
}

// NewFake creates a Fake sink.
func NewFake() *Fake {
	return &Fake{}
}

// ReportState stages one report.
func (f *Fake) ReportState(pressed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReportErr != nil {
		return f.ReportErr
	}
	f.staged = append(f.staged, Report{Pressed: pressed, At: time.Now()})
	return nil
}

// Commit seals the staged reports into a batch.
func (f *Fake) Commit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CommitErr != nil {
		f.staged = nil
		return f.CommitErr
	}
	if len(f.staged) == 0 {
		return nil
	}
	f.batches = append(f.batches, f.staged)
	f.staged = nil
	return nil
}

// Close marks the sink as closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Batches returns a copy of all committed batches.
func (f *Fake) Batches() [][]Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]Report, len(f.batches))
	copy(out, f.batches)
	return out
}

// States flattens committed batches into the sequence of reported
// pressed states.
func (f *Fake) States() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []bool
	for _, b := range f.batches {
		for _, r := range b {
			out = append(out, r.Pressed)
		}
	}
	return out
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Reset clears recorded state.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staged = nil
	f.batches = nil
	f.ReportErr = nil
	f.CommitErr = nil
	f.closed = false
}
