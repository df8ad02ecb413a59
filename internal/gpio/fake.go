package gpio

import "sync"

// FakeLine is a test double implementing Line and Notifier. Tests set the
// level and raise edges; the registered callback is invoked synchronously
// on the raising goroutine, mimicking the notification context.
type FakeLine struct {
	mu     sync.Mutex
	level  Level
	cb     func()
	closed bool

	// LevelErr, if set, will be returned by Level().
	LevelErr error

	// Reads counts Level() calls.
	Reads int

	// RegisterErr, if set, will be returned by Register().
	RegisterErr error

	// Unregistered tracks if Unregister was called.
	Unregistered bool
}

// NewFakeLine creates a FakeLine at the given initial level.
func NewFakeLine(initial Level) *FakeLine {
	return &FakeLine{level: initial}
}

// Level returns the current fake level.
func (f *FakeLine) Level() (Level, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reads++
	if f.LevelErr != nil {
		return Low, f.LevelErr
	}
	return f.level, nil
}

// SetLevel sets the level returned by subsequent reads. It does not
// raise an edge.
func (f *FakeLine) SetLevel(l Level) {
	f.mu.Lock()
	f.level = l
	f.mu.Unlock()
}

// Edge invokes the registered callback once, as the hardware would on a
// raw transition. It is a no-op if no callback is registered.
func (f *FakeLine) Edge() {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Register installs the edge callback.
func (f *FakeLine) Register(fn func()) error {
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	f.cb = fn
	f.mu.Unlock()
	return nil
}

// Unregister removes the edge callback.
func (f *FakeLine) Unregister() {
	f.mu.Lock()
	f.cb = nil
	f.Unregistered = true
	f.mu.Unlock()
}

// Close marks the line as closed.
func (f *FakeLine) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (f *FakeLine) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
