//go:build linux

package gpio

import (
	"fmt"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"
)

// RealLine is a single input line on a Linux GPIO character device. It
// implements both Line and Notifier: the kernel delivers edge events for
// the same line request that value reads go through.
type RealLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line

	// cb holds the registered edge callback as a func(). The event
	// handler goroutine loads it without locking.
	cb atomic.Value
}

// NewRealLine requests the given line as a pulled-up input with edge
// detection on both edges.
func NewRealLine(chipName string, offset int) (*RealLine, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	l := &RealLine{chip: chip}
	line, err := chip.RequestLine(offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(l.handleEvent))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request line %d: %w", offset, err)
	}
	l.line = line

	return l, nil
}

// Level reads the current value of the line.
func (l *RealLine) Level() (Level, error) {
	v, err := l.line.Value()
	if err != nil {
		return Low, fmt.Errorf("read line: %w", err)
	}
	if v != 0 {
		return High, nil
	}
	return Low, nil
}

// Register installs the edge callback.
func (l *RealLine) Register(fn func()) error {
	if fn == nil {
		return fmt.Errorf("register: nil callback")
	}
	l.cb.Store(fn)
	return nil
}

// Unregister removes the edge callback. The kernel event stream stays
// active until Close, but events are dropped here.
func (l *RealLine) Unregister() {
	l.cb.Store(func() {})
}

// handleEvent runs on the gpiocdev event goroutine for every edge.
func (l *RealLine) handleEvent(gpiocdev.LineEvent) {
	if fn, ok := l.cb.Load().(func()); ok {
		fn()
	}
}

// Close releases the line and the chip.
func (l *RealLine) Close() error {
	l.Unregister()
	var errs []error
	if l.line != nil {
		if err := l.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if l.chip != nil {
		if err := l.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
