// Package gpio provides the digital line abstraction for the button engine.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Level is a raw reading of the physical line.
type Level int

const (
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Line reads the current level of a single digital input line.
type Line interface {
	// Level returns the current line level. The call may sleep, so it
	// must never be made from an edge callback.
	Level() (Level, error)

	// Close releases the line.
	Close() error
}

// Notifier invokes a callback on every raw transition of the line, in
// either direction. The callback runs in the notification context: it
// must return quickly and must not block.
type Notifier interface {
	// Register installs the edge callback. Only one callback may be
	// registered at a time.
	Register(fn func()) error

	// Unregister removes the edge callback. No callback is invoked
	// with engine state after shutdown because the engine silences the
	// notifier before tearing anything else down.
	Unregister()
}

// Default line parameters for the BeagleBone Black flagship button.
const (
	DefaultChip = "gpiochip1"
	DefaultPin  = 28 // P9_12
)
