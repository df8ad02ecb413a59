//go:build !linux

package gpio

import "errors"

// RealLine is not available on non-Linux platforms.
type RealLine struct{}

// NewRealLine returns an error on non-Linux platforms.
func NewRealLine(chipName string, offset int) (*RealLine, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Level is not implemented on non-Linux platforms.
func (l *RealLine) Level() (Level, error) {
	return Low, errors.New("gpio: not supported")
}

// Register is not implemented on non-Linux platforms.
func (l *RealLine) Register(fn func()) error {
	return errors.New("gpio: not supported")
}

// Unregister is not implemented on non-Linux platforms.
func (l *RealLine) Unregister() {}

// Close is not implemented on non-Linux platforms.
func (l *RealLine) Close() error { return nil }
