// Package button implements the interrupt-driven debounce engine for a
// single physical button.
//
// Raw edges arrive on the notification context, which does nothing but
// count the edge and re-arm the settle check. The settle check runs on a
// worker context once the line has been quiet for the full debounce
// interval; it reads the settled level, validates it against the
// canonical state, and fans a confirmed transition out to the metrics
// registry, the input sink, and the blocking event mailbox. No critical
// section in this package ever contains a call that can block or sleep.
package button

import "time"

// State is the engine's debounced, validated belief about the button.
type State string

const (
	StatePressed  State = "PRESSED"
	StateReleased State = "RELEASED"
)

// Event is a confirmed transition. It is a value type: each consumer
// gets its own copy and nothing retains it after delivery.
type Event struct {
	// Timestamp is when the transition was confirmed.
	Timestamp time.Time

	// State is the new canonical state.
	State State

	// PressCount is the confirmed transition count at emission, this
	// event included.
	PressCount int64
}
