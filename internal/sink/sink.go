// Package sink delivers confirmed button transitions to an external
// consumer as discrete state-change reports grouped into atomic batches.
// A batch is opened implicitly by the first ReportState and sealed by
// Commit. The MQTT implementation publishes each sealed batch as one
// message; the fake records batches for test assertions.
package sink

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for button events.
const Topic = "devices/button/events"

// TopicSystem is the MQTT topic for daemon lifecycle events.
const TopicSystem = "devices/button/system"

// Sink accepts boolean state-change reports. Implementations must treat
// delivery failures as their own concern to surface via the returned
// error; callers log and count them, never propagate them as fatal.
type Sink interface {
	// ReportState stages one state-change report in the open batch.
	ReportState(pressed bool) error

	// Commit seals and delivers the open batch. With nothing staged it
	// is a no-op.
	Commit() error

	// Close releases the sink.
	Close() error
}

// Report is a single staged state change.
type Report struct {
	Pressed bool
	At      time.Time
}

// Payload is the published message structure.
type Payload struct {
	Button ButtonPayload `json:"button"`
}

// ButtonPayload contains one committed batch of reports.
type ButtonPayload struct {
	Timestamp string       `json:"timestamp"`
	Reports   []ReportJSON `json:"reports"`
}

// ReportJSON is the JSON form of one report.
type ReportJSON struct {
	State     string `json:"state"`
	Timestamp string `json:"timestamp"`
}

// SystemPayload is the published message structure for lifecycle events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

func stateString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

// FormatPayload creates the JSON payload for one committed batch.
func FormatPayload(reports []Report, sealed time.Time) ([]byte, error) {
	body := ButtonPayload{
		Timestamp: sealed.UTC().Format(time.RFC3339Nano),
		Reports:   make([]ReportJSON, 0, len(reports)),
	}
	for _, r := range reports {
		body.Reports = append(body.Reports, ReportJSON{
			State:     stateString(r.Pressed),
			Timestamp: r.At.UTC().Format(time.RFC3339Nano),
		})
	}
	return json.Marshal(Payload{Button: body})
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
func FormatSystemPayload(event, reason string, at time.Time) ([]byte, error) {
	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: at.UTC().Format(time.RFC3339),
			Event:     event,
			Reason:    reason,
		},
	})
}
