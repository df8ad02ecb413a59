package web

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Button ButtonInner `json:"button"`
}

// ButtonInner contains the status details.
type ButtonInner struct {
	Label         string       `json:"label"`
	State         string       `json:"state"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	LastEvent     string       `json:"last_event,omitempty"`
	Counters      CountersJSON `json:"counters"`
	Config        ConfigJSON   `json:"config"`
}

// CountersJSON is the JSON representation of the metrics snapshot.
type CountersJSON struct {
	RawEdges    int64 `json:"raw_edges"`
	SettleRuns  int64 `json:"settle_runs"`
	Transitions int64 `json:"transitions"`
	ReadErrors  int64 `json:"read_errors"`
	SinkErrors  int64 `json:"sink_errors"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	DebounceMs int64  `json:"debounce_ms"`
	Broker     string `json:"broker"`
}

func formatJSON(v view) []byte {
	inner := ButtonInner{
		Label:         v.Info.Label,
		State:         v.State,
		UptimeSeconds: int64(v.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     v.Info.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     v.Now.UTC().Format(time.RFC3339),
		Counters: CountersJSON{
			RawEdges:    v.Metrics.RawEdges,
			SettleRuns:  v.Metrics.SettleRuns,
			Transitions: v.Metrics.Transitions,
			ReadErrors:  v.Metrics.ReadErrors,
			SinkErrors:  v.Metrics.SinkErrors,
		},
		Config: ConfigJSON{
			DebounceMs: v.Info.DebounceMs,
			Broker:     v.Info.Broker,
		},
	}
	if !v.Metrics.LastEvent.IsZero() {
		inner.LastEvent = v.Metrics.LastEvent.UTC().Format(time.RFC3339Nano)
	}

	data, _ := json.MarshalIndent(StatusJSON{Button: inner}, "", "  ")
	return data
}
