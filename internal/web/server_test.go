package web

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chunsun978/bbb-embedded-drivers/internal/button"
	"github.com/chunsun978/bbb-embedded-drivers/internal/metrics"
)

// fakeSource is a static Source for handler tests.
type fakeSource struct {
	state button.State
	snap  metrics.Snapshot
}

func (f *fakeSource) State() button.State       { return f.state }
func (f *fakeSource) Metrics() metrics.Snapshot { return f.snap }

func testServer() *Server {
	src := &fakeSource{
		state: button.StatePressed,
		snap: metrics.Snapshot{
			RawEdges:    42,
			SettleRuns:  7,
			Transitions: 3,
			LastEvent:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	return New(":0", src, Info{
		Label:      "test-button",
		Broker:     "tcp://broker:1883",
		DebounceMs: 20,
		StartTime:  time.Now().Add(-90 * time.Second),
	})
}

func TestHandleJSON(t *testing.T) {
	s := testServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/index.json", nil)
	s.handleJSON(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}

	var parsed StatusJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Button.State != "PRESSED" {
		t.Errorf("state: got %q", parsed.Button.State)
	}
	if parsed.Button.Counters.RawEdges != 42 {
		t.Errorf("raw_edges: got %d", parsed.Button.Counters.RawEdges)
	}
	if parsed.Button.Counters.Transitions != 3 {
		t.Errorf("transitions: got %d", parsed.Button.Counters.Transitions)
	}
	if parsed.Button.LastEvent == "" {
		t.Error("last_event missing")
	}
	if parsed.Button.UptimeSeconds < 89 || parsed.Button.UptimeSeconds > 120 {
		t.Errorf("uptime_seconds: got %d", parsed.Button.UptimeSeconds)
	}
	if parsed.Button.Config.DebounceMs != 20 {
		t.Errorf("debounce_ms: got %d", parsed.Button.Config.DebounceMs)
	}
}

func TestHandleIndexHTML(t *testing.T) {
	s := testServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	s.handleIndex(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "test-button") {
		t.Error("label missing from HTML")
	}
	if !strings.Contains(body, "PRESSED") {
		t.Error("state missing from HTML")
	}
	if !strings.Contains(body, "42") {
		t.Error("raw edge count missing from HTML")
	}
}

func TestHandleIndexNotFound(t *testing.T) {
	s := testServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/nope", nil)
	s.handleIndex(rec, req)

	if rec.Code != 404 {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestJSONZeroLastEventOmitted(t *testing.T) {
	src := &fakeSource{state: button.StateReleased}
	s := New(":0", src, Info{Label: "x", StartTime: time.Now()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/index.json", nil)
	s.handleJSON(rec, req)

	if strings.Contains(rec.Body.String(), "last_event") {
		t.Error("last_event must be omitted before any transition")
	}
}
