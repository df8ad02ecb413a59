package button

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chunsun978/bbb-embedded-drivers/internal/gpio"
	"github.com/chunsun978/bbb-embedded-drivers/internal/mailbox"
	"github.com/chunsun978/bbb-embedded-drivers/internal/metrics"
	"github.com/chunsun978/bbb-embedded-drivers/internal/sink"
)

// DefaultDebounceInterval is the settle delay used when the config does
// not supply one.
const DefaultDebounceInterval = 20 * time.Millisecond

// Config holds the construction parameters for an Engine.
type Config struct {
	// Label identifies the engine in logs. Free-form.
	Label string

	// DebounceInterval is the quiet time required on the line before a
	// reading is trusted. Defaults to DefaultDebounceInterval.
	DebounceInterval time.Duration

	// ActiveLow inverts the level-to-state mapping: a Low line level
	// means pressed. This matches a pulled-up button that grounds the
	// line when pushed.
	ActiveLow bool
}

// Engine debounces one digital line and distributes each confirmed
// transition to a metrics registry, an input sink, and a blocking
// event mailbox.
//
// An Engine is created with New and torn down exactly once with Close;
// after Close no method may deliver anything.
type Engine struct {
	cfg      config
	line     gpio.Line
	notifier gpio.Notifier
	sink     sink.Sink

	registry *metrics.Registry
	events   *mailbox.Mailbox[Event]
	sched    *scheduler

	// mu guards state. It is held only for the compare-and-update in
	// the settle task and for reads; never across a sink or mailbox
	// call.
	mu    sync.Mutex
	state State

	closed atomic.Bool
}

type config struct {
	label     string
	debounce  time.Duration
	activeLow bool
}

// New creates an Engine for the given line, registers its edge callback
// with the notifier, and starts from the line's current settled level.
//
// On success the engine owns the line and releases it in Close. On
// failure the engine rolls back what it acquired (the edge
// registration) and the caller keeps ownership of the line; no
// partially constructed engine is ever returned.
func New(cfg Config, line gpio.Line, notifier gpio.Notifier, snk sink.Sink) (*Engine, error) {
	if line == nil || notifier == nil || snk == nil {
		return nil, fmt.Errorf("button: nil collaborator")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = DefaultDebounceInterval
	}
	if cfg.Label == "" {
		cfg.Label = "button"
	}

	e := &Engine{
		cfg: config{
			label:     cfg.Label,
			debounce:  cfg.DebounceInterval,
			activeLow: cfg.ActiveLow,
		},
		line:     line,
		notifier: notifier,
		sink:     snk,
		registry: metrics.NewRegistry(),
		events:   mailbox.New[Event](),
	}
	e.sched = newScheduler(e.cfg.debounce, e.settle)

	lvl, err := line.Level()
	if err != nil {
		return nil, fmt.Errorf("button: read initial level: %w", err)
	}
	e.state = e.stateFor(lvl)

	// Register last so a live callback never sees a half-built engine.
	if err := notifier.Register(e.edge); err != nil {
		return nil, fmt.Errorf("button: register edge callback: %w", err)
	}

	log.Printf("%s: engine started (debounce=%v, initial=%s)",
		e.cfg.label, e.cfg.debounce, e.state)
	return e, nil
}

// edge is the callback invoked by the notifier on every raw transition.
// It runs in the notification context: count the edge, restart the
// settle window, return. No locks shared with blocking code, no reads.
func (e *Engine) edge() {
	e.registry.IncRawEdge()
	e.sched.Arm()
}

// settle is the deferred task body. It runs on the worker context after
// the line has been quiet for the full debounce interval.
func (e *Engine) settle() {
	if e.closed.Load() {
		return
	}

	// Exactly one run increment per execution, whatever happens next.
	e.registry.IncSettleRun()

	lvl, err := e.line.Level()
	if err != nil {
		// Transient: the engine stays running, the next edge retries.
		e.registry.IncReadError()
		log.Printf("%s: settle read failed: %v", e.cfg.label, err)
		return
	}

	next := e.stateFor(lvl)

	e.mu.Lock()
	if next == e.state {
		// Bounce settled back to the canonical state; nothing to emit.
		e.mu.Unlock()
		return
	}
	e.state = next
	e.mu.Unlock()

	e.distribute(next, time.Now())
}

// distribute fans one confirmed transition out to the three sinks. It
// runs with no engine lock held: a slow or failing sink can neither
// stall the notification path nor corrupt canonical state.
func (e *Engine) distribute(state State, at time.Time) {
	count := e.registry.IncTransition(at)

	ev := Event{Timestamp: at, State: state, PressCount: count}

	if err := e.sink.ReportState(state == StatePressed); err != nil {
		e.registry.IncSinkError()
		log.Printf("%s: sink report failed: %v", e.cfg.label, err)
	} else if err := e.sink.Commit(); err != nil {
		e.registry.IncSinkError()
		log.Printf("%s: sink commit failed: %v", e.cfg.label, err)
	}

	e.events.Publish(ev)

	log.Printf("%s: %s (count=%d)", e.cfg.label, state, count)
}

func (e *Engine) stateFor(lvl gpio.Level) State {
	pressed := lvl == gpio.High
	if e.cfg.activeLow {
		pressed = !pressed
	}
	if pressed {
		return StatePressed
	}
	return StateReleased
}

// State returns the current canonical state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Metrics returns a point-in-time snapshot of the engine's counters.
func (e *Engine) Metrics() metrics.Snapshot {
	return e.registry.Snapshot()
}

// TakeEvent blocks until a confirmed transition is available or the
// engine shuts down. It returns mailbox.ErrClosed once the engine is
// closed and ctx.Err() if the caller's context ends first; both are
// expected results. Unread events are overwritten by newer ones.
func (e *Engine) TakeEvent(ctx context.Context) (Event, error) {
	return e.events.Take(ctx)
}

// Close shuts the engine down: silences the notifier, cancels and
// drains the settle task, closes the mailbox (unblocking any reader
// with mailbox.ErrClosed), and releases the line. Idempotent; only the
// first call does the work.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}

	e.notifier.Unregister()
	e.sched.Stop()
	e.events.Close()
	err := e.line.Close()

	log.Printf("%s: engine stopped", e.cfg.label)
	if err != nil {
		return fmt.Errorf("button: release line: %w", err)
	}
	return nil
}
