package fsm

import (
	"errors"
	"io"
	"log/slog"
)

var (
	errNoRenderer     = errors.New("fsm: nil renderer")
	errNoMailbox      = errors.New("fsm: nil mailbox")
	errInitialMissing = errors.New("fsm: initial state not in table")
)

// Renderer repaints the display for a state. It is the render command
// produced by every transition.
type Renderer interface {
	Show(State) error
}

// Config configures a Machine.
type Config struct {
	// Table lists the page for every state. It must pass Table.Validate.
	Table Table
	// Initial is the page shown after Start.
	Initial State
	// Mailbox receives button events from interrupt handlers.
	Mailbox *Mailbox
	// Renderer repaints the display after each transition.
	Renderer Renderer
	// Logger for transitions. Nil discards.
	Logger *slog.Logger
}

// Machine is the page state machine. It is driven from a single goroutine;
// only the Mailbox is shared with interrupt context.
type Machine struct {
	table   Table
	current State
	box     *Mailbox
	render  Renderer
	log     *slog.Logger
	lost    uint32 // Mailbox overwrites already reported.
}

// NewMachine validates cfg and returns a Machine positioned on cfg.Initial.
// Nothing is drawn until Start.
func NewMachine(cfg Config) (*Machine, error) {
	if err := cfg.Table.Validate(); err != nil {
		return nil, err
	}
	if _, ok := cfg.Table[cfg.Initial]; !ok {
		return nil, errInitialMissing
	}
	if cfg.Renderer == nil {
		return nil, errNoRenderer
	}
	if cfg.Mailbox == nil {
		return nil, errNoMailbox
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &Machine{
		table:   cfg.Table,
		current: cfg.Initial,
		box:     cfg.Mailbox,
		render:  cfg.Renderer,
		log:     logger,
	}, nil
}

// Current returns the page on screen.
func (m *Machine) Current() State { return m.current }

// Start paints the initial page.
func (m *Machine) Start() error {
	m.log.Info("fsm:start", slog.String("state", m.current.String()))
	return m.render.Show(m.current)
}

// Dispatch hands ev to the current page. When the page moves, the new state
// is rendered and becomes current. An event that triggers no transition
// leaves both the state and the display untouched.
//
// The state is updated even if rendering fails so the display and the
// machine agree on the next repaint.
func (m *Machine) Dispatch(ev Event) (changed bool, err error) {
	page, ok := m.table[m.current]
	if !ok {
		// Unknown state: skip the dispatch, the loop carries on.
		return false, nil
	}
	next, ok := page.Handle(ev)
	if !ok {
		return false, nil
	}
	m.log.Info("fsm:transition",
		slog.String("from", m.current.String()),
		slog.String("to", next.String()),
		slog.String("event", ev.String()),
	)
	m.current = next
	return true, m.render.Show(next)
}

// Step consumes the pending mailbox event, if any, and dispatches it.
func (m *Machine) Step() (bool, error) {
	ev := m.box.Take()
	if n := m.box.Overwritten(); n != m.lost {
		m.log.Warn("fsm:presses-lost", slog.Uint64("total", uint64(n)))
		m.lost = n
	}
	return m.Dispatch(ev)
}

// Run loops forever: wait for a wake-up, then step. wait is the low-power
// wait; any wake-up triggers a step whether or not a button was pressed.
// Render errors are logged and the loop continues.
func (m *Machine) Run(wait func()) {
	for {
		wait()
		if _, err := m.Step(); err != nil {
			m.log.Error("fsm:render", slog.String("state", m.current.String()), slog.String("err", err.Error()))
		}
	}
}
