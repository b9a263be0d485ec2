package fsm

import (
	"errors"
	"testing"
)

type recorder struct {
	shown []State
	err   error
}

func (r *recorder) Show(s State) error {
	r.shown = append(r.shown, s)
	return r.err
}

func newTestMachine(t *testing.T, table Table, initial State) (*Machine, *Mailbox, *recorder) {
	t.Helper()
	box := new(Mailbox)
	rec := new(recorder)
	m, err := NewMachine(Config{Table: table, Initial: initial, Mailbox: box, Renderer: rec})
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m, box, rec
}

type edge struct {
	from State
	ev   Event
	to   State
}

var cityCycleEdges = []edge{
	{StateRome, EventButton1, StateMoscow},
	{StateRome, EventButton2, StateTokyo},
	{StateMoscow, EventButton1, StateNewYork},
	{StateMoscow, EventButton2, StateRome},
	{StateNewYork, EventButton1, StateTokyo},
	{StateNewYork, EventButton2, StateMoscow},
	{StateTokyo, EventButton1, StateRome},
	{StateTokyo, EventButton2, StateNewYork},
}

var roomAndCitiesEdges = []edge{
	{StateTemp, EventButton1, StateRome},
	{StateTemp, EventButton2, StateNewYork},
	{StateRome, EventButton1, StateMoscow},
	{StateRome, EventButton2, StateTemp},
	{StateMoscow, EventButton1, StateTokyo},
	{StateMoscow, EventButton2, StateRome},
	{StateTokyo, EventButton1, StateNewYork},
	{StateTokyo, EventButton2, StateMoscow},
	{StateNewYork, EventButton1, StateTemp},
	{StateNewYork, EventButton2, StateTokyo},
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		edges []edge
	}{
		{"cities", CityCycle(), cityCycleEdges},
		{"room", RoomAndCities(), roomAndCitiesEdges},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.edges) != 2*len(tt.table) {
				t.Fatalf("fixture has %d edges for %d states", len(tt.edges), len(tt.table))
			}
			for _, e := range tt.edges {
				m, _, rec := newTestMachine(t, tt.table, e.from)
				changed, err := m.Dispatch(e.ev)
				if err != nil {
					t.Fatal(err)
				}
				if !changed || m.Current() != e.to {
					t.Errorf("%s on %s: got %s (changed=%v), want %s", e.from, e.ev, m.Current(), changed, e.to)
				}
				if len(rec.shown) != 1 || rec.shown[0] != e.to {
					t.Errorf("%s on %s: rendered %v, want [%s]", e.from, e.ev, rec.shown, e.to)
				}
			}
		})
	}
}

func TestNoEventLeavesStateAndDisplay(t *testing.T) {
	for _, table := range []Table{CityCycle(), RoomAndCities()} {
		for s := range table {
			m, _, rec := newTestMachine(t, table, s)
			changed, err := m.Step()
			if err != nil {
				t.Fatal(err)
			}
			if changed || m.Current() != s || len(rec.shown) != 0 {
				t.Errorf("%s: idle step changed=%v current=%s renders=%v", s, changed, m.Current(), rec.shown)
			}
		}
	}
}

func TestButton1CyclesFromTemp(t *testing.T) {
	m, box, _ := newTestMachine(t, RoomAndCities(), StateTemp)
	want := []State{StateRome, StateMoscow, StateTokyo, StateNewYork, StateTemp, StateRome, StateMoscow}
	for i, w := range want {
		box.Post(EventButton1)
		if _, err := m.Step(); err != nil {
			t.Fatal(err)
		}
		if m.Current() != w {
			t.Fatalf("press %d: got %s, want %s", i+1, m.Current(), w)
		}
	}
}

func TestStaleEventNotReprocessed(t *testing.T) {
	m, box, rec := newTestMachine(t, CityCycle(), StateRome)
	box.Post(EventButton1)
	if _, err := m.Step(); err != nil {
		t.Fatal(err)
	}
	// Spurious wake-up: some other interrupt, no button.
	changed, err := m.Step()
	if err != nil {
		t.Fatal(err)
	}
	if changed || m.Current() != StateMoscow || len(rec.shown) != 1 {
		t.Errorf("spurious wake: changed=%v current=%s renders=%v", changed, m.Current(), rec.shown)
	}
}

func TestDoublePressLastWins(t *testing.T) {
	m, box, _ := newTestMachine(t, CityCycle(), StateRome)
	if box.Post(EventButton1) {
		t.Fatal("first post reported overwrite")
	}
	if !box.Post(EventButton2) {
		t.Fatal("second post did not report overwrite")
	}
	if _, err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if m.Current() != StateTokyo {
		t.Errorf("got %s, want %s", m.Current(), StateTokyo)
	}
	if box.Overwritten() != 1 {
		t.Errorf("overwritten = %d, want 1", box.Overwritten())
	}
}

func TestUnknownStateSkipped(t *testing.T) {
	m, _, rec := newTestMachine(t, CityCycle(), StateRome)
	m.current = StateTemp // not part of the city cycle
	changed, err := m.Dispatch(EventButton1)
	if err != nil || changed || len(rec.shown) != 0 {
		t.Errorf("dispatch on unknown state: changed=%v err=%v renders=%v", changed, err, rec.shown)
	}
}

func TestRenderErrorStillMoves(t *testing.T) {
	m, _, rec := newTestMachine(t, RoomAndCities(), StateRome)
	rec.err = errors.New("sensor unplugged")
	changed, err := m.Dispatch(EventButton2)
	if err == nil {
		t.Fatal("want render error")
	}
	if !changed || m.Current() != StateTemp {
		t.Errorf("got %s changed=%v, want temp", m.Current(), changed)
	}
}

func TestStartRendersInitial(t *testing.T) {
	m, _, rec := newTestMachine(t, RoomAndCities(), StateTemp)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if len(rec.shown) != 1 || rec.shown[0] != StateTemp {
		t.Errorf("rendered %v, want [temp]", rec.shown)
	}
}

func TestNewMachineRejects(t *testing.T) {
	box := new(Mailbox)
	rec := new(recorder)
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty table", Config{Table: Table{}, Mailbox: box, Renderer: rec}},
		{"initial outside table", Config{Table: CityCycle(), Initial: StateTemp, Mailbox: box, Renderer: rec}},
		{"dangling edge", Config{Table: Table{
			StateRome: {State: StateRome, OnButton1: StateMoscow, OnButton2: StateRome},
		}, Initial: StateRome, Mailbox: box, Renderer: rec}},
		{"key mismatch", Config{Table: Table{
			StateRome: {State: StateTokyo, OnButton1: StateRome, OnButton2: StateRome},
		}, Initial: StateRome, Mailbox: box, Renderer: rec}},
		{"nil renderer", Config{Table: CityCycle(), Initial: StateRome, Mailbox: box}},
		{"nil mailbox", Config{Table: CityCycle(), Initial: StateRome, Renderer: rec}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMachine(tt.cfg); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestMailboxTakeClears(t *testing.T) {
	var box Mailbox
	if got := box.Take(); got != EventNone {
		t.Fatalf("empty take = %s", got)
	}
	box.Post(EventButton2)
	if got := box.Peek(); got != EventButton2 {
		t.Fatalf("peek = %s", got)
	}
	if got := box.Take(); got != EventButton2 {
		t.Fatalf("take = %s", got)
	}
	if got := box.Take(); got != EventNone {
		t.Fatalf("second take = %s", got)
	}
}
