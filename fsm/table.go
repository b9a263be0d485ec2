package fsm

import (
	"errors"
	"strconv"
)

var (
	errTableEmpty   = errors.New("fsm: empty table")
	errKeyMismatch  = errors.New("fsm: table key does not match page state")
	errDanglingEdge = errors.New("fsm: edge points outside table")
)

// Page is the handler for one State. Its edges are listed, not computed.
type Page struct {
	State     State
	OnButton1 State
	OnButton2 State
}

// Handle returns the state to move to for ev. ok is false when ev does not
// trigger a transition.
func (p Page) Handle(ev Event) (next State, ok bool) {
	switch ev {
	case EventButton1:
		return p.OnButton1, true
	case EventButton2:
		return p.OnButton2, true
	}
	return p.State, false
}

// Table maps every reachable state to its page.
type Table map[State]Page

// Validate checks that every key matches its page and every edge lands on a
// state present in the table.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errTableEmpty
	}
	for s, p := range t {
		if s != p.State {
			return errors.New(errKeyMismatch.Error() + ": " + s.String() + " holds " + p.State.String())
		}
		for _, next := range [2]State{p.OnButton1, p.OnButton2} {
			if _, ok := t[next]; !ok {
				return errors.New(errDanglingEdge.Error() + ": " + s.String() + " -> " + strconv.Itoa(int(next)))
			}
		}
	}
	return nil
}

// CityCycle is the four city loop: button 1 walks
// Rome, Moscow, New York, Tokyo and back to Rome; button 2 walks it in
// reverse. The program starts on Rome.
func CityCycle() Table {
	return Table{
		StateRome:    {State: StateRome, OnButton1: StateMoscow, OnButton2: StateTokyo},
		StateMoscow:  {State: StateMoscow, OnButton1: StateNewYork, OnButton2: StateRome},
		StateNewYork: {State: StateNewYork, OnButton1: StateTokyo, OnButton2: StateMoscow},
		StateTokyo:   {State: StateTokyo, OnButton1: StateRome, OnButton2: StateNewYork},
	}
}

// RoomAndCities adds the room temperature page in front of the cities:
// button 1 walks Temp, Rome, Moscow, Tokyo, New York and back to Temp;
// button 2 walks it in reverse. The program starts on Temp.
func RoomAndCities() Table {
	return Table{
		StateTemp:    {State: StateTemp, OnButton1: StateRome, OnButton2: StateNewYork},
		StateRome:    {State: StateRome, OnButton1: StateMoscow, OnButton2: StateTemp},
		StateMoscow:  {State: StateMoscow, OnButton1: StateTokyo, OnButton2: StateRome},
		StateTokyo:   {State: StateTokyo, OnButton1: StateNewYork, OnButton2: StateMoscow},
		StateNewYork: {State: StateNewYork, OnButton1: StateTemp, OnButton2: StateTokyo},
	}
}
