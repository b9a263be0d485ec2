// Package fsm drives which weather page is on screen.
//
// Each page is a State with two outgoing edges, one per button. Button
// presses arrive from interrupt context through a single-slot Mailbox and
// the main loop hands them to the Machine, which asks the current Page for
// the next State and repaints through a Renderer.
//
//	box := new(fsm.Mailbox)
//	m, err := fsm.NewMachine(fsm.Config{
//	    Table:    fsm.RoomAndCities(),
//	    Initial:  fsm.StateTemp,
//	    Mailbox:  box,
//	    Renderer: screen,
//	})
//	// in the pin interrupt:
//	box.Post(fsm.EventButton1)
//	// in main:
//	m.Run(func() { time.Sleep(10 * time.Millisecond) })
package fsm

// State identifies the page shown on the display.
type State uint8

const (
	StateTemp State = iota // Room temperature.
	StateRome
	StateMoscow
	StateTokyo
	StateNewYork
	numStates
)

func (s State) String() string {
	switch s {
	case StateTemp:
		return "temp"
	case StateRome:
		return "rome"
	case StateMoscow:
		return "moscow"
	case StateTokyo:
		return "tokyo"
	case StateNewYork:
		return "newyork"
	}
	return "invalid"
}

// Valid reports whether s names a known page.
func (s State) Valid() bool { return s < numStates }

// IsCity reports whether s is one of the four city pages.
func (s State) IsCity() bool { return s > StateTemp && s < numStates }

// Event is a discrete button press. It is a word-sized value so it can be
// stored from interrupt context without tearing.
type Event uint32

const (
	EventNone Event = iota
	EventButton1
	EventButton2
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventButton1:
		return "button1"
	case EventButton2:
		return "button2"
	}
	return "invalid"
}
