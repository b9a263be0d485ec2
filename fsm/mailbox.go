package fsm

import "sync/atomic"

// Mailbox is a one-slot event cell written from interrupt context and
// drained by the main loop. A Post while an event is still pending
// replaces it: the earlier press is lost and counted.
//
// The zero value is an empty mailbox.
type Mailbox struct {
	slot        atomic.Uint32
	overwritten atomic.Uint32
}

// Post stores ev, replacing any unconsumed event. It is safe to call from an
// interrupt handler: no locks, no allocation. It reports whether a pending
// press was overwritten.
func (m *Mailbox) Post(ev Event) (overwrote bool) {
	prev := Event(m.slot.Swap(uint32(ev)))
	if prev != EventNone && ev != EventNone {
		m.overwritten.Add(1)
		return true
	}
	return false
}

// Take returns the pending event and clears the slot. A wake-up with
// nothing posted yields EventNone, so a consumed press is never handled
// twice.
func (m *Mailbox) Take() Event {
	return Event(m.slot.Swap(uint32(EventNone)))
}

// Peek returns the pending event without consuming it.
func (m *Mailbox) Peek() Event {
	return Event(m.slot.Load())
}

// Overwritten returns how many presses were replaced before the main loop
// could take them.
func (m *Mailbox) Overwritten() uint32 {
	return m.overwritten.Load()
}
