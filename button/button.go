//go:build tinygo

// Package button turns the two board buttons into fsm events.
//
// Each button is an input with the pull-up enabled, so a press pulls the pin
// low and fires the falling edge interrupt. The interrupt handler only posts
// the button code to the mailbox; there is no debouncing.
package button

import (
	"errors"
	"machine"

	"github.com/harveysanders/picoweather/fsm"
)

// Pins selects the GPIOs for the two buttons.
type Pins struct {
	Button1 machine.Pin
	Button2 machine.Pin
}

// DefaultPins returns the board's button wiring.
func DefaultPins() Pins {
	return Pins{Button1: button1Pin, Button2: button2Pin}
}

// Listen configures both pins and routes their presses into box.
func Listen(pins Pins, box *fsm.Mailbox) error {
	if box == nil {
		return errors.New("button: nil mailbox")
	}
	err := listen(pins.Button1, fsm.EventButton1, box)
	if err != nil {
		return errors.New("button1: " + err.Error())
	}
	err = listen(pins.Button2, fsm.EventButton2, box)
	if err != nil {
		return errors.New("button2: " + err.Error())
	}
	return nil
}

func listen(pin machine.Pin, ev fsm.Event, box *fsm.Mailbox) error {
	pin.Configure(machine.PinConfig{Mode: buttonMode})
	return pin.SetInterrupt(buttonPinChange, func(machine.Pin) {
		box.Post(ev)
	})
}
