//go:build tinygo && (rp2040 || rp2350)

package button

import "machine"

const (
	button1Pin      = machine.GP16
	button2Pin      = machine.GP17
	buttonMode      = machine.PinInputPullup
	buttonPinChange = machine.PinFalling
)
