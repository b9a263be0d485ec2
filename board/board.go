//go:build tinygo

// Package board wires the Pico's peripherals for the weather programs: the
// ST7735 128x128 panel on SPI0, the debug LED, serial logging and the
// low-power wait used by the main loops.
package board

import (
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/picoweather/fsm"
	"tinygo.org/x/drivers/st7735"
)

const (
	lcdWidth  = 128
	lcdHeight = 128

	// pollInterval bounds how long a button press waits before the main
	// loop sees it. The core sleeps between polls.
	pollInterval = 20 * time.Millisecond
)

var (
	debugLED = machine.GP15

	lcdSCK   = machine.GP18
	lcdSDO   = machine.GP19
	lcdReset = machine.GP12
	lcdDC    = machine.GP11
	lcdCS    = machine.GP13
	lcdBL    = machine.GP10
)

// Logger returns a text logger on the USB serial port.
func Logger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: level,
	}))
}

// ConfigureLCD brings up SPI0 and the ST7735 panel.
func ConfigureLCD() (*st7735.Device, error) {
	err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 16 * machine.MHz,
		SCK:       lcdSCK,
		SDO:       lcdSDO,
	})
	if err != nil {
		return nil, err
	}
	lcd := st7735.New(machine.SPI0, lcdReset, lcdDC, lcdCS, lcdBL)
	lcd.Configure(st7735.Config{
		Width:  lcdWidth,
		Height: lcdHeight,
		Model:  st7735.GREENTAB,
	})
	return &lcd, nil
}

// DebugLED returns the configured debug LED.
func DebugLED() machine.Pin {
	debugLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return debugLED
}

// Wait is the main loop's low-power wait. The scheduler idles the core
// until the timer fires; the pin interrupts run in the meantime and leave
// their event in the mailbox.
func Wait() {
	time.Sleep(pollInterval)
}

// PulseOnShow wraps r so the LED blinks once per repaint.
func PulseOnShow(r fsm.Renderer, led machine.Pin) fsm.Renderer {
	return pulseRenderer{r: r, led: led}
}

type pulseRenderer struct {
	r   fsm.Renderer
	led machine.Pin
}

func (p pulseRenderer) Show(s fsm.State) error {
	p.led.High()
	err := p.r.Show(s)
	p.led.Low()
	return err
}

// PrintErrForever prints an error to serial @ 1hz. It
// blocks forever.
func PrintErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
