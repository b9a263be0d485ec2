package display

import (
	"errors"

	"github.com/harveysanders/picoweather/fsm"
	"github.com/harveysanders/picoweather/weather"
)

// Fixed layout for a 128×128 panel.
const (
	iconX       = 48
	cityIconY   = 6
	roomIconY   = 24
	roomBaseY   = 76
	lineSpacing = 16
	firstLineY  = 52
)

var errNoSensor = errors.New("display: no temperature sensor")

// Weather renders weather pages. It implements fsm.Renderer.
type Weather struct {
	screen *Screen
	cities weather.Cities
	sensor weather.TemperatureSensor

	// Preallocated so repaints do not churn the heap.
	printBuf []byte
	lines    [4]string
	nlines   int
	icon     Icon
}

// NewWeather returns a renderer for cities. sensor may be nil when the
// program has no room temperature page.
func NewWeather(screen *Screen, cities weather.Cities, sensor weather.TemperatureSensor) *Weather {
	return &Weather{
		screen:   screen,
		cities:   cities,
		sensor:   sensor,
		printBuf: make([]byte, 0, 24),
	}
}

// Show repaints the page for s.
func (w *Weather) Show(s fsm.State) error {
	if s == fsm.StateTemp {
		return w.ShowRoom()
	}
	city, ok := w.cities.For(s)
	if !ok {
		return errors.New("display: no page for state " + s.String())
	}
	return w.ShowCity(city)
}

// ShowCity clears the panel and draws the city's icon and its four lines.
func (w *Weather) ShowCity(c weather.City) error {
	w.screen.Clear()
	w.icon = IconFor(c.Condition)
	w.screen.DrawIcon(w.icon, iconX, cityIconY)

	w.lines = [4]string{c.Name, c.Temperature, c.Condition, c.Humidity}
	w.nlines = len(w.lines)
	for i, line := range w.lines {
		w.screen.DrawCentered(line, firstLineY+int16(i)*lineSpacing)
	}
	return w.screen.Flush()
}

// ShowRoom reads the sensor and draws the room temperature in Celsius with a
// thermometer. When the read fails the value is drawn as dashes and the
// error is returned.
func (w *Weather) ShowRoom() error {
	var readErr error
	w.printBuf = append(w.printBuf[:0], "Room: "...)
	if w.sensor == nil {
		readErr = errNoSensor
	} else {
		var f float32
		f, readErr = w.sensor.ReadFahrenheit()
		if readErr == nil {
			w.printBuf = weather.AppendCelsius(w.printBuf, f)
		}
	}
	if readErr != nil {
		w.printBuf = append(w.printBuf, "--.-C"...)
	}

	w.screen.Clear()
	w.icon = IconThermometer
	w.screen.DrawIcon(w.icon, iconX, roomIconY)
	w.lines[0] = string(w.printBuf)
	w.nlines = 1
	w.screen.DrawCentered(w.lines[0], roomBaseY)
	if err := w.screen.Flush(); err != nil {
		return err
	}
	return readErr
}

// Lines returns the text lines of the last repaint.
func (w *Weather) Lines() []string {
	return w.lines[:w.nlines]
}

// Icon returns the icon of the last repaint.
func (w *Weather) Icon() Icon { return w.icon }
