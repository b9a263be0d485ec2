// Package sim runs the weather pages against an in-memory panel so they can
// be driven from a keyboard or a script on the host.
package sim

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/harveysanders/picoweather/display"
	"github.com/harveysanders/picoweather/fsm"
	"github.com/harveysanders/picoweather/weather"
)

const (
	Width  = 128
	Height = 128
)

// Variant selects which program to simulate.
type Variant string

const (
	VariantCities Variant = "cities"
	VariantRoom   Variant = "room"
)

// FixedSensor reports a constant Fahrenheit reading.
type FixedSensor float32

func (s FixedSensor) ReadFahrenheit() (float32, error) { return float32(s), nil }

// Simulator owns the panel, the renderer, the mailbox and the machine.
type Simulator struct {
	FB       *display.Framebuffer
	Events   *fsm.Mailbox
	Machine  *fsm.Machine
	renderer *display.Weather
	log      *slog.Logger
}

// New builds a simulator for v and paints the initial page.
func New(v Variant, sensor weather.TemperatureSensor, logger *slog.Logger) (*Simulator, error) {
	var table fsm.Table
	var initial fsm.State
	switch v {
	case VariantCities:
		table, initial = fsm.CityCycle(), fsm.StateRome
		sensor = nil
	case VariantRoom:
		table, initial = fsm.RoomAndCities(), fsm.StateTemp
	default:
		return nil, errors.New("unknown variant " + string(v) + " (allowed: cities, room)")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}

	fb := display.NewFramebuffer(Width, Height)
	renderer := display.NewWeather(display.NewScreen(fb), weather.Seed(), sensor)
	events := new(fsm.Mailbox)
	m, err := fsm.NewMachine(fsm.Config{
		Table:    table,
		Initial:  initial,
		Mailbox:  events,
		Renderer: renderer,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	if err := m.Start(); err != nil {
		return nil, err
	}
	return &Simulator{
		FB:       fb,
		Events:   events,
		Machine:  m,
		renderer: renderer,
		log:      logger,
	}, nil
}

// Tick is one wake-up of the main loop.
func (s *Simulator) Tick() error {
	_, err := s.Machine.Step()
	return err
}

// Lines returns the text on screen.
func (s *Simulator) Lines() []string { return s.renderer.Lines() }

// Play posts each event and ticks once after it, logging the page shown.
func (s *Simulator) Play(events []fsm.Event) error {
	for _, ev := range events {
		s.Events.Post(ev)
		if err := s.Tick(); err != nil {
			return err
		}
		s.log.Info("page",
			slog.String("event", ev.String()),
			slog.String("state", s.Machine.Current().String()),
			slog.String("lines", strings.Join(s.Lines(), " | ")),
		)
	}
	return nil
}

// ParseEvents parses a comma separated script such as "1,1,2".
// Empty entries are skipped.
func ParseEvents(script string) ([]fsm.Event, error) {
	var events []fsm.Event
	for _, f := range strings.Split(script, ",") {
		switch strings.TrimSpace(f) {
		case "":
		case "1":
			events = append(events, fsm.EventButton1)
		case "2":
			events = append(events, fsm.EventButton2)
		default:
			return nil, errors.New("invalid event " + f + " (allowed: 1, 2)")
		}
	}
	return events, nil
}
