//go:build tinygo

// Command lcdroomtemp shows the room temperature from a DHT11 and four
// cities. It starts on the room page; button 1 moves forward
// (room, Rome, Moscow, Tokyo, New York), button 2 moves back.
package main

import (
	"log/slog"
	"machine"

	"github.com/harveysanders/picoweather/board"
	"github.com/harveysanders/picoweather/button"
	"github.com/harveysanders/picoweather/display"
	"github.com/harveysanders/picoweather/fsm"
	"github.com/harveysanders/picoweather/weather"
)

const dhtPin = machine.GP22

func main() {
	logger := board.Logger(slog.LevelInfo)

	lcd, err := board.ConfigureLCD()
	if err != nil {
		board.PrintErrForever(logger, "configure LCD", slog.Any("reason", err))
	}
	screen := display.NewScreen(lcd)
	sensor := weather.NewDHTSensor(dhtPin)
	renderer := display.NewWeather(screen, weather.Seed(), sensor)

	events := new(fsm.Mailbox)
	pages, err := fsm.NewMachine(fsm.Config{
		Table:    fsm.RoomAndCities(),
		Initial:  fsm.StateTemp,
		Mailbox:  events,
		Renderer: board.PulseOnShow(renderer, board.DebugLED()),
		Logger:   logger,
	})
	if err != nil {
		board.PrintErrForever(logger, "build state machine", slog.Any("reason", err))
	}

	err = button.Listen(button.DefaultPins(), events)
	if err != nil {
		board.PrintErrForever(logger, "configure buttons", slog.Any("reason", err))
	}

	err = pages.Start()
	if err != nil {
		// A failed first sensor read still shows the page with dashes.
		logger.Error("initial page", slog.Any("reason", err))
	}
	pages.Run(board.Wait)
}
