//go:build tinygo

// Command lcdcities cycles the LCD through four cities. Button 1 moves
// forward (Rome, Moscow, New York, Tokyo), button 2 moves back.
package main

import (
	"log/slog"

	"github.com/harveysanders/picoweather/board"
	"github.com/harveysanders/picoweather/button"
	"github.com/harveysanders/picoweather/display"
	"github.com/harveysanders/picoweather/fsm"
	"github.com/harveysanders/picoweather/weather"
)

func main() {
	logger := board.Logger(slog.LevelInfo)

	lcd, err := board.ConfigureLCD()
	if err != nil {
		board.PrintErrForever(logger, "configure LCD", slog.Any("reason", err))
	}
	screen := display.NewScreen(lcd)
	renderer := display.NewWeather(screen, weather.Seed(), nil)

	events := new(fsm.Mailbox)
	pages, err := fsm.NewMachine(fsm.Config{
		Table:    fsm.CityCycle(),
		Initial:  fsm.StateRome,
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
		logger.Error("initial page", slog.Any("reason", err))
	}
	pages.Run(board.Wait)
}
