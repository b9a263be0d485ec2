//go:build !tinygo

// Command lcdsim runs the weather pages on the desktop. Keys 1 and 2 (or the
// right and left arrows) stand in for the board buttons; Escape quits.
//
//	go run ./cmd/lcdsim -variant room -room-f 71.6
//	go run ./cmd/lcdsim -headless -events 1,1,1,2
package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lmittmann/tint"

	"github.com/harveysanders/picoweather/cmd/lcdsim/sim"
	"github.com/harveysanders/picoweather/fsm"
)

type game struct {
	sim *sim.Simulator
	log *slog.Logger
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) || inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.post(fsm.EventButton1)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) || inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.post(fsm.EventButton2)
	}
	// Every frame is a wake-up, pressed or not.
	if err := g.sim.Tick(); err != nil {
		g.log.Error("render", slog.Any("reason", err))
	}
	return nil
}

func (g *game) post(ev fsm.Event) {
	if g.sim.Events.Post(ev) {
		g.log.Warn("press lost", slog.String("event", ev.String()))
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.sim.FB.Pix())
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return sim.Width, sim.Height
}

func main() {
	var (
		variant  string
		roomF    float64
		headless bool
		script   string
		scale    int
		debug    bool
	)
	flag.StringVar(&variant, "variant", string(sim.VariantRoom), "Program to simulate: cities or room.")
	flag.Float64Var(&roomF, "room-f", 70.7, "Simulated room temperature in Fahrenheit.")
	flag.BoolVar(&headless, "headless", false, "Run without a window, replaying -events.")
	flag.StringVar(&script, "events", "", "Comma separated button presses for -headless, e.g. 1,1,2.")
	flag.IntVar(&scale, "scale", 4, "Window scale factor.")
	flag.BoolVar(&debug, "debug", false, "Log at debug level.")
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	s, err := sim.New(sim.Variant(variant), sim.FixedSensor(roomF), logger)
	if err != nil {
		logger.Error("start", slog.Any("reason", err))
		os.Exit(1)
	}

	if headless {
		events, err := sim.ParseEvents(script)
		if err == nil {
			err = s.Play(events)
		}
		if err != nil {
			logger.Error("replay", slog.Any("reason", err))
			os.Exit(1)
		}
		return
	}

	ebiten.SetWindowSize(sim.Width*scale, sim.Height*scale)
	ebiten.SetWindowTitle("picoweather " + variant)
	err = ebiten.RunGame(&game{sim: s, log: logger})
	if err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("window", slog.Any("reason", err))
		os.Exit(1)
	}
}
