package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Garsondee/Patrol-Sense/internal/game"
	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var (
		configPath string
		scenario   string
		seed       int64
		demo       bool
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "", "YAML tuning file overlaid on the built-in defaults")
	flag.StringVar(&scenario, "scenario", "museum", "scenario to start with (museum|patintero)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 = time based)")
	flag.BoolVar(&demo, "demo", false, "let the autopilot play")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := sim.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	sc, err := sim.ParseScenario(scenario)
	if err != nil {
		log.Fatal(err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g, err := game.New(game.Options{Config: cfg, Scenario: sc, Seed: seed, Demo: demo, Logger: logger})
	if err != nil {
		log.Fatal(err)
	}
	w, h := g.Layout(0, 0)
	ebiten.SetWindowTitle("Patrol Sense")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(int(sim.TickRate))
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
