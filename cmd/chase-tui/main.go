package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/Garsondee/Patrol-Sense/internal/tui"
	"github.com/gdamore/tcell/v2"
)

func main() {
	var (
		configPath string
		scenario   string
		seed       int64
		demo       bool
		logPath    string
	)
	flag.StringVar(&configPath, "config", "", "YAML tuning file overlaid on the built-in defaults")
	flag.StringVar(&scenario, "scenario", "patintero", "scenario to start with (museum|patintero)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 = time based)")
	flag.BoolVar(&demo, "demo", false, "let the autopilot play")
	flag.StringVar(&logPath, "log", "", "write logs to this file (the terminal is busy drawing)")
	flag.Parse()

	if err := run(configPath, scenario, seed, demo, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "chase-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, scenario string, seed int64, demo bool, logPath string) error {
	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, nil))

	cfg, err := sim.LoadConfig(configPath)
	if err != nil {
		return err
	}
	sc, err := sim.ParseScenario(scenario)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	app, err := tui.New(screen, tui.Options{Config: cfg, Scenario: sc, Seed: seed, Demo: demo, Logger: logger})
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := app.Run(ctx); err != nil {
		return err
	}
	logger.Info("session closed", "outcome", app.Session().Outcome().String(), "ticks", app.Session().Tick())
	return nil
}
