package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/gdamore/tcell/v2"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// smallSession is a 100×100 world seen whole through a 100×100 viewport,
// so one 10×10 terminal cell covers exactly 10×10 world units.
func smallSession() *sim.Session {
	cfg := sim.DefaultConfig().Patintero
	return sim.NewSession(
		sim.WithLogger(quietLogger()),
		sim.WithBounds(sim.Bounds{Right: 100, Bottom: 100}),
		sim.WithViewport(100, 100, 0),
		sim.WithObstacle(0, 0, 10, 10),
		sim.WithPlayer(sim.V(55, 55), cfg.Player),
		sim.WithGuard(sim.AgentSpec{
			ID: 1, Spawn: sim.V(85, 15),
			Axis: sim.AxisHorizontal, AxisMin: 60, AxisMax: 95,
		}, cfg.Guard),
		sim.WithCollectible(sim.Rect{X: 20, Y: 80, W: 4, H: 4}),
	)
}

func newTestApp(t *testing.T, sc sim.Scenario) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	app, err := New(screen, Options{Config: sim.DefaultConfig(), Scenario: sc, Seed: 5, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app, screen
}

func TestRasterize_PlacesEntities(t *testing.T) {
	f := Rasterize(smallSession(), 10, 10)
	cases := []struct {
		x, y int
		ch   rune
		kind cellKind
	}{
		{0, 0, '#', cellWall},
		{5, 5, '@', cellPlayer},
		{8, 1, 'G', cellAgent},
		{2, 8, '*', cellArtifact},
		{3, 3, '.', cellFloor},
		{6, 1, '-', cellPatrol},
	}
	for _, c := range cases {
		got := f.At(c.x, c.y)
		if got.Ch != c.ch || got.Kind != c.kind {
			t.Errorf("cell (%d,%d) = %q/%d, want %q/%d", c.x, c.y, got.Ch, got.Kind, c.ch, c.kind)
		}
	}
}

func TestRasterize_EmptyGrid(t *testing.T) {
	f := Rasterize(smallSession(), 0, 5)
	if len(f.Cells) != 0 {
		t.Fatalf("expected no cells, got %d", len(f.Cells))
	}
}

func TestHeldInput_DecaysWithoutRepeats(t *testing.T) {
	var h heldInput
	h.press(-1, 0, true)
	h.press(0, 1, false)
	in := h.next()
	if in.DX != -1 || in.DY != 1 || !in.Sprint {
		t.Fatalf("expected held diagonal sprint, got %+v", in)
	}
	for i := 1; i < holdTicks; i++ {
		h.next()
	}
	if in := h.next(); in != (sim.Input{}) {
		t.Fatalf("expected the hold to expire, got %+v", in)
	}
}

func TestApp_KeysMoveThePlayer(t *testing.T) {
	app, _ := newTestApp(t, sim.ScenarioPatintero)
	start := app.Session().Player.Pos()
	for i := 0; i < 10; i++ {
		app.handleKey(tcell.KeyRune, 'a', tcell.ModNone)
		app.tick()
	}
	if app.Session().Player.Pos().X >= start.X {
		t.Fatalf("expected the player to move left from %v, got %v", start, app.Session().Player.Pos())
	}
}

func TestApp_QuitKeys(t *testing.T) {
	app, _ := newTestApp(t, sim.ScenarioPatintero)
	if app.handleKey(tcell.KeyRune, 'q', tcell.ModNone) {
		t.Fatal("expected q to quit")
	}
	if app.handleKey(tcell.KeyEscape, 0, tcell.ModNone) {
		t.Fatal("expected Esc to quit")
	}
	if !app.handleKey(tcell.KeyRune, 'x', tcell.ModNone) {
		t.Fatal("expected an unbound key to keep running")
	}
}

func TestApp_TabAndRestart(t *testing.T) {
	app, _ := newTestApp(t, sim.ScenarioMuseum)
	app.handleKey(tcell.KeyTab, 0, tcell.ModNone)
	if app.Session().Scenario != sim.ScenarioPatintero {
		t.Fatalf("expected patintero after Tab, got %s", app.Session().Scenario)
	}
	for i := 0; i < 5; i++ {
		app.tick()
	}
	seed := app.Session().Seed()
	app.handleKey(tcell.KeyRune, 'r', tcell.ModNone)
	if app.Session().Tick() != 0 || app.Session().Seed() == seed {
		t.Fatalf("expected a fresh session, got tick=%d seed=%d", app.Session().Tick(), app.Session().Seed())
	}
}

func TestApp_PauseHoldsTheClock(t *testing.T) {
	app, _ := newTestApp(t, sim.ScenarioPatintero)
	app.handleKey(tcell.KeyRune, 'p', tcell.ModNone)
	app.tick()
	if app.Session().Tick() != 0 {
		t.Fatalf("expected no ticks while paused, got %d", app.Session().Tick())
	}
	if !strings.Contains(app.statusLine(), "PAUSED") {
		t.Fatalf("status line should say PAUSED: %q", app.statusLine())
	}
}

func TestApp_DrawSmallScreens(t *testing.T) {
	app, screen := newTestApp(t, sim.ScenarioMuseum)
	app.draw()
	screen.SetSize(3, 1)
	app.draw()
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, _ := newTestApp(t, sim.ScenarioPatintero)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if app.Session().Tick() == 0 {
		t.Fatal("expected the ticker to advance the session")
	}
}
