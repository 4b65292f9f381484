package game

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

// statusTicks is how long a transient status line stays on screen.
const statusTicks = 180

// Options configures a Game.
type Options struct {
	Config   sim.Config
	Scenario sim.Scenario
	Seed     int64
	Demo     bool // drive the player with the autopilot
	Logger   *slog.Logger
}

// Game is the ebiten frontend over a sim.Session.
type Game struct {
	cfg      sim.Config
	scenario sim.Scenario
	session  *sim.Session
	logger   *slog.Logger
	seedRng  *rand.Rand

	demo  bool
	pilot *sim.Autopilot

	panel   *EventPanel
	fontSrc *text.GoTextFaceSource

	inspector Inspector
	showHUD   bool
	paused    bool

	status    string
	statusTTL int

	// Overridable for tests.
	keys      func() (down, justPressed keyDown)
	click     func() (x, y int, ok bool)
	copyText  func(string) error
	lastInput sim.Input
}

// New builds a game for the chosen scenario.
func New(o Options) (*Game, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("load hud font: %w", err)
	}
	g := &Game{
		cfg:      o.Config,
		scenario: o.Scenario,
		logger:   logger,
		seedRng:  rand.New(rand.NewSource(o.Seed)), // #nosec G404 -- restart seeds only
		demo:     o.Demo,
		pilot:    sim.NewAutopilot(),
		panel:    NewEventPanel(),
		fontSrc:  src,
		showHUD:  true,
		keys:     ebitenKeys,
		click:    mouseClick,
		copyText: clipboard.WriteAll,
	}
	if err := g.load(o.Scenario, o.Seed); err != nil {
		return nil, err
	}
	return g, nil
}

// load replaces the session with a fresh one for sc.
func (g *Game) load(sc sim.Scenario, seed int64) error {
	s, err := sim.NewScenarioSession(g.cfg, sc, seed, g.logger)
	if err != nil {
		return err
	}
	g.session = s
	g.scenario = sc
	g.pilot = sim.NewAutopilot()
	g.panel.Clear()
	s.Events.OnAdd(g.panel.Add)
	s.Events.SetLimit(sim.InteractiveEventLimit)
	g.panel.Note(0, fmt.Sprintf("%s, seed %d", sc, seed))
	return nil
}

// Session exposes the running session.
func (g *Game) Session() *sim.Session { return g.session }

func (g *Game) Update() error {
	down, just := g.keys()
	for _, act := range pressedActions(just) {
		g.apply(act)
	}
	if x, y, ok := g.click(); ok {
		g.handleInspectorClick(x, y)
	}
	if g.statusTTL > 0 {
		g.statusTTL--
	}
	if g.paused {
		return nil
	}
	g.step(movementInput(down))
	return nil
}

// step advances the session one fixed tick. In demo mode the autopilot
// replaces the keyboard.
func (g *Game) step(in sim.Input) {
	if g.demo {
		in = g.pilot.Next(g.session)
	}
	g.lastInput = in
	g.session.Step(in, sim.FixedDelta)
}

func (g *Game) apply(act action) {
	switch act {
	case actRestart:
		g.restart()
	case actSwitchScenario:
		g.switchScenario()
	case actCopyReport:
		g.copyReport()
	case actToggleHUD:
		g.showHUD = !g.showHUD
	case actTogglePause:
		g.paused = !g.paused
	case actToggleInspector:
		g.inspector.rawView = !g.inspector.rawView
	case actToggleDemo:
		g.demo = !g.demo
		g.pilot = sim.NewAutopilot()
		g.setStatus(fmt.Sprintf("demo %s", onOff(g.demo)))
	}
}

func (g *Game) restart() {
	seed := g.seedRng.Int63()
	g.session.Reset(seed)
	g.pilot = sim.NewAutopilot()
	g.panel.Clear()
	g.panel.Note(0, fmt.Sprintf("restart, seed %d", seed))
	g.paused = false
}

func (g *Game) switchScenario() {
	all := sim.Scenarios()
	next := all[0]
	for i, sc := range all {
		if sc == g.scenario {
			next = all[(i+1)%len(all)]
		}
	}
	if err := g.load(next, g.seedRng.Int63()); err != nil {
		g.logger.Error("switch scenario", "to", next.String(), "err", err)
		g.setStatus(err.Error())
		return
	}
	g.paused = false
}

// Report is the text the copy key puts on the clipboard.
func (g *Game) Report() string {
	return g.session.Stats().Markdown() + "\n```\n" + g.session.Summary() + "```\n"
}

func (g *Game) copyReport() {
	if err := g.copyText(g.Report()); err != nil {
		g.logger.Warn("copy report", "err", err)
		g.setStatus("clipboard unavailable")
		return
	}
	g.panel.Note(g.session.Tick(), "report copied")
	g.setStatus("report copied to clipboard")
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTTL = statusTicks
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (g *Game) viewport() (int, int) {
	v := g.session.Viewport()
	return int(v.X), int(v.Y)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 12, B: 16, A: 255})
	vw, vh := g.viewport()
	g.drawWorld(screen)
	g.drawInspector(screen)
	g.panel.Draw(screen, vw, vh)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawBanner(screen)
}

func (g *Game) Layout(_, _ int) (int, int) {
	vw, vh := g.viewport()
	return vw + logPanelWidth, vh
}
