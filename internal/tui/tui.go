// Package tui plays a session in a terminal through tcell.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/gdamore/tcell/v2"
)

// holdTicks is how long one key press keeps a direction held. Terminals
// only report presses, so a held key is a stream of auto-repeats.
const holdTicks = 15

// Options configures an App.
type Options struct {
	Config   sim.Config
	Scenario sim.Scenario
	Seed     int64
	Demo     bool
	Logger   *slog.Logger
}

// App drives one session on a tcell screen.
type App struct {
	screen   tcell.Screen
	cfg      sim.Config
	scenario sim.Scenario
	session  *sim.Session
	logger   *slog.Logger
	seedRng  *rand.Rand

	demo   bool
	pilot  *sim.Autopilot
	held   heldInput
	paused bool
	last   string // most recent event line
}

// New builds an app on an initialised screen.
func New(screen tcell.Screen, o Options) (*App, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		screen:  screen,
		cfg:     o.Config,
		logger:  logger,
		seedRng: rand.New(rand.NewSource(o.Seed)), // #nosec G404 -- restart seeds only
		demo:    o.Demo,
	}
	if err := a.load(o.Scenario, o.Seed); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) load(sc sim.Scenario, seed int64) error {
	s, err := sim.NewScenarioSession(a.cfg, sc, seed, a.logger)
	if err != nil {
		return err
	}
	a.session, a.scenario = s, sc
	a.pilot = sim.NewAutopilot()
	a.held = heldInput{}
	s.Events.OnAdd(func(e sim.Event) { a.last = e.String() })
	s.Events.SetLimit(sim.InteractiveEventLimit)
	return nil
}

// Session exposes the running session.
func (a *App) Session() *sim.Session { return a.session }

// Run ticks the session until ctx is done or the player quits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	tick := float64(sim.FixedDelta)
	ticker := time.NewTicker(time.Duration(tick * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.tick()
			a.draw()
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune(), ev.Modifiers())
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// handleKey applies one key press. Returns false to quit.
func (a *App) handleKey(k tcell.Key, r rune, mod tcell.ModMask) bool {
	sprint := mod&tcell.ModShift != 0
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		a.held.press(0, -1, sprint)
	case tcell.KeyDown:
		a.held.press(0, 1, sprint)
	case tcell.KeyLeft:
		a.held.press(-1, 0, sprint)
	case tcell.KeyRight:
		a.held.press(1, 0, sprint)
	case tcell.KeyTab:
		a.switchScenario()
	case tcell.KeyRune:
		return a.handleRune(r)
	}
	return true
}

func (a *App) handleRune(r rune) bool {
	// Upper-case movement letters sprint.
	switch r {
	case 'q':
		return false
	case 'w', 'W':
		a.held.press(0, -1, r == 'W')
	case 's', 'S':
		a.held.press(0, 1, r == 'S')
	case 'a', 'A':
		a.held.press(-1, 0, r == 'A')
	case 'd', 'D':
		a.held.press(1, 0, r == 'D')
	case 'f', 'F':
		a.held.craft = holdTicks
	case 'r', 'R':
		a.restart()
	case 'p', 'P':
		a.paused = !a.paused
	case 'g', 'G':
		a.demo = !a.demo
		a.pilot = sim.NewAutopilot()
	}
	return true
}

func (a *App) tick() {
	if a.paused {
		return
	}
	in := a.held.next()
	if a.demo {
		in = a.pilot.Next(a.session)
	}
	a.session.Step(in, sim.FixedDelta)
}

func (a *App) restart() {
	seed := a.seedRng.Int63()
	a.session.Reset(seed)
	a.pilot = sim.NewAutopilot()
	a.held = heldInput{}
	a.paused = false
}

func (a *App) switchScenario() {
	all := sim.Scenarios()
	next := all[0]
	for i, sc := range all {
		if sc == a.scenario {
			next = all[(i+1)%len(all)]
		}
	}
	if err := a.load(next, a.seedRng.Int63()); err != nil {
		a.logger.Error("switch scenario", "to", next.String(), "err", err)
		return
	}
	a.paused = false
}

// statusLine is the bottom row text.
func (a *App) statusLine() string {
	s := a.session
	line := fmt.Sprintf(" %s seed=%d t=%.1fs lives=%d", s.Scenario, s.Seed(), s.Elapsed(), s.Lives())
	if n := s.TotalCollectibles(); n > 0 {
		line += fmt.Sprintf(" artifacts=%d/%d", s.Score(), n)
	}
	switch {
	case s.Outcome() != sim.OutcomeRunning:
		line += fmt.Sprintf("  %s! r=restart", s.Outcome())
	case s.Countdown() > 0:
		line += fmt.Sprintf("  starting in %.0f", s.Countdown()+0.5)
	case s.ReadyToCraft():
		line += "  f=craft"
	case a.paused:
		line += "  PAUSED"
	}
	if a.demo {
		line += "  [demo]"
	}
	return line
}

func (a *App) draw() {
	a.screen.Clear()
	cols, rows := a.screen.Size()
	if rows < 2 || cols < 1 {
		a.screen.Show()
		return
	}
	f := Rasterize(a.session, cols, rows-2)
	for y := 0; y < f.Rows; y++ {
		for x := 0; x < f.Cols; x++ {
			c := f.At(x, y)
			if c.Kind == cellVoid {
				continue
			}
			a.screen.SetContent(x, y, c.Ch, nil, cellStyle(c))
		}
	}
	drawString(a.screen, 0, rows-2, a.last, tcell.StyleDefault.Foreground(tcell.ColorGray))
	drawString(a.screen, 0, rows-1, a.statusLine(), tcell.StyleDefault.Reverse(true))
	a.screen.Show()
}

func drawString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func cellStyle(c Cell) tcell.Style {
	st := tcell.StyleDefault
	switch c.Kind {
	case cellFloor:
		return st.Foreground(tcell.ColorDimGray)
	case cellTerritory:
		return st.Foreground(tcell.ColorMaroon)
	case cellPatrol:
		return st.Foreground(tcell.ColorSilver)
	case cellZone:
		return st.Foreground(tcell.ColorGreen)
	case cellGoal:
		return st.Foreground(tcell.ColorYellow)
	case cellWall:
		return st.Foreground(tcell.ColorOlive).Background(tcell.ColorOlive)
	case cellArtifact:
		return st.Foreground(tcell.ColorGold).Bold(true)
	case cellPlayer:
		return st.Foreground(tcell.ColorAqua).Bold(true)
	case cellAgent:
		if c.Alert {
			return st.Foreground(tcell.ColorRed).Bold(true)
		}
		switch c.State {
		case sim.StateChase:
			return st.Foreground(tcell.ColorOrange).Bold(true)
		case sim.StateIntercept:
			return st.Foreground(tcell.ColorRed).Bold(true)
		case sim.StateReturn:
			return st.Foreground(tcell.ColorPurple)
		}
		return st.Foreground(tcell.ColorLightGreen)
	}
	return st
}

// heldInput turns discrete key presses into a held direction that
// decays after holdTicks without a repeat.
type heldInput struct {
	dx, dy int
	tx, ty int
	sprint int
	craft  int
}

func (h *heldInput) press(dx, dy int, sprint bool) {
	if dx != 0 {
		h.dx, h.tx = dx, holdTicks
	}
	if dy != 0 {
		h.dy, h.ty = dy, holdTicks
	}
	if sprint {
		h.sprint = holdTicks
	}
}

// next returns this tick's input and ages every hold by one tick.
func (h *heldInput) next() sim.Input {
	var in sim.Input
	if h.tx > 0 {
		in.DX = h.dx
		h.tx--
	}
	if h.ty > 0 {
		in.DY = h.dy
		h.ty--
	}
	if h.sprint > 0 {
		in.Sprint = true
		h.sprint--
	}
	if h.craft > 0 {
		in.Craft = true
		h.craft--
	}
	return in
}
