package game

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
)

// fakeKeys is a scripted keyboard: held keys stay down, tapped keys are
// "just pressed" for exactly one Update.
type fakeKeys struct {
	held   map[ebiten.Key]bool
	tapped map[ebiten.Key]bool
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{held: map[ebiten.Key]bool{}, tapped: map[ebiten.Key]bool{}}
}

func (f *fakeKeys) read() (down, justPressed keyDown) {
	tapped := f.tapped
	f.tapped = map[ebiten.Key]bool{}
	return func(k ebiten.Key) bool { return f.held[k] },
		func(k ebiten.Key) bool { return tapped[k] }
}

func newTestGame(t *testing.T, sc sim.Scenario) (*Game, *fakeKeys) {
	t.Helper()
	g, err := New(Options{
		Config:   sim.DefaultConfig(),
		Scenario: sc,
		Seed:     7,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	keys := newFakeKeys()
	g.keys = keys.read
	g.click = func() (int, int, bool) { return 0, 0, false }
	g.copyText = func(string) error { return nil }
	return g, keys
}

func TestEventPanel_RingBufferKeepsNewest(t *testing.T) {
	p := NewEventPanel()
	for i := 0; i < logMaxEntries+5; i++ {
		p.Add(sim.Event{Tick: i})
	}
	if p.Len() != logMaxEntries {
		t.Fatalf("expected %d entries, got %d", logMaxEntries, p.Len())
	}
	got := p.Recent()
	if got[0].Tick != 5 || got[len(got)-1].Tick != logMaxEntries+4 {
		t.Fatalf("expected ticks 5..%d, got %d..%d", logMaxEntries+4, got[0].Tick, got[len(got)-1].Tick)
	}
	p.Clear()
	if p.Len() != 0 || len(p.Recent()) != 0 {
		t.Fatal("expected an empty panel after Clear")
	}
}

func TestPanelLine_FallsBackToKey(t *testing.T) {
	line := panelLine(sim.Event{Tick: 12, Agent: "G1", Category: "alert", Key: "raised"})
	if !strings.Contains(line, "[G1]") || !strings.HasSuffix(line, "raised") {
		t.Fatalf("unexpected line %q", line)
	}
}

func TestMovementInput_OppositeKeysCancel(t *testing.T) {
	held := map[ebiten.Key]bool{ebiten.KeyA: true, ebiten.KeyArrowRight: true, ebiten.KeyW: true, ebiten.KeyShiftLeft: true}
	in := movementInput(func(k ebiten.Key) bool { return held[k] })
	if in.DX != 0 || in.DY != -1 {
		t.Fatalf("expected (0,-1), got (%d,%d)", in.DX, in.DY)
	}
	if !in.Sprint || in.Craft {
		t.Fatalf("expected sprint only, got %+v", in)
	}
}

func TestPressedActions(t *testing.T) {
	tapped := map[ebiten.Key]bool{ebiten.KeyR: true, ebiten.KeyH: true}
	acts := pressedActions(func(k ebiten.Key) bool { return tapped[k] })
	if len(acts) != 2 || acts[0] != actRestart || acts[1] != actToggleHUD {
		t.Fatalf("unexpected actions %v", acts)
	}
}

func TestGame_UpdateStepsSession(t *testing.T) {
	g, keys := newTestGame(t, sim.ScenarioPatintero)
	// Sideways along the spawn row stays out of every guard's reach.
	keys.held[ebiten.KeyA] = true
	start := g.Session().Player.Pos()
	for i := 0; i < 30; i++ {
		if err := g.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if g.Session().Tick() != 30 {
		t.Fatalf("expected 30 ticks, got %d", g.Session().Tick())
	}
	if g.Session().Player.Pos().X >= start.X {
		t.Fatalf("expected the player to move left from %v, got %v", start, g.Session().Player.Pos())
	}
}

func TestGame_PauseStopsTheClock(t *testing.T) {
	g, keys := newTestGame(t, sim.ScenarioPatintero)
	keys.tapped[ebiten.KeyP] = true
	for i := 0; i < 10; i++ {
		_ = g.Update()
	}
	if g.Session().Tick() != 0 {
		t.Fatalf("expected no ticks while paused, got %d", g.Session().Tick())
	}
	keys.tapped[ebiten.KeyP] = true
	_ = g.Update()
	if g.Session().Tick() != 1 {
		t.Fatalf("expected one tick after unpausing, got %d", g.Session().Tick())
	}
}

func TestGame_RestartRebuildsSession(t *testing.T) {
	g, keys := newTestGame(t, sim.ScenarioMuseum)
	for i := 0; i < 20; i++ {
		_ = g.Update()
	}
	oldSeed := g.Session().Seed()
	keys.tapped[ebiten.KeyR] = true
	_ = g.Update()
	s := g.Session()
	if s.Scenario != sim.ScenarioMuseum {
		t.Fatalf("restart changed scenario to %s", s.Scenario)
	}
	if s.Seed() == oldSeed {
		t.Fatalf("expected a fresh seed, still %d", oldSeed)
	}
	if s.Tick() != 1 {
		t.Fatalf("expected the rebuilt session to have run one tick, got %d", s.Tick())
	}
}

func TestGame_TabCyclesScenarios(t *testing.T) {
	g, keys := newTestGame(t, sim.ScenarioMuseum)
	keys.tapped[ebiten.KeyTab] = true
	_ = g.Update()
	if g.Session().Scenario != sim.ScenarioPatintero {
		t.Fatalf("expected patintero, got %s", g.Session().Scenario)
	}
	keys.tapped[ebiten.KeyTab] = true
	_ = g.Update()
	if g.Session().Scenario != sim.ScenarioMuseum {
		t.Fatalf("expected museum, got %s", g.Session().Scenario)
	}
}

func TestGame_EventsReachThePanel(t *testing.T) {
	g, _ := newTestGame(t, sim.ScenarioMuseum)
	delay := sim.DefaultConfig().Museum.StartDelay
	for i := 0; i <= int(delay*sim.TickRate)+2; i++ {
		_ = g.Update()
	}
	found := false
	for _, e := range g.panel.Recent() {
		if e.Category == "session" && e.Key == "start" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the countdown event in the panel, got %d entries", g.panel.Len())
	}
}

func TestGame_CopyReport(t *testing.T) {
	g, keys := newTestGame(t, sim.ScenarioPatintero)
	var copied string
	g.copyText = func(s string) error {
		copied = s
		return nil
	}
	keys.tapped[ebiten.KeyC] = true
	_ = g.Update()
	if !strings.Contains(copied, "patintero run") || !strings.Contains(copied, "Summary at") {
		t.Fatalf("unexpected report:\n%s", copied)
	}

	g.copyText = func(string) error { return errors.New("no clipboard") }
	keys.tapped[ebiten.KeyC] = true
	_ = g.Update()
	if g.status != "clipboard unavailable" {
		t.Fatalf("expected a clipboard failure status, got %q", g.status)
	}
}

func TestGame_DemoDrivesThePlayer(t *testing.T) {
	g, keys := newTestGame(t, sim.ScenarioPatintero)
	keys.tapped[ebiten.KeyG] = true
	start := g.Session().Player.Pos()
	for i := 0; i < 30; i++ {
		_ = g.Update()
	}
	if g.Session().Player.Pos() == start {
		t.Fatal("expected the autopilot to move the player")
	}
}

func TestGame_LayoutAddsPanel(t *testing.T) {
	g, _ := newTestGame(t, sim.ScenarioMuseum)
	w, h := g.Layout(0, 0)
	cfg := sim.DefaultConfig().Museum
	if w != int(cfg.ViewportW)+logPanelWidth || h != int(cfg.ViewportH) {
		t.Fatalf("unexpected layout %dx%d", w, h)
	}
}

func TestPickAgent_NearestWithinRadius(t *testing.T) {
	g, _ := newTestGame(t, sim.ScenarioPatintero)
	a := g.Session().Agents[0]
	if got := pickAgent(g.Session(), a.Pos().Add(sim.V(3, 0)), pickRadius); got != a {
		t.Fatalf("expected %s, got %v", a.Label, got)
	}
	if got := pickAgent(g.Session(), a.Pos().Add(sim.V(pickRadius+1, 0)), 0); got != nil {
		t.Fatalf("expected no pick with a zero radius, got %s", got.Label)
	}
}

func TestGame_ClickSelectsAgent(t *testing.T) {
	g, keys := newTestGame(t, sim.ScenarioPatintero)
	a := g.Session().Agents[0]
	p := g.Session().Camera.PointToScreen(a.Pos())
	g.click = func() (int, int, bool) { return int(p.X), int(p.Y), true }
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if g.selectedAgent() != a {
		t.Fatalf("expected %s selected", a.Label)
	}
	curated := inspectorLines(g.Session(), a, false)
	if !strings.HasPrefix(curated[0], "kind") {
		t.Fatalf("unexpected curated view %q", curated)
	}

	keys.tapped[ebiten.KeyI] = true
	g.click = func() (int, int, bool) { return 0, 0, false }
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if !g.inspector.rawView {
		t.Fatal("expected I to switch to the raw view")
	}
	raw := inspectorLines(g.Session(), a, true)
	if !strings.HasPrefix(raw[0], "pos") {
		t.Fatalf("unexpected raw view %q", raw)
	}

	// Restart swaps every agent, so the old selection goes stale.
	keys.tapped[ebiten.KeyR] = true
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	if g.selectedAgent() != nil {
		t.Fatal("expected the selection to clear after restart")
	}
}

func TestGame_ClickOnPanelIgnored(t *testing.T) {
	g, _ := newTestGame(t, sim.ScenarioPatintero)
	a := g.Session().Agents[0]
	g.inspector.selected = a
	vw, _ := g.viewport()
	g.handleInspectorClick(vw+10, 10)
	if g.inspector.selected != a {
		t.Fatal("a click on the event panel should keep the selection")
	}
}
