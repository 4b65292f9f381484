package game

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	inspW       = 230
	inspPad     = 4
	inspLineH   = 13
	pickRadius  = 16.0 // screen pixels
	inspMargin  = 8
	inspMaxRows = 16
)

// Inspector holds the selected agent and view toggle state.
type Inspector struct {
	selected *sim.Agent
	rawView  bool // false = curated, true = raw dump
}

// pickAgent returns the agent closest to world point p within radius.
func pickAgent(s *sim.Session, p sim.Vec2, radius float64) *sim.Agent {
	var hit *sim.Agent
	best := radius
	for _, a := range s.Agents {
		if d := a.Pos().Dist(p); d <= best {
			best, hit = d, a
		}
	}
	return hit
}

// mouseClick reports a left click this tick, in screen pixels.
func mouseClick() (int, int, bool) {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return 0, 0, false
	}
	x, y := ebiten.CursorPosition()
	return x, y, true
}

// handleInspectorClick selects the agent under a click on the
// playfield, or clears the selection on empty ground.
func (g *Game) handleInspectorClick(mx, my int) {
	vw, _ := g.viewport()
	if mx >= vw {
		return
	}
	world := g.session.Camera.ToWorld(sim.V(float64(mx), float64(my)))
	g.inspector.selected = pickAgent(g.session, world, pickRadius)
}

// selectedAgent drops a selection that no longer belongs to the session
// (restart, scenario switch, caught roamer removed).
func (g *Game) selectedAgent() *sim.Agent {
	a := g.inspector.selected
	if a != nil && !slices.Contains(g.session.Agents, a) {
		g.inspector.selected = nil
		return nil
	}
	return a
}

func inspectorLines(s *sim.Session, a *sim.Agent, raw bool) []string {
	pp := s.Player.Pos()
	if raw {
		pos, vel, tv := a.Pos(), a.Velocity(), a.TargetVelocity()
		ip, pv := a.Intercept(), a.PlayerVelocity()
		st := a.Stats()
		axis, lo, hi := a.Axis()
		lines := []string{
			fmt.Sprintf("pos     (%.1f, %.1f)", pos.X, pos.Y),
			fmt.Sprintf("vel     (%.1f, %.1f)", vel.X, vel.Y),
			fmt.Sprintf("target  (%.1f, %.1f)", tv.X, tv.Y),
			fmt.Sprintf("icept   (%.1f, %.1f)", ip.X, ip.Y),
			fmt.Sprintf("p.vel   (%.1f, %.1f)", pv.X, pv.Y),
			fmt.Sprintf("axis    %s [%.0f, %.0f]", axis, lo, hi),
			fmt.Sprintf("accel   %.2f", a.Acceleration()),
			fmt.Sprintf("det=%d alert=%d ret=%d bnc=%d", st.Detections, st.Alerts, st.Returns, st.Bounces),
		}
		if lk, ok := a.LastKnown(); ok {
			lines = append(lines, fmt.Sprintf("last    (%.1f, %.1f)", lk.X, lk.Y))
		}
		return lines
	}

	lines := []string{
		fmt.Sprintf("kind    %s", a.Kind),
		fmt.Sprintf("state   %s", a.State()),
		fmt.Sprintf("player  %.0f px", a.Pos().Dist(pp)),
		fmt.Sprintf("sees    %v", a.Sees()),
		fmt.Sprintf("react   %v", a.Reacting()),
	}
	if _, ok := a.Territory(); ok {
		lines = append(lines, fmt.Sprintf("in terr %v", a.InTerritory(pp)))
	}
	if a.Alert().Active() {
		lines = append(lines, "ALERT")
	}
	if a.CanTag(pp) {
		lines = append(lines, "can tag player")
	}
	return lines
}

// drawInspector renders the selected agent's panel in the top-right
// corner of the playfield and rings the agent.
func (g *Game) drawInspector(screen *ebiten.Image) {
	a := g.selectedAgent()
	if a == nil {
		return
	}
	strokeRect(screen, g.session.Camera.ToScreen(a.Render().Inflate(6, 6)), 1, color.RGBA{R: 255, G: 255, B: 255, A: 200})

	lines := inspectorLines(g.session, a, g.inspector.rawView)
	if len(lines) > inspMaxRows {
		lines = lines[:inspMaxRows]
	}
	vw, _ := g.viewport()
	x := float32(vw - inspW - inspMargin)
	y := float32(inspMargin)
	h := float32((len(lines)+2)*inspLineH + 2*inspPad)

	border := color.RGBA{R: 70, G: 80, B: 110, A: 255}
	vector.FillRect(screen, x, y, inspW, h, color.RGBA{R: 12, G: 14, B: 20, A: 230}, false)
	vector.StrokeRect(screen, x, y, inspW, h, 1, border, false)

	view := "CURATED"
	if g.inspector.rawView {
		view = "RAW"
	}
	lx, ly := int(x)+inspPad, int(y)+inspPad
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("[ %s ]  %s  [I]", a.Label, view), lx, ly)
	ly += inspLineH + 2
	vector.StrokeLine(screen, float32(lx), float32(ly), x+inspW-inspPad, float32(ly), 1, border, false)
	ly += 4
	for _, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, lx, ly)
		ly += inspLineH
	}
}
