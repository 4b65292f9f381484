package game

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colFloor      = color.RGBA{R: 34, G: 38, B: 44, A: 255}
	colObstacle   = color.RGBA{R: 92, G: 84, B: 72, A: 255}
	colWinZone    = color.RGBA{R: 60, G: 150, B: 90, A: 110}
	colGoal       = color.RGBA{R: 240, G: 210, B: 80, A: 120}
	colPatrolLine = color.RGBA{R: 200, G: 200, B: 210, A: 90}
	colTerritory  = color.RGBA{R: 220, G: 60, B: 60, A: 40}
	colArtifact   = color.RGBA{R: 240, G: 200, B: 60, A: 255}
	colPlayer     = color.RGBA{R: 90, G: 170, B: 250, A: 255}
	colPlayerHit  = color.RGBA{R: 200, G: 230, B: 255, A: 255}
	colAlert      = color.RGBA{R: 255, G: 60, B: 40, A: 255}
	colHUDText    = color.RGBA{R: 220, G: 225, B: 230, A: 255}
)

// stateColor maps an agent state to its body colour.
func stateColor(s sim.AgentState) color.RGBA {
	switch s {
	case sim.StateChase:
		return color.RGBA{R: 235, G: 120, B: 40, A: 255}
	case sim.StateIntercept:
		return color.RGBA{R: 235, G: 50, B: 50, A: 255}
	case sim.StateReturn:
		return color.RGBA{R: 170, G: 140, B: 220, A: 255}
	default:
		return color.RGBA{R: 150, G: 200, B: 160, A: 255}
	}
}

func fillRect(dst *ebiten.Image, r sim.Rect, c color.Color) {
	vector.FillRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, false)
}

func strokeRect(dst *ebiten.Image, r sim.Rect, width float32, c color.Color) {
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), width, c, false)
}

func (g *Game) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: g.fontSrc, Size: size}
}

func (g *Game) drawText(dst *ebiten.Image, s string, x, y, size float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.LineSpacing = size * 1.25
	text.Draw(dst, s, g.face(size), op)
}

// drawWorld renders every entity at its world rect shifted by the camera
// offset. Anything outside the view is skipped.
func (g *Game) drawWorld(screen *ebiten.Image) {
	s := g.session
	cam := s.Camera

	fillRect(screen, cam.ToScreen(s.World.Bounds.Rect()), colFloor)
	for _, o := range s.World.Obstacles {
		if cam.Visible(o.Rect) {
			fillRect(screen, cam.ToScreen(o.Rect), colObstacle)
		}
	}
	if z := s.World.WinZone; z != nil && cam.Visible(z.Rect) {
		r := cam.ToScreen(z.Rect)
		fillRect(screen, r, colWinZone)
		strokeRect(screen, r, 2, colWinZone)
	}
	if goal, ok := s.Goal(); ok {
		fillRect(screen, cam.ToScreen(goal), colGoal)
	}

	for _, a := range s.Agents {
		g.drawPatrol(screen, a)
	}
	for _, c := range s.Collectibles {
		if !c.Collected && cam.Visible(c.Rect) {
			fillRect(screen, cam.ToScreen(c.Rect), colArtifact)
		}
	}
	for _, a := range s.Agents {
		g.drawAgent(screen, a)
	}

	p := s.Player
	fillRect(screen, cam.ToScreen(p.Render()), colPlayer)
	strokeRect(screen, cam.ToScreen(p.Hitbox()), 1, colPlayerHit)
}

// drawPatrol draws the patrol line and territory band of axis-locked agents.
func (g *Game) drawPatrol(screen *ebiten.Image, a *sim.Agent) {
	cam := g.session.Camera
	if terr, ok := a.Territory(); ok && cam.Visible(terr) {
		fillRect(screen, cam.ToScreen(terr), colTerritory)
	}
	axis, lo, hi := a.Axis()
	if axis == sim.AxisNone {
		return
	}
	from := a.Spawn().WithComponent(axis, lo)
	to := a.Spawn().WithComponent(axis, hi)
	f, t := cam.PointToScreen(from), cam.PointToScreen(to)
	vector.StrokeLine(screen, float32(f.X), float32(f.Y), float32(t.X), float32(t.Y), 2, colPatrolLine, false)
}

func (g *Game) drawAgent(screen *ebiten.Image, a *sim.Agent) {
	cam := g.session.Camera
	if !cam.Visible(a.Render()) {
		return
	}
	r := cam.ToScreen(a.Render())
	fillRect(screen, r, stateColor(a.State()))
	if a.Sees() {
		strokeRect(screen, r, 2, colAlert)
	}

	if al := a.Alert(); al.Active() {
		size := 28 * al.Scale()
		c := r.Center()
		x := c.X - size*0.3
		y := r.Y - size - 6 + al.BounceOffset()
		g.drawText(screen, "!", x, y, size, colAlert)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.session
	lines := []string{
		fmt.Sprintf("%s  seed %d  t=%.1fs", s.Scenario, s.Seed(), s.Elapsed()),
	}
	if n := s.TotalCollectibles(); n > 0 {
		lines = append(lines, fmt.Sprintf("artifacts %d/%d", s.Score(), n))
	}
	lines = append(lines, fmt.Sprintf("lives %d  catches %d", s.Lives(), s.Catches()))
	if s.ReadyToCraft() {
		lines = append(lines, "press F to craft the charm")
	}
	if g.demo {
		lines = append(lines, "DEMO (G to take over)")
	}
	if g.paused {
		lines = append(lines, "PAUSED")
	}
	lines = append(lines, "WASD/arrows move  shift sprint", "R restart  Tab scenario  C copy  H hud  P pause",
		"G demo  click an agent to inspect, I raw")

	const size, pad = 14.0, 6.0
	boxH := float64(len(lines))*size*1.25 + 2*pad
	fillRect(screen, sim.Rect{X: 4, Y: 4, W: 420, H: boxH + 14}, color.RGBA{R: 6, G: 8, B: 12, A: 200})
	for i, l := range lines {
		g.drawText(screen, l, 4+pad, 4+pad+float64(i)*size*1.25, size, colHUDText)
	}

	if p := s.Player; p.Exhausted() || (p.StaminaFrac() > 0 && p.StaminaFrac() < 1) {
		bar := sim.Rect{X: 4 + pad, Y: 4 + boxH, W: 200, H: 6}
		fillRect(screen, bar, color.RGBA{R: 40, G: 40, B: 48, A: 255})
		bar.W *= p.StaminaFrac()
		c := color.RGBA{R: 90, G: 210, B: 120, A: 255}
		if p.Exhausted() {
			c = color.RGBA{R: 210, G: 90, B: 60, A: 255}
		}
		fillRect(screen, bar, c)
	}
}

// drawBanner shows the countdown, the outcome and transient status.
func (g *Game) drawBanner(screen *ebiten.Image) {
	s := g.session
	vw, vh := g.viewport()
	var msg string
	switch {
	case s.Outcome() == sim.OutcomeWon:
		msg = "YOU WIN  (R to play again)"
	case s.Outcome() == sim.OutcomeLost:
		msg = "CAUGHT  (R to try again)"
	case s.Countdown() > 0:
		msg = fmt.Sprintf("%d", int(s.Countdown())+1)
	}
	if msg != "" {
		const size = 40.0
		w, _ := text.Measure(msg, g.face(size), 0)
		g.drawText(screen, msg, (float64(vw)-w)/2, float64(vh)/2-size, size, colHUDText)
	}
	if g.statusTTL > 0 && g.status != "" {
		g.drawText(screen, g.status, 10, float64(vh)-28, 14, colHUDText)
	}
}
