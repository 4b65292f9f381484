package tui

import (
	"math"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
)

// cellKind is what a terminal cell shows; later layers overwrite earlier ones.
type cellKind uint8

const (
	cellVoid cellKind = iota
	cellFloor
	cellTerritory
	cellPatrol
	cellZone
	cellGoal
	cellWall
	cellArtifact
	cellAgent
	cellPlayer
)

// Cell is one rasterised terminal cell.
type Cell struct {
	Ch    rune
	Kind  cellKind
	State sim.AgentState // agents only
	Alert bool           // agents only
}

// Frame is the session rasterised onto a cols×rows grid covering the
// camera view.
type Frame struct {
	Cols, Rows int
	Cells      []Cell
}

// At returns the cell at column x, row y.
func (f *Frame) At(x, y int) Cell { return f.Cells[y*f.Cols+x] }

func (f *Frame) set(x, y int, c Cell) { f.Cells[y*f.Cols+x] = c }

// grid maps world coordinates inside the view onto cells.
type grid struct {
	view         sim.Rect
	cellW, cellH float64
	cols, rows   int
}

func (g grid) cell(p sim.Vec2) (int, int, bool) {
	x := int(math.Floor((p.X - g.view.X) / g.cellW))
	y := int(math.Floor((p.Y - g.view.Y) / g.cellH))
	return x, y, x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// span returns the inclusive cell range covered by r, clipped to the grid.
func (g grid) span(r sim.Rect) (x0, y0, x1, y1 int, ok bool) {
	x0 = int(math.Floor((r.Left() - g.view.X) / g.cellW))
	y0 = int(math.Floor((r.Top() - g.view.Y) / g.cellH))
	x1 = int(math.Ceil((r.Right()-g.view.X)/g.cellW)) - 1
	y1 = int(math.Ceil((r.Bottom()-g.view.Y)/g.cellH)) - 1
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, g.cols-1), min(y1, g.rows-1)
	return x0, y0, x1, y1, x0 <= x1 && y0 <= y1
}

func (f *Frame) fill(g grid, r sim.Rect, c Cell) {
	x0, y0, x1, y1, ok := g.span(r)
	if !ok {
		return
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			f.set(x, y, c)
		}
	}
}

func (f *Frame) point(g grid, p sim.Vec2, c Cell) {
	if x, y, ok := g.cell(p); ok {
		f.set(x, y, c)
	}
}

// Rasterize draws the camera's view of s onto a cols×rows grid.
func Rasterize(s *sim.Session, cols, rows int) Frame {
	f := Frame{Cols: cols, Rows: rows}
	if cols <= 0 || rows <= 0 {
		return f
	}
	f.Cells = make([]Cell, cols*rows)
	view := s.Camera.View()
	g := grid{view: view, cellW: view.W / float64(cols), cellH: view.H / float64(rows), cols: cols, rows: rows}

	f.fill(g, s.World.Bounds.Rect(), Cell{Ch: '.', Kind: cellFloor})
	for _, a := range s.Agents {
		if terr, ok := a.Territory(); ok {
			f.fill(g, terr, Cell{Ch: ':', Kind: cellTerritory})
		}
	}
	for _, a := range s.Agents {
		axis, lo, hi := a.Axis()
		if axis == sim.AxisNone {
			continue
		}
		from, to := a.Spawn().WithComponent(axis, lo), a.Spawn().WithComponent(axis, hi)
		ch := '-'
		if axis == sim.AxisVertical {
			ch = '|'
		}
		f.fill(g, rectBetween(from, to), Cell{Ch: ch, Kind: cellPatrol})
	}
	if z := s.World.WinZone; z != nil {
		f.fill(g, z.Rect, Cell{Ch: '+', Kind: cellZone})
	}
	if goal, ok := s.Goal(); ok {
		f.fill(g, goal, Cell{Ch: '=', Kind: cellGoal})
	}
	for _, o := range s.World.Obstacles {
		f.fill(g, o.Rect, Cell{Ch: '#', Kind: cellWall})
	}
	for _, c := range s.Collectibles {
		if !c.Collected {
			f.point(g, c.Rect.Center(), Cell{Ch: '*', Kind: cellArtifact})
		}
	}
	for _, a := range s.Agents {
		ch := []rune(a.Label)[0]
		alert := a.Alert().Active()
		if alert {
			ch = '!'
		}
		f.point(g, a.Pos(), Cell{Ch: ch, Kind: cellAgent, State: a.State(), Alert: alert})
	}
	f.point(g, s.Player.Pos(), Cell{Ch: '@', Kind: cellPlayer})
	return f
}

// rectBetween is the degenerate rect joining two axis-aligned points.
func rectBetween(a, b sim.Vec2) sim.Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	const w = 1e-6
	return sim.Rect{X: x0, Y: y0, W: math.Max(x1-x0, w), H: math.Max(y1-y0, w)}
}
