package sim

import (
	"log/slog"
	"math"
	"math/rand"
)

// Grid is the patintero field: Lines horizontal lines evenly spaced
// between Top and Bottom, spanning Left to Right.
type Grid struct {
	Left, Right float64
	Top, Bottom float64
	Lines       int
	Spacing     float64
}

// LineY returns the y of line i, 0 being the top (goal) line.
func (g Grid) LineY(i int) float64 { return g.Top + g.Spacing*float64(i) }

// CenterX is the x of the middle lane.
func (g Grid) CenterX() float64 { return (g.Left + g.Right) / 2 }

// Rect is the grid's area.
func (g Grid) Rect() Rect { return Rect{X: g.Left, Y: g.Top, W: g.Right - g.Left, H: g.Bottom - g.Top} }

// PatinteroGrid computes the field from the config.
func PatinteroGrid(cfg PatinteroConfig) Grid {
	mx := math.Floor(cfg.ViewportW * cfg.MarginXFrac)
	spacing := math.Floor((cfg.ViewportH - 2*cfg.MarginY) / float64(cfg.Lines-1))
	return Grid{
		Left:    mx,
		Right:   cfg.ViewportW - mx,
		Top:     cfg.MarginY,
		Bottom:  cfg.MarginY + spacing*float64(cfg.Lines-1),
		Lines:   cfg.Lines,
		Spacing: spacing,
	}
}

// NewPatinteroSession lays out the line-guard game: one horizontal guard
// per grid line, an optional vertical guard on the middle lane, and the
// player spawned below the grid with the top line as the goal.
func NewPatinteroSession(cfg PatinteroConfig, seed int64, logger *slog.Logger) *Session {
	s := NewSession(patinteroOptions(cfg, seed, logger)...)
	s.build = func(seed int64) *Session {
		return NewSession(patinteroOptions(cfg, seed, logger)...)
	}
	return s
}

func patinteroOptions(cfg PatinteroConfig, seed int64, logger *slog.Logger) []Option {
	if logger == nil {
		logger = slog.Default()
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- layout randomness
	g := PatinteroGrid(cfg)

	screen := Bounds{Right: cfg.ViewportW, Bottom: cfg.ViewportH}
	area := Bounds{Left: g.Left, Right: g.Right, Top: g.Top, Bottom: cfg.ViewportH - cfg.BottomClearance}
	goal := Rect{X: g.Left, Y: g.Top, W: g.Right - g.Left, H: cfg.GoalTolerance}

	spawnY := math.Min(g.Bottom+cfg.SpawnBelow, area.Bottom-(cfg.Player.Size-cfg.Player.HitboxInset)/2)
	opts := []Option{
		WithScenario(ScenarioPatintero),
		WithSeed(seed),
		WithLogger(logger),
		WithBounds(screen),
		WithPlayerArea(area),
		WithViewport(cfg.ViewportW, cfg.ViewportH, cfg.CameraSmoothing),
		WithRules(Rules{
			StartDelay: cfg.StartDelay,
			Lives:      cfg.Lives,
			Goal:       &goal,
		}),
		WithPlayer(Vec2{g.CenterX(), spawnY}, cfg.Player),
	}

	lo, hi := g.Left+cfg.GuardEdgeMargin, g.Right-cfg.GuardEdgeMargin
	for i := 0; i < cfg.Lines; i++ {
		y := g.LineY(i)
		dir, x := 1.0, lo
		if i%2 == 1 {
			dir, x = -1, hi
		}
		spec := AgentSpec{
			ID:          i,
			Spawn:       Vec2{x, y},
			Axis:        AxisHorizontal,
			AxisMin:     lo,
			AxisMax:     hi,
			InitialDir:  dir,
			PhaseOffset: uniform(rng, 0, cfg.PhaseOffsetMax),
		}
		if cfg.LineTerritory {
			t := TerritoryBand(AxisHorizontal, y, g.Left, g.Right, cfg.TerritoryHalf)
			spec.Territory = &t
		}
		opts = append(opts, WithGuard(spec, cfg.Guard))
	}

	if cfg.VerticalGuard && cfg.Lines >= 3 {
		row := cfg.Lines / 2
		top, bottom := verticalRange(g, cfg, row)
		spec := AgentSpec{
			ID:          cfg.Lines,
			Spawn:       Vec2{g.CenterX(), g.LineY(row)},
			Axis:        AxisVertical,
			AxisMin:     top,
			AxisMax:     bottom,
			InitialDir:  1,
			PhaseOffset: uniform(rng, 0, cfg.PhaseOffsetMax),
		}
		if cfg.CenterTerritory {
			t := TerritoryBand(AxisVertical, g.CenterX(), top, bottom, cfg.TerritoryHalf)
			spec.Territory = &t
		}
		opts = append(opts, WithGuard(spec, cfg.Guard))
	}
	return opts
}

// Vertical guard spans.
const (
	SpanField = "field"
	SpanLane  = "lane"
)

// verticalRange is the y range of the middle-lane guard spawned on line
// row. The field span runs from just under the grid top to just above
// the next line down; the lane span covers the row alone.
func verticalRange(g Grid, cfg PatinteroConfig, row int) (top, bottom float64) {
	if cfg.VerticalSpan == SpanLane {
		return g.LineY(row), g.LineY(row + 1)
	}
	return g.Top + cfg.VerticalMargin, g.LineY(row+1) - cfg.VerticalMargin
}
