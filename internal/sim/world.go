package sim

import (
	"errors"
	"fmt"
)

// ErrBadBounds is returned by Bounds.Validate for an empty or inverted area.
var ErrBadBounds = errors.New("world bounds must satisfy right > left and bottom > top")

// Bounds is the rectangular play area in world coordinates.
type Bounds struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`

	// WallThickness > 0 makes BorderWalls produce solid walls just
	// outside the area.
	WallThickness float64 `yaml:"wall_thickness"`
}

// BoundsRect builds Bounds covering r.
func BoundsRect(r Rect) Bounds {
	return Bounds{Left: r.Left(), Right: r.Right(), Top: r.Top(), Bottom: r.Bottom()}
}

func (b Bounds) Width() float64 { return b.Right - b.Left }
func (b Bounds) Height() float64 { return b.Bottom - b.Top }
func (b Bounds) Center() Vec2 { return Vec2{(b.Left + b.Right) / 2, (b.Top + b.Bottom) / 2} }
func (b Bounds) Rect() Rect { return Rect{X: b.Left, Y: b.Top, W: b.Width(), H: b.Height()} }

// Validate checks the ordering invariant.
func (b Bounds) Validate() error {
	if b.Right <= b.Left || b.Bottom <= b.Top {
		return fmt.Errorf("%w (got left=%.0f right=%.0f top=%.0f bottom=%.0f)",
			ErrBadBounds, b.Left, b.Right, b.Top, b.Bottom)
	}
	if b.WallThickness < 0 {
		return fmt.Errorf("wall thickness must be >= 0, got %.0f", b.WallThickness)
	}
	return nil
}

// Clamp pulls p inside the area inset by margin on every side. When the
// inset area is empty on an axis the point is pinned to the centre.
func (b Bounds) Clamp(p Vec2, margin float64) Vec2 {
	return Vec2{
		X: clampAxis(p.X, b.Left+margin, b.Right-margin),
		Y: clampAxis(p.Y, b.Top+margin, b.Bottom-margin),
	}
}

func clampAxis(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return clamp(v, lo, hi)
}

// Inset shrinks the area by m on every side.
func (b Bounds) Inset(m float64) Bounds {
	b.Left += m
	b.Right -= m
	b.Top += m
	b.Bottom -= m
	return b
}

// Contains reports whether p lies within the area, edges inclusive.
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y <= b.Bottom
}

// BorderWalls returns four obstacles framing the area from outside.
// Corners are covered by the top and bottom walls.
func (b Bounds) BorderWalls() []Obstacle {
	t := b.WallThickness
	if t <= 0 {
		return nil
	}
	w, h := b.Width(), b.Height()
	return []Obstacle{
		{Rect{X: b.Left - t, Y: b.Top, W: t, H: h}},
		{Rect{X: b.Right, Y: b.Top, W: t, H: h}},
		{Rect{X: b.Left - t, Y: b.Top - t, W: w + 2*t, H: t}},
		{Rect{X: b.Left - t, Y: b.Bottom, W: w + 2*t, H: t}},
	}
}

// World is the static part of a session: area, obstacles and the
// optional safe zone.
type World struct {
	Bounds    Bounds
	Obstacles []Obstacle
	WinZone   *WinZone
}

// Blocked reports whether r overlaps any obstacle.
func (w *World) Blocked(r Rect) bool {
	return AnyOverlap(r, w.Obstacles)
}

// WinZone is a passive trigger area. Roaming agents treat it as a
// safe haven and never wander into it.
type WinZone struct {
	Rect Rect
}

func (z *WinZone) BoundingBox() Rect { return z.Rect }

// Collectible is a passive pickup consumed on player overlap.
type Collectible struct {
	Rect      Rect
	Collected bool
}

func (c *Collectible) BoundingBox() Rect { return c.Rect }
