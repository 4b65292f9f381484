package sim

// ComputeOffset returns the world→screen translation that centres target
// in a viewport of the given size, clamped per axis so the view never
// shows area outside b. When the viewport is larger than the world on an
// axis, the world's min edge is pinned to the screen's min edge.
func ComputeOffset(target, viewport Vec2, b Bounds) Vec2 {
	return Vec2{
		X: offsetAxis(target.X, viewport.X, b.Left, b.Right),
		Y: offsetAxis(target.Y, viewport.Y, b.Top, b.Bottom),
	}
}

func offsetAxis(target, view, lo, hi float64) float64 {
	d := -(target - view/2)
	if d < -(hi - view) {
		d = -(hi - view)
	}
	if d > -lo {
		d = -lo
	}
	return d
}

// Camera follows a target inside fixed bounds. With Smoothing > 0 the
// offset eases toward the clamped goal instead of snapping; since both
// ends of the lerp are clamped, so is every intermediate offset.
type Camera struct {
	Viewport  Vec2
	Bounds    Bounds
	Smoothing float64 // per 60Hz tick, 0 snaps

	offset Vec2
	primed bool
}

// NewCamera builds a camera for a viewport of w×h.
func NewCamera(w, h float64, b Bounds, smoothing float64) *Camera {
	return &Camera{Viewport: Vec2{w, h}, Bounds: b, Smoothing: smoothing}
}

// Follow recomputes the offset for target and returns it.
func (c *Camera) Follow(target Vec2, dt float64) Vec2 {
	goal := ComputeOffset(target, c.Viewport, c.Bounds)
	if c.Smoothing > 0 && c.primed {
		c.offset = c.offset.Lerp(goal, perTick(c.Smoothing, ClampDelta(dt)))
	} else {
		c.offset = goal
	}
	c.primed = true
	return c.offset
}

// Snap jumps straight to the goal offset on the next Follow.
func (c *Camera) Snap() { c.primed = false }

// Offset is the last computed translation.
func (c *Camera) Offset() Vec2 { return c.offset }

// ToScreen translates a world rect into screen space.
func (c *Camera) ToScreen(r Rect) Rect { return r.Translate(c.offset) }

// PointToScreen translates a world point into screen space.
func (c *Camera) PointToScreen(p Vec2) Vec2 { return p.Add(c.offset) }

// ToWorld maps a screen point back into the world.
func (c *Camera) ToWorld(p Vec2) Vec2 { return p.Sub(c.offset) }

// View is the world-space rectangle currently on screen.
func (c *Camera) View() Rect {
	return Rect{X: -c.offset.X, Y: -c.offset.Y, W: c.Viewport.X, H: c.Viewport.Y}
}

// Visible reports whether r overlaps the current view, for culling.
func (c *Camera) Visible(r Rect) bool { return c.View().Intersects(r) }
