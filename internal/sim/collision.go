package sim

const crossEps = 1e-9

// ResolveAxis pushes moving out of every obstacle it has just entered
// along axis. An obstacle only blocks when previous was on the near
// side of its facing edge; boxes that were already overlapping (spawned
// touching a wall, or arriving along the other axis) are left alone so
// they can slide free instead of sticking.
func ResolveAxis[C Collidable](moving, previous Rect, obstacles []C, axis Axis) Rect {
	for _, ob := range obstacles {
		o := ob.BoundingBox()
		if !moving.Intersects(o) {
			continue
		}
		switch axis {
		case AxisHorizontal:
			switch {
			case moving.X > previous.X && previous.Right() <= o.Left()+crossEps:
				moving.X = o.Left() - moving.W
			case moving.X < previous.X && previous.Left() >= o.Right()-crossEps:
				moving.X = o.Right()
			}
		case AxisVertical:
			switch {
			case moving.Y > previous.Y && previous.Bottom() <= o.Top()+crossEps:
				moving.Y = o.Top() - moving.H
			case moving.Y < previous.Y && previous.Top() >= o.Bottom()-crossEps:
				moving.Y = o.Bottom()
			}
		}
	}
	return moving
}

// Body is the transform part of an entity: a float position, the visual
// bounds and a (usually smaller) hitbox. Both rects stay centred on Pos.
type Body struct {
	Pos    Vec2
	Render Rect
	Hitbox Rect
}

// NewBody builds a body at pos with a w×h render rect and a hitbox
// shrunk by inset on each axis (e.g. inset 8 turns 24×24 into 16×16).
func NewBody(pos Vec2, w, h, insetW, insetH float64) Body {
	r := RectCentered(pos, w, h)
	return Body{Pos: pos, Render: r, Hitbox: r.Inflate(-insetW, -insetH)}
}

// Place teleports the body to p.
func (b *Body) Place(p Vec2) {
	b.Pos = p
	b.sync()
}

func (b *Body) sync() {
	b.Hitbox = b.Hitbox.WithCenter(b.Pos)
	b.Render = b.Render.WithCenter(b.Pos)
}

// MoveAndCollide moves the body by d, X first then Y, resolving each
// axis against obstacles. Returns which axes were blocked.
func MoveAndCollide[C Collidable](b *Body, d Vec2, obstacles []C) (blockedX, blockedY bool) {
	if d.X != 0 {
		prev := b.Hitbox
		b.Pos.X += d.X
		b.Hitbox = b.Hitbox.WithCenter(b.Pos)
		fixed := ResolveAxis(b.Hitbox, prev, obstacles, AxisHorizontal)
		blockedX = fixed.X != b.Hitbox.X
		b.Hitbox = fixed
		b.Pos.X = fixed.Center().X
	}
	if d.Y != 0 {
		prev := b.Hitbox
		b.Pos.Y += d.Y
		b.Hitbox = b.Hitbox.WithCenter(b.Pos)
		fixed := ResolveAxis(b.Hitbox, prev, obstacles, AxisVertical)
		blockedY = fixed.Y != b.Hitbox.Y
		b.Hitbox = fixed
		b.Pos.Y = fixed.Center().Y
	}
	b.Render = b.Render.WithCenter(b.Pos)
	return blockedX, blockedY
}
