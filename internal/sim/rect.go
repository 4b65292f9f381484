package sim

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// RectCentered builds a w×h rect centred on c.
func RectCentered(c Vec2, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

func (r Rect) Left() float64 { return r.X }
func (r Rect) Right() float64 { return r.X + r.W }
func (r Rect) Top() float64 { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }
func (r Rect) Center() Vec2 { return Vec2{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) TopLeft() Vec2 { return Vec2{r.X, r.Y} }

// WithCenter returns r moved so its centre is c.
func (r Rect) WithCenter(c Vec2) Rect {
	r.X = c.X - r.W/2
	r.Y = c.Y - r.H/2
	return r
}

// Translate returns r shifted by d.
func (r Rect) Translate(d Vec2) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Inflate grows r by dw/dh in total, keeping the centre. Negative values shrink.
func (r Rect) Inflate(dw, dh float64) Rect {
	c := r.Center()
	r.W += dw
	r.H += dh
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r.WithCenter(c)
}

// Intersects reports strict overlap. Touching edges do not overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Contains reports whether p lies inside r, edges inclusive.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Collidable is anything that takes part in overlap and blocking tests.
type Collidable interface {
	BoundingBox() Rect
}

// Obstacle is a static blocking rectangle. It never moves once the
// world is built.
type Obstacle struct {
	Rect Rect
}

func (o Obstacle) BoundingBox() Rect { return o.Rect }

// Overlapping returns the collidables whose boxes intersect r.
func Overlapping[C Collidable](r Rect, cs []C) []C {
	var out []C
	for _, c := range cs {
		if c.BoundingBox().Intersects(r) {
			out = append(out, c)
		}
	}
	return out
}

// AnyOverlap reports whether r intersects any collidable.
func AnyOverlap[C Collidable](r Rect, cs []C) bool {
	for _, c := range cs {
		if c.BoundingBox().Intersects(r) {
			return true
		}
	}
	return false
}
