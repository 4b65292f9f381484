package sim

import "math"

// Vec2 is a 2D world-space vector. Copy freely.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }
func (v Vec2) Eq(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

// Normalize returns the unit vector in v's direction. A zero-length
// vector normalizes to zero, never NaN.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < 1e-12 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Lerp moves v toward o by fraction t.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Along keeps only the component of v that lies on axis. AxisNone
// returns v unchanged.
func (v Vec2) Along(axis Axis) Vec2 {
	switch axis {
	case AxisHorizontal:
		return Vec2{X: v.X}
	case AxisVertical:
		return Vec2{Y: v.Y}
	default:
		return v
	}
}

// Axis selects a world axis for collision resolution and axis-locked agents.
type Axis int

const (
	AxisNone Axis = iota
	AxisHorizontal
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return "free"
	}
}

// Component returns v's coordinate along a.
func (v Vec2) Component(a Axis) float64 {
	if a == AxisVertical {
		return v.Y
	}
	return v.X
}

// WithComponent returns v with its a-coordinate replaced by c.
func (v Vec2) WithComponent(a Axis, c float64) Vec2 {
	if a == AxisVertical {
		v.Y = c
	} else {
		v.X = c
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// perTick converts a per-60Hz-tick fraction (lerp factor or retention
// factor) to the equivalent for a step of dt seconds.
func perTick(fraction, dt float64) float64 {
	return 1 - math.Pow(1-fraction, dt*TickRate)
}

// retain returns the retention multiplier for a per-tick decay factor
// (e.g. 0.9 keeps 90% each 60Hz tick) over dt seconds.
func retain(factor, dt float64) float64 {
	return math.Pow(factor, dt*TickRate)
}
