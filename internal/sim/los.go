package sim

import "math"

const (
	// DefaultLOSStep is the spacing between samples along a sight line.
	DefaultLOSStep = 8.0
	// losSampleSize is the side of the square box dropped at each sample.
	losSampleSize = 2.0
)

// CheckLineOfSight reports whether the straight line from a to b is
// clear of obstacles. The line is sampled every step units (the end
// point included) and each sample drops a tiny box; any box
// touching an obstacle breaks the line. step <= 0 uses DefaultLOSStep.
//
// Obstacles the segment cannot reach (slab test against the box grown
// by the sample box) are skipped before sampling.
func CheckLineOfSight[C Collidable](a, b Vec2, obstacles []C, step float64) bool {
	if step <= 0 {
		step = DefaultLOSStep
	}
	half := losSampleSize / 2

	var near []Rect
	for _, ob := range obstacles {
		r := ob.BoundingBox()
		if segmentHitsBox(a, b, r.Inflate(losSampleSize, losSampleSize)) {
			near = append(near, r)
		}
	}
	if len(near) == 0 {
		return true
	}

	dist := a.Dist(b)
	n := int(math.Ceil(dist / step))
	for i := 0; i <= n; i++ {
		t := 1.0
		if n > 0 {
			t = math.Min(float64(i)*step/dist, 1)
		}
		p := a.Lerp(b, t)
		box := Rect{X: p.X - half, Y: p.Y - half, W: losSampleSize, H: losSampleSize}
		for _, r := range near {
			if box.Intersects(r) {
				return false
			}
		}
	}
	return true
}

// segmentHitsBox reports whether the segment a→b enters r.
func segmentHitsBox(a, b Vec2, r Rect) bool {
	_, hit := segmentBoxHitT(a, b, r)
	return hit
}

// segmentBoxHitT returns the first segment parameter t in [0,1] where the
// segment a→b enters r. The bool is false when there is no hit.
func segmentBoxHitT(a, b Vec2, r Rect) (float64, bool) {
	d := b.Sub(a)
	tMin, tMax := 0.0, 1.0

	slab := func(o, dir, lo, hi float64) bool {
		if math.Abs(dir) < 1e-12 {
			return o >= lo && o <= hi
		}
		inv := 1.0 / dir
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		return tMin <= tMax
	}

	if !slab(a.X, d.X, r.Left(), r.Right()) {
		return 0, false
	}
	if !slab(a.Y, d.Y, r.Top(), r.Bottom()) {
		return 0, false
	}
	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}
