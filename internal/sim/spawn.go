package sim

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrNoSpawn is returned when no obstacle-free point fits, even after
// dropping the distance constraint. Callers may retry with a new seed.
var ErrNoSpawn = errors.New("no free spawn point")

// SpawnRequest describes where an entity of Size may be placed.
type SpawnRequest struct {
	Bounds   Bounds
	Size     float64 // side of the square clearance box
	Avoid    Vec2    // keep at least MinDist from this point
	MinDist  float64
	Attempts int // per pass; <= 0 means 100
	Blockers []Rect
}

// FindSpawn samples random points in the bounds until one is at least
// MinDist from Avoid and its clearance box touches no obstacle or
// blocker. After Attempts misses it retries once ignoring MinDist
// (the relaxed search), then gives up with ErrNoSpawn.
func FindSpawn(rng *rand.Rand, req SpawnRequest, obstacles []Obstacle) (Vec2, error) {
	n := req.Attempts
	if n <= 0 {
		n = 100
	}
	if p, ok := sampleSpawn(rng, req, obstacles, n, true); ok {
		return p, nil
	}
	if p, ok := sampleSpawn(rng, req, obstacles, n, false); ok {
		return p, nil
	}
	return Vec2{}, fmt.Errorf("%w after %d attempts in %.0fx%.0f area", ErrNoSpawn, 2*n, req.Bounds.Width(), req.Bounds.Height())
}

func sampleSpawn(rng *rand.Rand, req SpawnRequest, obstacles []Obstacle, n int, strict bool) (Vec2, bool) {
	half := req.Size / 2
	b := req.Bounds
	for i := 0; i < n; i++ {
		p := Vec2{
			X: uniform(rng, b.Left+half, b.Right-half),
			Y: uniform(rng, b.Top+half, b.Bottom-half),
		}
		if strict && p.Dist(req.Avoid) < req.MinDist {
			continue
		}
		box := RectCentered(p, req.Size, req.Size)
		if AnyOverlap(box, obstacles) || overlapsAnyRect(box, req.Blockers) {
			continue
		}
		return p, true
	}
	return Vec2{}, false
}

func overlapsAnyRect(r Rect, rs []Rect) bool {
	for _, o := range rs {
		if r.Intersects(o) {
			return true
		}
	}
	return false
}
