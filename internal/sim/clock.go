package sim

import (
	"math"
	"math/rand"
)

const (
	// TickRate is the nominal simulation rate. Per-tick factors in the
	// tuning (lerp smoothing, pause damping) are expressed at this rate.
	TickRate = 60.0
	// FixedDelta is one nominal tick in seconds.
	FixedDelta = 1.0 / TickRate
	// MaxDelta caps a single step so a stalled clock cannot teleport entities.
	MaxDelta = 0.1
)

// ClampDelta sanitises a measured frame delta. Negative and NaN deltas
// become 0 (nothing moves this tick); large ones are capped at MaxDelta.
func ClampDelta(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	if dt > MaxDelta {
		return MaxDelta
	}
	return dt
}

// uniform returns a value in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// randomDirection returns a random unit vector.
func randomDirection(rng *rand.Rand) Vec2 {
	a := rng.Float64() * 2 * math.Pi
	return Vec2{math.Cos(a), math.Sin(a)}
}
