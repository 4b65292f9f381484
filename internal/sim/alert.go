package sim

import "math"

const (
	alertGrowTime   = 0.2 // seconds of scale-up
	alertGrowRate   = 8.0 // scale units per second while growing
	alertBounceTime = 0.5
	alertBounceFreq = 10.0
	alertBounceAmp  = 3.0
	alertStartScale = 0.1
)

// Alert is the exclamation indicator a guard raises when the player
// steps into its territory. It is pure animation state; drawing is left
// to the renderer.
type Alert struct {
	Duration float64

	active bool
	t      float64
	scale  float64
}

// NewAlert returns an inactive alert that lasts duration seconds once fired.
func NewAlert(duration float64) Alert {
	return Alert{Duration: duration, scale: 1}
}

// Activate restarts the animation from a small scale.
func (a *Alert) Activate() {
	a.active = true
	a.t = 0
	a.scale = alertStartScale
}

// Update advances the animation and expires it after Duration.
func (a *Alert) Update(dt float64) {
	if !a.active {
		return
	}
	a.t += dt
	if a.t < alertGrowTime {
		a.scale = math.Min(1, a.scale+dt*alertGrowRate)
	} else {
		a.scale = 1
	}
	if a.t >= a.Duration {
		a.active = false
	}
}

func (a *Alert) Active() bool { return a.active }
func (a *Alert) Scale() float64 { return a.scale }
func (a *Alert) Elapsed() float64 { return a.t }

// BounceOffset is the vertical wobble applied during the first half second.
func (a *Alert) BounceOffset() float64 {
	if !a.active || a.t >= alertBounceTime {
		return 0
	}
	return math.Sin(a.t*alertBounceFreq) * alertBounceAmp
}
