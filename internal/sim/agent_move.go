package sim

import "math"

// patrol runs the guard oscillation or the roamer wander.
func (a *Agent) patrol(dt float64) {
	if a.Kind == KindRoamer {
		a.wander(dt)
		return
	}

	a.patrolTime += dt
	if a.patrolTime >= a.changeTime {
		if a.rng.Float64() < a.tune.PauseChance {
			a.waitTimer = uniform(a.rng, a.tune.PauseMin, a.tune.PauseMax)
			a.targetVelocity = Vec2{}
		} else {
			a.patrolDir = a.patrolDir.Scale(-1)
			j := a.tune.SpeedJitter
			a.speed = a.tune.Speed * uniform(a.rng, 1-j, 1+j)
		}
		a.patrolTime = 0
		a.changeTime = uniform(a.rng, a.tune.IntervalMin, a.tune.IntervalMax)
	}

	if a.waitTimer > 0 {
		a.waitTimer -= dt
		a.targetVelocity = a.targetVelocity.Scale(retain(a.tune.PauseDamping, dt))
		return
	}
	a.targetVelocity = a.patrolDir.Scale(a.speed)
}

// wander re-rolls a random heading on a 2–3s rhythm, sometimes pausing.
func (a *Agent) wander(dt float64) {
	a.patrolTime += dt
	if a.patrolTime >= a.changeTime {
		if a.rng.Float64() < a.tune.PauseChance {
			a.waitTimer = uniform(a.rng, a.tune.PauseMin, a.tune.PauseMax)
		} else {
			a.patrolDir = randomDirection(a.rng)
			j := a.tune.SpeedJitter
			a.speed = a.tune.Speed * uniform(a.rng, 1-j, 1+j)
		}
		a.patrolTime = 0
		a.changeTime = uniform(a.rng, a.tune.IntervalMin, a.tune.IntervalMax)
	}

	if a.waitTimer > 0 {
		a.waitTimer -= dt
		a.targetVelocity = a.targetVelocity.Scale(retain(a.tune.PauseDamping, dt))
		return
	}
	a.targetVelocity = a.patrolDir.Scale(a.speed)
}

// PredictIntercept extrapolates where a target at pos moving with vel
// will be, factor seconds ahead.
func PredictIntercept(pos, vel Vec2, factor float64) Vec2 {
	return pos.Add(vel.Scale(factor))
}

// chase steers toward the predicted intercept point rather than the
// player's current position. Axis-locked agents only pursue along their axis.
func (a *Agent) chase(pp Vec2, inTerr bool) {
	factor, mult := a.tune.PredictionFactor, a.tune.ChaseMultiplier
	if inTerr {
		factor, mult = a.tune.TerritoryPredictionFactor, a.tune.TerritoryChaseMultiplier
	}

	dir := pp.Sub(a.body.Pos).Along(a.axis)
	a.intercept = PredictIntercept(pp, a.playerVel, factor)

	// The far-intercept boost is for horizontal line guards only.
	if inTerr && a.axis == AxisHorizontal {
		patrolRange := a.axisMax - a.axisMin
		gap := math.Abs(a.body.Pos.Component(a.axis) - a.intercept.Component(a.axis))
		if gap > patrolRange/2 {
			a.acceleration = math.Max(a.acceleration, a.tune.FarInterceptBoost)
		}
	}

	if toI := a.intercept.Sub(a.body.Pos).Along(a.axis); !toI.IsZero() {
		dir = toI
	}
	if dir.IsZero() {
		return
	}
	a.targetVelocity = dir.Normalize().Scale(a.speed * mult * a.acceleration)
}

// returnHome steers back to spawn. Reports true once within
// ReturnEpsilon, snapping onto the spawn point.
func (a *Agent) returnHome() bool {
	to := a.spawn.Sub(a.body.Pos)
	if to.Len() < a.tune.ReturnEpsilon {
		a.body.Place(a.spawn)
		a.velocity = Vec2{}
		a.targetVelocity = Vec2{}
		return true
	}
	if d := to.Along(a.axis); !d.IsZero() {
		a.targetVelocity = d.Normalize().Scale(a.tune.Speed)
	}
	return false
}

// returnProgress is the ground a return must gain to count as moving.
const returnProgress = 1.0

func (a *Agent) beginReturn() {
	a.state = StateReturn
	a.returnBest = a.body.Pos.Dist(a.spawn)
	a.returnStall = 0
}

// returnStalled reports whether the return has made no progress toward
// spawn for ReturnGiveUp seconds, e.g. a roamer pinned against a block
// that lies between it and its spawn.
func (a *Agent) returnStalled(dt float64) bool {
	if a.tune.ReturnGiveUp <= 0 {
		return false
	}
	if d := a.body.Pos.Dist(a.spawn); d < a.returnBest-returnProgress {
		a.returnBest, a.returnStall = d, 0
		return false
	}
	a.returnStall += dt
	return a.returnStall >= a.tune.ReturnGiveUp
}

// abandonReturn resumes patrolling from the current position with a
// fresh heading and rhythm.
func (a *Agent) abandonReturn() {
	a.state = StatePatrol
	a.waitTimer = 0
	a.patrolTime = 0
	a.changeTime = uniform(a.rng, a.tune.IntervalMin, a.tune.IntervalMax)
	if a.axis == AxisNone {
		a.patrolDir = randomDirection(a.rng)
	}
	a.targetVelocity = a.patrolDir.Scale(a.speed)
}

// integrate eases velocity toward the target and moves the agent.
func (a *Agent) integrate(dt float64) {
	a.velocity = a.velocity.Lerp(a.targetVelocity, perTick(a.tune.Smoothing, dt))
	step := a.velocity.Scale(dt)

	if a.axis != AxisNone {
		a.moveOnAxis(step)
		return
	}

	if a.world == nil {
		a.body.Place(a.body.Pos.Add(step))
		return
	}
	blockers := a.world.Obstacles
	if a.world.WinZone != nil {
		blockers = append(blockers[:len(blockers):len(blockers)], Obstacle{a.world.WinZone.Rect})
	}
	bx, by := MoveAndCollide(&a.body, step, blockers)
	if bx {
		a.velocity.X = 0
	}
	if by {
		a.velocity.Y = 0
	}
	if (bx || by) && a.state == StatePatrol {
		a.deflect(bx, by)
	}

	half := a.body.Hitbox.W / 2
	if p := a.world.Bounds.Clamp(a.body.Pos, half); p != a.body.Pos {
		a.body.Place(p)
		if a.state == StatePatrol {
			a.deflect(true, true)
		}
	}
}

// deflect turns a wandering roamer away from whatever stopped it.
func (a *Agent) deflect(bx, by bool) {
	if bx {
		a.patrolDir.X = -a.patrolDir.X
	}
	if by {
		a.patrolDir.Y = -a.patrolDir.Y
	}
	if a.patrolDir.IsZero() {
		a.patrolDir = randomDirection(a.rng)
	}
	a.targetVelocity = a.patrolDir.Scale(a.speed)
}

// moveOnAxis moves an axis-locked agent. A step that would leave
// [axisMin, axisMax] is refused and the patrol turns back inward.
func (a *Agent) moveOnAxis(step Vec2) {
	c := a.body.Pos.Component(a.axis) + step.Component(a.axis)
	pos := a.body.Pos
	if c >= a.axisMin && c <= a.axisMax {
		pos = pos.WithComponent(a.axis, c)
	} else {
		inward := 1.0
		if c > a.axisMax {
			inward = -1
		}
		a.patrolDir = Vec2{}.WithComponent(a.axis, inward)
		a.velocity = a.velocity.WithComponent(a.axis, 0)
		a.targetVelocity = a.patrolDir.Scale(a.speed)
		a.stats.Bounces++
	}
	pos = pos.WithComponent(perpendicular(a.axis), a.fixed)
	a.body.Place(pos)
}
