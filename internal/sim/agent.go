package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// AgentKind picks the detection and patrol style of an agent.
type AgentKind int

const (
	// KindGuard is axis-locked: it patrols a line and detects by radius
	// or territory.
	KindGuard AgentKind = iota
	// KindRoamer wanders freely and detects by line of sight.
	KindRoamer
)

func (k AgentKind) String() string {
	switch k {
	case KindGuard:
		return "guard"
	case KindRoamer:
		return "roamer"
	default:
		return "unknown"
	}
}

// AgentState is the behaviour state of an agent.
type AgentState int

const (
	StatePatrol    AgentState = iota // patrolling or wandering
	StateChase                       // pursuing a detected player
	StateIntercept                   // chasing a player inside the territory
	StateReturn                      // heading back to the spawn point
)

func (s AgentState) String() string {
	switch s {
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateIntercept:
		return "intercept"
	case StateReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Chasing reports whether s is one of the pursuit states.
func (s AgentState) Chasing() bool {
	return s == StateChase || s == StateIntercept
}

// AgentSpec places one agent in the world.
type AgentSpec struct {
	ID    int
	Kind  AgentKind
	Spawn Vec2

	// Axis-locked guards only. The agent never leaves [AxisMin, AxisMax]
	// along Axis; the perpendicular coordinate stays at Spawn's.
	Axis        Axis
	AxisMin     float64
	AxisMax     float64
	InitialDir  float64 // +1 or -1 along Axis; 0 means +1
	PhaseOffset float64 // seconds added to the first patrol timer

	// Territory, when set, triggers detection regardless of distance.
	Territory *Rect
}

// AgentStats counts notable events over an agent's lifetime.
type AgentStats struct {
	Detections int // Patrol/Return → Chase transitions
	Alerts     int
	Bounces    int
	Returns    int // completed returns to spawn
}

// Agent is an autonomous ghost or guard. It reads the player and the
// world but never mutates them.
type Agent struct {
	ID    int
	Label string
	Kind  AgentKind

	body  Body
	tune  AgentTuning
	spawn Vec2

	axis      Axis
	axisMin   float64
	axisMax   float64
	fixed     float64 // perpendicular coordinate for axis-locked agents
	territory *Rect

	player *Player
	world  *World
	rng    *rand.Rand

	state          AgentState
	velocity       Vec2
	targetVelocity Vec2
	speed          float64
	patrolDir      Vec2
	patrolTime     float64
	changeTime     float64
	waitTimer      float64
	reaction       float64
	acceleration   float64

	lastKnown    Vec2
	hasLastKnown bool
	lastSample   Vec2
	hasSample    bool
	playerVel    Vec2
	intercept    Vec2
	sees         bool

	returnBest  float64 // closest approach to spawn during this return
	returnStall float64 // seconds since returnBest last improved

	alert         Alert
	alertCooldown float64
	wasInTerr     bool

	stats AgentStats
}

// NewAgent builds an agent in StatePatrol. player and world are shared,
// read-only references.
func NewAgent(spec AgentSpec, tune AgentTuning, player *Player, world *World, rng *rand.Rand) *Agent {
	a := &Agent{
		ID:           spec.ID,
		Kind:         spec.Kind,
		tune:         tune,
		player:       player,
		world:        world,
		rng:          rng,
		territory:    spec.Territory,
		state:        StatePatrol,
		speed:        tune.Speed,
		acceleration: 1,
		alert:        NewAlert(tune.AlertDuration),
	}
	switch spec.Kind {
	case KindGuard:
		a.Label = fmt.Sprintf("G%d", spec.ID)
	default:
		a.Label = fmt.Sprintf("R%d", spec.ID)
	}

	spawn := spec.Spawn
	if spec.Kind == KindGuard && spec.Axis != AxisNone {
		a.axis = spec.Axis
		a.axisMin, a.axisMax = spec.AxisMin, spec.AxisMax
		if a.axisMin > a.axisMax {
			a.axisMin, a.axisMax = a.axisMax, a.axisMin
		}
		spawn = spawn.WithComponent(a.axis, clamp(spawn.Component(a.axis), a.axisMin, a.axisMax))
		a.fixed = spawn.Component(perpendicular(a.axis))
		dir := 1.0
		if spec.InitialDir < 0 {
			dir = -1
		}
		a.patrolDir = Vec2{}.WithComponent(a.axis, dir)
	} else {
		a.patrolDir = randomDirection(rng)
	}

	a.spawn = spawn
	a.body = NewBody(spawn, tune.Size, tune.Size, tune.HitboxInset, tune.HitboxInset)
	a.patrolTime = uniform(rng, 0, 2) + spec.PhaseOffset
	a.changeTime = uniform(rng, tune.IntervalMin, tune.IntervalMax)
	if spec.Kind == KindRoamer {
		// Wander timers start fresh so every roamer picks a heading on its own rhythm.
		a.patrolTime = 0
	}
	return a
}

func perpendicular(a Axis) Axis {
	if a == AxisHorizontal {
		return AxisVertical
	}
	return AxisHorizontal
}

// Update runs one tick of sensing, decision and movement.
func (a *Agent) Update(dt float64) {
	dt = ClampDelta(dt)
	if dt == 0 {
		return
	}

	var (
		pp     Vec2
		dist   float64
		inTerr bool
	)
	if a.player != nil {
		pp = a.player.Pos()
		dist = pp.Dist(a.body.Pos)
		inTerr = a.InTerritory(pp)
		if a.hasSample {
			a.playerVel = pp.Sub(a.lastSample).Scale(1 / dt)
		}
		a.lastSample = pp
		a.hasSample = true
	}

	a.updateAlert(inTerr, dt)
	a.updateAcceleration(inTerr, dt)

	// Safe haven: a roamer never pursues a player standing in the win zone.
	if a.Kind == KindRoamer && a.playerInWinZone() {
		a.sees = false
		if a.state != StatePatrol {
			a.state = StatePatrol
			a.waitTimer = 0
		}
		a.wander(dt)
		a.integrate(dt)
		return
	}

	detected := a.player != nil && a.detects(pp, dist, inTerr)
	if detected {
		a.lastKnown = pp
		a.hasLastKnown = true
	}

	switch a.state {
	case StatePatrol:
		if detected {
			a.enterChase(inTerr, true)
		} else {
			a.patrol(dt)
		}
	case StateChase, StateIntercept:
		if !detected {
			a.beginReturn()
			break
		}
		a.state = chaseState(inTerr)
		if a.reaction > 0 {
			// Still reacting: keep whatever motion we had.
			a.reaction -= dt
			break
		}
		a.chase(pp, inTerr)
	case StateReturn:
		if detected {
			a.enterChase(inTerr, false)
			a.chase(pp, inTerr)
		} else if a.returnHome() {
			a.state = StatePatrol
			a.stats.Returns++
		} else if a.returnStalled(dt) {
			a.abandonReturn()
		}
	}

	a.integrate(dt)
}

func chaseState(inTerr bool) AgentState {
	if inTerr {
		return StateIntercept
	}
	return StateChase
}

func (a *Agent) enterChase(inTerr, withDelay bool) {
	a.state = chaseState(inTerr)
	a.stats.Detections++
	a.reaction = 0
	if withDelay {
		a.reaction = uniform(a.rng, a.tune.ReactionMin, a.tune.ReactionMax)
	}
}

// ForgetPlayer drops the last player sample so the next velocity
// estimate does not span a teleport.
func (a *Agent) ForgetPlayer() {
	a.hasSample = false
	a.playerVel = Vec2{}
}

// detects applies the variant's detection rule.
func (a *Agent) detects(pp Vec2, dist float64, inTerr bool) bool {
	switch a.Kind {
	case KindRoamer:
		a.sees = false
		if dist < a.tune.MinChaseDistance || dist > a.tune.MaxChaseDistance {
			return false
		}
		var obstacles []Obstacle
		if a.world != nil {
			obstacles = a.world.Obstacles
		}
		a.sees = CheckLineOfSight(a.body.Pos, pp, obstacles, a.tune.LOSStep)
		return a.sees
	default:
		return dist < a.tune.DetectionRadius || inTerr
	}
}

func (a *Agent) playerInWinZone() bool {
	if a.player == nil || a.world == nil || a.world.WinZone == nil {
		return false
	}
	return a.world.WinZone.Rect.Intersects(a.player.Hitbox())
}

// InTerritory reports whether p lies in the agent's territory.
func (a *Agent) InTerritory(p Vec2) bool {
	return a.territory != nil && a.territory.Contains(p)
}

// CanTag reports whether the agent reaches the player at p: within
// TagRange, or anywhere inside the territory.
func (a *Agent) CanTag(p Vec2) bool {
	return a.body.Pos.Dist(p) <= a.tune.TagRange || a.InTerritory(p)
}

// updateAlert raises the alert on the first tick of a territory entry,
// rate-limited by the cooldown.
func (a *Agent) updateAlert(inTerr bool, dt float64) {
	if inTerr && !a.wasInTerr && a.alertCooldown <= 0 {
		a.alert.Activate()
		a.alertCooldown = a.tune.AlertCooldown
		a.stats.Alerts++
	}
	a.wasInTerr = inTerr
	if a.alertCooldown > 0 {
		a.alertCooldown -= dt
	}
	a.alert.Update(dt)
}

// updateAcceleration eases the chase acceleration toward its target:
// up while the player is in the territory, back to 1 otherwise.
func (a *Agent) updateAcceleration(inTerr bool, dt float64) {
	target, rate := 1.0, a.tune.AccelFallRate
	if inTerr {
		target = math.Max(1, a.tune.TerritoryAcceleration)
		if a.acceleration < target {
			rate = a.tune.AccelRiseRate
		}
	}
	a.acceleration += (target - a.acceleration) * (1 - math.Exp(-rate*dt))
}

// Read-only accessors for renderers and tests.

func (a *Agent) Pos() Vec2 { return a.body.Pos }
func (a *Agent) Spawn() Vec2 { return a.spawn }
func (a *Agent) State() AgentState { return a.state }
func (a *Agent) Velocity() Vec2 { return a.velocity }
func (a *Agent) TargetVelocity() Vec2 { return a.targetVelocity }
func (a *Agent) Hitbox() Rect { return a.body.Hitbox }
func (a *Agent) Render() Rect { return a.body.Render }
func (a *Agent) BoundingBox() Rect { return a.body.Hitbox }
func (a *Agent) Territory() (Rect, bool) { return derefRect(a.territory) }
func (a *Agent) Alert() *Alert { return &a.alert }
func (a *Agent) Intercept() Vec2 { return a.intercept }
func (a *Agent) PlayerVelocity() Vec2 { return a.playerVel }
func (a *Agent) Acceleration() float64 { return a.acceleration }
func (a *Agent) Sees() bool { return a.sees }
func (a *Agent) Stats() AgentStats { return a.stats }
func (a *Agent) Tuning() AgentTuning { return a.tune }
func (a *Agent) Reacting() bool { return a.reaction > 0 }
func (a *Agent) Axis() (Axis, float64, float64) { return a.axis, a.axisMin, a.axisMax }

// LastKnown is the last player position the agent perceived.
func (a *Agent) LastKnown() (Vec2, bool) { return a.lastKnown, a.hasLastKnown }

func derefRect(r *Rect) (Rect, bool) {
	if r == nil {
		return Rect{}, false
	}
	return *r, true
}

// TerritoryBand builds the territory rectangle along a patrol line:
// [min, max] along axis and ±halfWidth around line on the other axis.
func TerritoryBand(axis Axis, line, min, max, halfWidth float64) Rect {
	if axis == AxisVertical {
		return Rect{X: line - halfWidth, Y: min, W: 2 * halfWidth, H: max - min}
	}
	return Rect{X: min, Y: line - halfWidth, W: max - min, H: 2 * halfWidth}
}
