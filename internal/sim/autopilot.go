package sim

import (
	"math"
	"slices"
)

// Autopilot is a scripted input collaborator used by the headless
// reporter and the frontends' demo mode.
//
// With a goal it runs the lines: it holds between two guard lines, out
// of reach of both, and crosses the next line only when a pessimistic
// forward model of every guard says the crossing stays clear. A guard
// that locks on from above is shaken off by dropping back a line.
//
// Without a goal it collects: each tick it plays every keyboard
// direction a short way ahead against the same agent model and keeps
// the one that best trades progress toward the next artifact against
// how close the agents could get. Blocks are routed around by their
// corners.
//
// It keeps per-session state, so use one Autopilot per session.
type Autopilot struct {
	Margin  float64 // clearance kept beyond an agent's tag reach
	Horizon int     // ticks a crossing is looked ahead
	Sprint  bool    // sprint while an agent is close

	// line running
	crossing   bool
	cross      Input
	crossUp    bool
	crossLine  float64
	crossReach float64
	exitY      float64
	crossTicks int
	laneX      float64
	hasLane    bool
	lockTicks  int

	// collecting
	target     int
	bestDist   float64
	idle       int
	banned     map[int]int // collectible index → tick the ban lifts
	lastPos    Vec2
	stuckTicks int
	detour     Input
	detourLeft int
	detourSide int
	walls      []Rect
	wallsFor   *Session
}

const (
	holdSlack     = 3.0 // px either side of a hold point that count as there
	holdGap       = 8.0 // px kept beyond a line's reach while holding
	laneStep      = 8.0
	laneTravel    = 0.15 // lane score lost per px of travel
	laneStick     = 15.0
	lockAfter     = 60 // ticks a guard may hover above before falling back
	lookSteps     = 15 // collecting look-ahead, in steps of lookDt
	lookDt        = 2 * FixedDelta
	dangerRange   = 120.0
	dangerWeight  = 2.0
	lethalPenalty = 100.0
	detourBonus   = 0.6
	threatRadius  = 600.0
	crowdRadius   = 220.0
	crowdWeight   = 1.5
	stickiness    = 80.0
	progressStep  = 8.0
	giveUpTicks   = 300
	banTicks      = 900
	stuckAfter    = 20 // ticks of near-zero progress before detouring
	detourTicks   = 30
	stuckEpsilon  = 0.5
)

// NewAutopilot returns an autopilot with the default margins.
func NewAutopilot() *Autopilot {
	return &Autopilot{Margin: 6, Horizon: 90, Sprint: true, target: -1}
}

// Next returns the input for this tick.
func (ap *Autopilot) Next(s *Session) Input {
	if s.Outcome() != OutcomeRunning || !s.Player.CanMove() {
		// Countdown or respawn: whatever was planned no longer holds.
		ap.crossing, ap.hasLane, ap.lockTicks = false, false, 0
		return Input{}
	}
	if g, ok := s.Goal(); ok {
		return ap.runLines(s, g)
	}
	return ap.collect(s)
}

// ---------------------------------------------------------------------------
// Forward model
// ---------------------------------------------------------------------------

// runner is a copy of the player's motion state for look-ahead.
type runner struct {
	body      Body
	vel       Vec2
	speed     float64
	smoothing float64
	area      Bounds
	walls     []Obstacle
}

func newRunner(p *Player, sprint bool, walls []Obstacle) runner {
	speed := p.tune.Speed
	if sprint && p.tune.SprintMultiplier > 1 && !p.exhausted && p.stamina > 0 {
		speed *= p.tune.SprintMultiplier
	}
	return runner{body: p.body, vel: p.moveVel, speed: speed, smoothing: p.tune.Smoothing, area: p.area, walls: walls}
}

// step mirrors Player.Move for one input.
func (r *runner) step(in Input, dt float64) {
	target := Vec2{sign(in.DX), sign(in.DY)}.Normalize().Scale(r.speed)
	if r.smoothing > 0 {
		r.vel = r.vel.Lerp(target, perTick(r.smoothing, dt))
	} else {
		r.vel = target
	}
	bx, by := MoveAndCollide(&r.body, r.vel.Scale(dt), r.walls)
	if bx {
		r.vel.X = 0
	}
	if by {
		r.vel.Y = 0
	}
	hx, hy := r.body.Hitbox.W/2, r.body.Hitbox.H/2
	c := Vec2{
		X: clampAxis(r.body.Pos.X, r.area.Left+hx, r.area.Right-hx),
		Y: clampAxis(r.body.Pos.Y, r.area.Top+hy, r.area.Bottom-hy),
	}
	if c.X != r.body.Pos.X {
		r.vel.X = 0
	}
	if c.Y != r.body.Pos.Y {
		r.vel.Y = 0
	}
	r.body.Place(c)
}

// threat is a pessimistic forward model of one agent: it keeps its
// heading at top patrol speed until it could notice the player, then
// pursues the intercept point at top chase speed after the shortest
// reaction. A paused agent is assumed to set off toward the player.
type threat struct {
	pos, vel  Vec2
	heading   Vec2
	axis      Axis
	lo, hi    float64
	cruise    float64
	chase     float64
	smoothing float64
	lead      float64
	notice    float64
	minNotice float64
	canNotice bool
	delay     float64
	react     float64
	noticed   bool
	reach     float64
	territory *Rect
}

// reach is how close the agent's tag gets to the player's centre, plus
// margin.
func reach(a *Agent, p *Player, margin float64) float64 {
	overlap := (a.body.Hitbox.W + p.body.Hitbox.W) / 2 * math.Sqrt2
	return math.Max(a.tune.TagRange, overlap) + margin
}

func newThreat(s *Session, a *Agent, margin float64, reverse bool) threat {
	tune := a.tune
	top := tune.Speed * (1 + tune.SpeedJitter)
	mult, lead := tune.ChaseMultiplier, tune.PredictionFactor
	if a.territory != nil {
		mult = math.Max(mult, tune.TerritoryChaseMultiplier) *
			math.Max(1, math.Max(tune.TerritoryAcceleration, tune.FarInterceptBoost))
		lead = tune.TerritoryPredictionFactor
	}
	t := threat{
		pos:       a.body.Pos,
		vel:       a.velocity,
		axis:      a.axis,
		lo:        a.axisMin,
		hi:        a.axisMax,
		cruise:    top,
		chase:     top * mult * math.Max(1, a.acceleration),
		smoothing: tune.Smoothing,
		lead:      lead,
		noticed:   a.state.Chasing(),
		canNotice: true,
		reach:     reach(a, s.Player, margin),
		territory: a.territory,
	}
	switch a.Kind {
	case KindRoamer:
		t.notice, t.minNotice = tune.MaxChaseDistance, tune.MinChaseDistance
		if !t.noticed {
			pp := s.Player.Pos()
			t.canNotice = a.sees || (pp.Dist(t.pos) <= t.notice+threatRadius/3 &&
				CheckLineOfSight(t.pos, pp, s.World.Obstacles, tune.LOSStep))
		}
	default:
		t.notice = tune.DetectionRadius
	}

	switch a.state {
	case StateReturn:
		t.heading = a.spawn.Sub(t.pos).Along(a.axis).Normalize()
	case StatePatrol:
		t.delay = tune.ReactionMin
		t.heading = a.targetVelocity.Along(a.axis).Normalize()
		if reverse {
			t.heading = t.heading.Scale(-1)
		}
	}
	return t
}

func (t *threat) inTerritory(p Vec2) bool { return t.territory != nil && t.territory.Contains(p) }

// step advances the model one tick against the player at p moving pv.
func (t *threat) step(p, pv Vec2, dt float64) {
	if !t.noticed && t.canNotice {
		d := p.Dist(t.pos)
		if t.inTerritory(p) || (d < t.notice && d >= t.minNotice) {
			t.noticed, t.react = true, t.delay
		}
	}

	heading := t.heading
	if heading.IsZero() {
		heading = p.Sub(t.pos).Along(t.axis).Normalize()
	}
	target := heading.Scale(t.cruise)
	if t.noticed {
		if t.react > 0 {
			t.react -= dt
		} else {
			dir := p.Add(pv.Scale(t.lead)).Sub(t.pos).Along(t.axis)
			if dir.IsZero() {
				dir = p.Sub(t.pos).Along(t.axis)
			}
			target = dir.Normalize().Scale(t.chase)
		}
	}

	t.vel = t.vel.Lerp(target, perTick(t.smoothing, dt))
	next := t.pos.Add(t.vel.Scale(dt))
	if t.axis == AxisNone {
		t.pos = next
		return
	}
	c := next.Component(t.axis)
	if c < t.lo || c > t.hi {
		inward := 1.0
		if c > t.hi {
			inward = -1
		}
		t.heading = Vec2{}.WithComponent(t.axis, inward)
		t.vel = t.vel.WithComponent(t.axis, 0)
		return
	}
	t.pos = t.pos.WithComponent(t.axis, c)
}

// clearance is how far p is outside the agent's reach; negative means
// a catch.
func (t *threat) clearance(p Vec2) float64 {
	if t.inTerritory(p) {
		return -1
	}
	return p.Dist(t.pos) - t.reach
}

func (ap *Autopilot) threats(s *Session, reverse bool, near Vec2, radius float64) []threat {
	ts := make([]threat, 0, len(s.Agents))
	for _, a := range s.Agents {
		if radius > 0 && a.Pos().Dist(near) > radius {
			continue
		}
		ts = append(ts, newThreat(s, a, ap.Margin, reverse))
	}
	return ts
}

// rollout holds in for up to steps of dt against copies of threats. It
// reports the worst clearance seen, whether done was reached and where
// the player ended. Ticks spent in the win zone are safe.
func (ap *Autopilot) rollout(s *Session, in Input, threats []threat, done func(Vec2) bool,
	dt float64, steps int, walls []Obstacle, sprint bool,
) (worst float64, reached bool, end Vec2) {
	r := newRunner(s.Player, sprint, walls)
	ts := slices.Clone(threats)
	worst = math.Inf(1)
	var zone *Rect
	if s.World.WinZone != nil {
		zone = &s.World.WinZone.Rect
	}
	for i := 0; i < steps; i++ {
		r.step(in, dt)
		p := r.body.Pos
		safe := zone != nil && zone.Intersects(r.body.Hitbox)
		for j := range ts {
			ts[j].step(p, r.vel, dt)
			if !safe {
				worst = math.Min(worst, ts[j].clearance(p))
			}
		}
		if done != nil && done(p) {
			return worst, true, p
		}
	}
	return worst, false, r.body.Pos
}

// ---------------------------------------------------------------------------
// Line running
// ---------------------------------------------------------------------------

type guardLine struct {
	y, reach float64
}

// guardLines returns the distinct lines of horizontal guards, top first.
func (ap *Autopilot) guardLines(s *Session) []guardLine {
	var lines []guardLine
	for _, a := range s.Agents {
		if a.axis != AxisHorizontal {
			continue
		}
		r := reach(a, s.Player, ap.Margin)
		i := slices.IndexFunc(lines, func(l guardLine) bool { return l.y == a.fixed })
		if i < 0 {
			lines = append(lines, guardLine{a.fixed, r})
			continue
		}
		lines[i].reach = math.Max(lines[i].reach, r)
	}
	slices.SortFunc(lines, func(a, b guardLine) int {
		switch {
		case a.y < b.y:
			return -1
		case a.y > b.y:
			return 1
		}
		return 0
	})
	return lines
}

func lineAbove(lines []guardLine, y float64) (guardLine, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].y < y {
			return lines[i], true
		}
	}
	return guardLine{}, false
}

func lineBelow(lines []guardLine, y float64) (guardLine, bool) {
	for _, l := range lines {
		if l.y > y {
			return l, true
		}
	}
	return guardLine{}, false
}

func (ap *Autopilot) crossed(p Vec2) bool {
	if ap.crossUp {
		return p.Y <= ap.exitY
	}
	return p.Y >= ap.exitY
}

func (ap *Autopilot) inBand(p Vec2) bool {
	return math.Abs(p.Y-ap.crossLine) <= ap.crossReach
}

func (ap *Autopilot) aim(up bool, l guardLine, exit float64) {
	ap.crossUp, ap.crossLine, ap.crossReach, ap.exitY = up, l.y, l.reach, exit
}

func (ap *Autopilot) startCrossing(in Input) Input {
	ap.crossing, ap.cross, ap.crossTicks, ap.lockTicks = true, in, 0, 0
	return in
}

// bestCrossing tries straight and diagonal crossings in direction dy and
// returns the one with the most clearance that is safe both with every
// patrol heading as it is and with every patrol heading reversed.
func (ap *Autopilot) bestCrossing(s *Session, dy int) (Input, bool) {
	var (
		best      Input
		bestWorst = math.Inf(-1)
		found     bool
	)
	p := s.Player.Pos()
	plain := ap.threats(s, false, p, 0)
	flipped := ap.threats(s, true, p, 0)
	for _, dx := range []int{0, -1, 1} {
		in := Input{DX: dx, DY: dy}
		worst := math.Inf(1)
		ok := true
		for _, ts := range [][]threat{plain, flipped} {
			w, reached, end := ap.rollout(s, in, ts, ap.crossed, FixedDelta, ap.Horizon, s.Player.obstacles, false)
			if !reached || w <= 0 || (dx != 0 && ap.inColumn(s, end)) {
				ok = false
				break
			}
			worst = math.Min(worst, w)
		}
		if ok && worst > bestWorst {
			best, bestWorst, found = in, worst, true
		}
	}
	return best, found
}

// inColumn reports whether p is within reach of a vertical guard's
// patrol column.
func (ap *Autopilot) inColumn(s *Session, p Vec2) bool {
	hx, hy := s.Player.body.Hitbox.W/2, s.Player.body.Hitbox.H/2
	for _, a := range s.Agents {
		if a.axis != AxisVertical {
			continue
		}
		r := reach(a, s.Player, ap.Margin)
		if math.Abs(p.X-a.fixed) < r+hx && p.Y+hy >= a.axisMin-r && p.Y-hy <= a.axisMax+r {
			return true
		}
	}
	return false
}

// locked reports whether a guard on line y is chasing from right above.
func (ap *Autopilot) locked(s *Session, l guardLine, p Vec2) bool {
	for _, a := range s.Agents {
		if a.axis == AxisHorizontal && a.fixed == l.y && a.state.Chasing() &&
			math.Abs(a.body.Pos.X-p.X) < 2*l.reach {
			return true
		}
	}
	return false
}

func (ap *Autopilot) runLines(s *Session, goal Rect) Input {
	p, pv := s.Player.Pos(), s.Player.Velocity()
	k := smoothingRate(s.Player.tune.Smoothing)

	if ap.crossing {
		ap.crossTicks++
		if ap.crossed(p) || ap.crossTicks > ap.Horizon {
			ap.crossing = false
		} else if in, ok := ap.bestCrossing(s, ap.cross.DY); ok {
			ap.cross = in
			return in
		} else if ap.inBand(p) {
			// Past the point of no return: keep going.
			return ap.cross
		} else {
			ap.crossing = false
		}
	}

	lines := ap.guardLines(s)
	up, hasUp := lineAbove(lines, p.Y)
	down, hasDown := lineBelow(lines, p.Y)
	hx := s.Player.body.Hitbox.W / 2
	if !hasUp {
		tx := clamp(p.X, goal.Left()+hx, goal.Right()-hx)
		return Input{DX: approach(p.X, pv.X, tx, k), DY: approach(p.Y, pv.Y, goal.Center().Y, k)}
	}

	exit := up.y - up.reach
	if goal.Bottom() >= exit {
		exit = goal.Bottom()
	}
	ap.aim(true, up, exit)
	if in, ok := ap.bestCrossing(s, -1); ok {
		return ap.startCrossing(in)
	}

	if ap.locked(s, up, p) {
		ap.lockTicks++
	} else {
		ap.lockTicks = 0
	}
	if ap.lockTicks > lockAfter && hasDown {
		ap.aim(false, down, down.y+down.reach)
		if in, ok := ap.bestCrossing(s, 1); ok {
			return ap.startCrossing(in)
		}
	}

	wy := ap.holdY(s, up, down, hasDown)
	tx := ap.lane(s, p, up, wy)
	return Input{DX: approach(p.X, pv.X, tx, k), DY: approach(p.Y, pv.Y, wy, k)}
}

// holdY is where to wait below line up: as far from it as the line
// below (or the play area) allows.
func (ap *Autopilot) holdY(s *Session, up, down guardLine, hasDown bool) float64 {
	hy := s.Player.body.Hitbox.H / 2
	lo := up.y + up.reach + holdGap
	hi := s.PlayerArea().Bottom - hy
	if hasDown {
		hi = math.Min(hi, down.y-down.reach-holdGap)
	}
	if hi < lo {
		return (lo + hi) / 2
	}
	return hi
}

// lane picks the x to wait at: the reachable x farthest from where the
// guards on line up are heading. Vertical guards split the band into
// columns that are not crossed while they can reach.
func (ap *Autopilot) lane(s *Session, p Vec2, up guardLine, wy float64) float64 {
	hx, hy := s.Player.body.Hitbox.W/2, s.Player.body.Hitbox.H/2
	area := s.PlayerArea()
	lo, hi := area.Left+hx, area.Right-hx
	yLo, yHi := math.Min(p.Y, wy)-hy, math.Max(p.Y, wy)+hy
	for _, a := range s.Agents {
		if a.axis != AxisVertical {
			continue
		}
		r := reach(a, s.Player, ap.Margin) + hx
		if yHi < a.axisMin-r || yLo > a.axisMax+r {
			continue
		}
		switch cx := a.fixed; {
		case p.X <= cx-r:
			hi = math.Min(hi, cx-r)
		case p.X >= cx+r:
			lo = math.Max(lo, cx+r)
		case p.X < cx:
			return cx - r - 1
		default:
			return cx + r + 1
		}
	}
	if hi <= lo {
		return p.X
	}

	score := func(x float64) float64 {
		return ap.laneScore(s, up, x) - laneTravel*math.Abs(x-p.X)
	}
	best, bestScore := p.X, math.Inf(-1)
	for x := lo; ; x += laneStep {
		x = math.Min(x, hi)
		if sc := score(x); sc > bestScore {
			best, bestScore = x, sc
		}
		if x >= hi {
			break
		}
	}
	if ap.hasLane && ap.laneX >= lo && ap.laneX <= hi && score(ap.laneX) >= bestScore-laneStick {
		best = ap.laneX
	}
	ap.laneX, ap.hasLane = best, true
	return best
}

// laneScore is the distance from x to the nearest guard on line l,
// taken where the guard will be half a second from now.
func (ap *Autopilot) laneScore(s *Session, l guardLine, x float64) float64 {
	score := math.Inf(1)
	for _, a := range s.Agents {
		if a.axis != AxisHorizontal || a.fixed != l.y {
			continue
		}
		gx := a.body.Pos.X
		if !a.state.Chasing() {
			gx = clamp(gx+a.velocity.X*0.5, a.axisMin, a.axisMax)
		}
		score = math.Min(score, math.Abs(x-gx))
	}
	if math.IsInf(score, 1) {
		return 0
	}
	return score
}

func smoothingRate(smoothing float64) float64 {
	if smoothing <= 0 {
		return 1
	}
	return perTick(smoothing, FixedDelta)
}

// approach returns the key along one axis that brings pos to target
// without overshooting, given velocity vel eased at rate k per tick.
func approach(pos, vel, target, k float64) int {
	err := target - pos
	if math.Abs(err) < holdSlack {
		return 0
	}
	if k < 1 && vel*err > 0 {
		coast := math.Abs(vel) * FixedDelta * (1 - k) / k
		if coast >= math.Abs(err)-holdSlack {
			return 0
		}
	}
	if err > 0 {
		return 1
	}
	return -1
}

// ---------------------------------------------------------------------------
// Collecting
// ---------------------------------------------------------------------------

var keyInputs = []Input{
	{}, {DX: 1}, {DX: -1}, {DY: 1}, {DY: -1},
	{DX: 1, DY: 1}, {DX: 1, DY: -1}, {DX: -1, DY: 1}, {DX: -1, DY: -1},
}

func (ap *Autopilot) collect(s *Session) Input {
	p := s.Player.Pos()
	way := ap.waypoint(s, p, ap.objective(s))
	ap.trackStuck(s, p, way)

	lookRadius := s.Player.tune.Speed*math.Max(1, s.Player.tune.SprintMultiplier)*float64(lookSteps)*lookDt + 2*s.Player.tune.Size
	walls := nearbyWalls(s.Player.obstacles, p, lookRadius)
	threats := ap.threats(s, false, p, threatRadius)
	sprint := ap.Sprint && ap.pressed(threats, p)

	span := newRunner(s.Player, sprint, nil).speed * float64(lookSteps) * lookDt
	best, bestScore := Input{}, math.Inf(-1)
	for _, in := range keyInputs {
		worst, _, end := ap.rollout(s, in, threats, nil, lookDt, lookSteps, walls, sprint)
		score := (p.Dist(way) - end.Dist(way)) / span
		switch {
		case worst <= 0:
			score -= lethalPenalty - worst
		case worst < dangerRange:
			f := (dangerRange - worst) / dangerRange
			score -= dangerWeight * f * f
		}
		if ap.detourLeft > 0 && in == ap.detour {
			score += detourBonus
		}
		if score > bestScore {
			best, bestScore = in, score
		}
	}
	if ap.detourLeft > 0 {
		ap.detourLeft--
	}
	best.Sprint = sprint
	best.Craft = s.ReadyToCraft()
	return best
}

// pressed reports whether an agent that is after the player, or could
// notice it, is close.
func (ap *Autopilot) pressed(threats []threat, p Vec2) bool {
	for _, t := range threats {
		if (t.noticed || t.canNotice) && t.clearance(p) < dangerRange {
			return true
		}
	}
	return false
}

// objective is the next collectible, or the win zone once none are left.
func (ap *Autopilot) objective(s *Session) Vec2 {
	if i := ap.pickCollectible(s); i >= 0 {
		return s.Collectibles[i].Rect.Center()
	}
	if s.World.WinZone != nil {
		return s.World.WinZone.Rect.Center()
	}
	return s.Player.Pos()
}

// pickCollectible keeps the current target while it gets closer and
// bans it for a while when it stops doing so. Targets near agents cost
// more.
func (ap *Autopilot) pickCollectible(s *Session) int {
	p, tick := s.Player.Pos(), s.Tick()
	if ap.banned == nil {
		ap.banned = make(map[int]int)
	}
	if ap.target >= 0 && ap.target < len(s.Collectibles) && !s.Collectibles[ap.target].Collected {
		if d := p.Dist(s.Collectibles[ap.target].Rect.Center()); d < ap.bestDist-progressStep {
			ap.bestDist, ap.idle = d, 0
		} else {
			ap.idle++
			if ap.idle > giveUpTicks {
				ap.banned[ap.target] = tick + banTicks
				ap.target = -1
			}
		}
	} else {
		ap.target = -1
	}

	pick := func() int {
		best, bestCost := -1, math.Inf(1)
		for i, c := range s.Collectibles {
			if c.Collected || ap.banned[i] > tick {
				continue
			}
			cc := c.Rect.Center()
			cost := p.Dist(cc)
			for _, a := range s.Agents {
				if d := a.body.Pos.Dist(cc); d < crowdRadius {
					cost += (crowdRadius - d) * crowdWeight
				}
			}
			if i == ap.target {
				cost -= stickiness
			}
			if cost < bestCost {
				best, bestCost = i, cost
			}
		}
		return best
	}
	best := pick()
	if best < 0 && len(ap.banned) > 0 {
		clear(ap.banned)
		best = pick()
	}
	if best != ap.target {
		ap.target, ap.bestDist, ap.idle = best, math.Inf(1), 0
	}
	return best
}

// inflated returns the player's obstacles grown by its half hitbox plus
// a little, i.e. the places its centre cannot go.
func (ap *Autopilot) inflated(s *Session) []Rect {
	if ap.wallsFor == s && len(ap.walls) == len(s.Player.obstacles) {
		return ap.walls
	}
	hb := s.Player.body.Hitbox
	ap.walls = ap.walls[:0]
	for _, o := range s.Player.obstacles {
		ap.walls = append(ap.walls, o.BoundingBox().Inflate(hb.W+8, hb.H+8))
	}
	ap.wallsFor = s
	return ap.walls
}

// waypoint is where to steer on the way to goal: goal itself when the
// straight line is clear, else the cheapest visible corner of the first
// block in the way.
func (ap *Autopilot) waypoint(s *Session, p, goal Vec2) Vec2 {
	var open []Rect
	for _, r := range ap.inflated(s) {
		if !r.Contains(p) && !r.Contains(goal) {
			open = append(open, r)
		}
	}
	first, firstT := -1, math.Inf(1)
	for i, r := range open {
		if t, hit := segmentBoxHitT(p, goal, r); hit && t < firstT {
			first, firstT = i, t
		}
	}
	if first < 0 {
		return goal
	}
	r := open[first].Inflate(4, 4)
	best, bestCost := goal, math.Inf(1)
	for _, c := range []Vec2{{r.Left(), r.Top()}, {r.Right(), r.Top()}, {r.Left(), r.Bottom()}, {r.Right(), r.Bottom()}} {
		if c.Dist(p) < 2 || !clearPath(p, c, open) {
			continue
		}
		if cost := p.Dist(c) + c.Dist(goal); cost < bestCost {
			best, bestCost = c, cost
		}
	}
	return best
}

func clearPath(a, b Vec2, rects []Rect) bool {
	for _, r := range rects {
		if segmentHitsBox(a, b, r) {
			return false
		}
	}
	return true
}

func nearbyWalls(obstacles []Obstacle, p Vec2, radius float64) []Obstacle {
	area := RectCentered(p, 2*radius, 2*radius)
	var out []Obstacle
	for _, o := range obstacles {
		if o.BoundingBox().Intersects(area) {
			out = append(out, o)
		}
	}
	return out
}

// trackStuck starts a sideways detour once the player has not moved for
// a while, alternating sides.
func (ap *Autopilot) trackStuck(s *Session, p, way Vec2) {
	if p.Dist(ap.lastPos) < stuckEpsilon {
		ap.stuckTicks++
	} else {
		ap.stuckTicks = 0
	}
	ap.lastPos = p
	if ap.stuckTicks < stuckAfter || ap.detourLeft > 0 {
		return
	}
	dir := way.Sub(p).Normalize()
	side := Vec2{-dir.Y, dir.X}
	if ap.detourSide%2 == 1 {
		side = side.Scale(-1)
	}
	ap.detourSide++
	ap.detour = Input{DX: keyOf(side.X), DY: keyOf(side.Y)}
	if ap.detour == (Input{}) {
		ap.detour = keyInputs[1+ap.detourSide%4]
	}
	ap.detourLeft = detourTicks
	ap.stuckTicks = 0
}

// keyOf turns one component of a unit direction into a key press.
func keyOf(v float64) int {
	switch {
	case v > 0.38:
		return 1
	case v < -0.38:
		return -1
	default:
		return 0
	}
}
