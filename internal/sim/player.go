package sim

// Input is one tick's snapshot from the input collaborator. DX and DY
// are read as their sign only.
type Input struct {
	DX, DY int
	Sprint bool
	Craft  bool
}

// Player is the controlled entity. Only input and collision move it.
type Player struct {
	body      Body
	tune      PlayerTuning
	area      Bounds
	obstacles []Obstacle

	dir       Vec2 // normalised input direction
	sprint    bool
	moveVel   Vec2 // commanded velocity (smoothed when Smoothing > 0)
	velocity  Vec2 // measured displacement per second last tick
	canMove   bool
	stamina   float64
	exhausted bool // set when stamina runs out, cleared at staminaRecover
}

// staminaRecover is the stamina fraction an exhausted player must regain
// before sprinting again.
const staminaRecover = 0.25

// NewPlayer places a player at spawn. area is the region its hitbox is
// kept inside; obstacles block it. Movement starts disabled.
func NewPlayer(spawn Vec2, tune PlayerTuning, area Bounds, obstacles []Obstacle) *Player {
	return &Player{
		body:      NewBody(spawn, tune.Size, tune.Size, tune.HitboxInset, tune.HitboxInset),
		tune:      tune,
		area:      area,
		obstacles: obstacles,
		stamina:   tune.StaminaMax,
	}
}

func sign(v int) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// SetInput records the direction for the next Move. Diagonals are
// normalised so they are no faster than straight moves.
func (p *Player) SetInput(dx, dy int) {
	p.dir = Vec2{sign(dx), sign(dy)}.Normalize()
}

// SetSprint requests sprinting for the next Move.
func (p *Player) SetSprint(on bool) { p.sprint = on }

// EnableMovement opens the gate, typically when the start countdown ends.
func (p *Player) EnableMovement() { p.canMove = true }

// DisableMovement freezes the player in place.
func (p *Player) DisableMovement() {
	p.canMove = false
	p.moveVel = Vec2{}
	p.velocity = Vec2{}
}

// Move integrates one step: X then Y, each axis resolved against the
// obstacles, then kept inside the play area.
func (p *Player) Move(dt float64) {
	dt = ClampDelta(dt)
	if !p.canMove || dt == 0 {
		p.velocity = Vec2{}
		return
	}

	speed := p.tune.Speed
	if p.Sprinting() {
		speed *= p.tune.SprintMultiplier
		p.stamina -= p.tune.StaminaDrain * dt
		if p.stamina <= 0 {
			p.stamina = 0
			p.exhausted = true
		}
	} else if p.stamina < p.tune.StaminaMax {
		p.stamina += p.tune.StaminaRegen * dt
		if p.stamina > p.tune.StaminaMax {
			p.stamina = p.tune.StaminaMax
		}
		if p.stamina >= staminaRecover*p.tune.StaminaMax {
			p.exhausted = false
		}
	}

	target := p.dir.Scale(speed)
	if p.tune.Smoothing > 0 {
		p.moveVel = p.moveVel.Lerp(target, perTick(p.tune.Smoothing, dt))
	} else {
		p.moveVel = target
	}

	before := p.body.Pos
	bx, by := MoveAndCollide(&p.body, p.moveVel.Scale(dt), p.obstacles)
	if bx {
		p.moveVel.X = 0
	}
	if by {
		p.moveVel.Y = 0
	}

	hx, hy := p.body.Hitbox.W/2, p.body.Hitbox.H/2
	clamped := Vec2{
		X: clampAxis(p.body.Pos.X, p.area.Left+hx, p.area.Right-hx),
		Y: clampAxis(p.body.Pos.Y, p.area.Top+hy, p.area.Bottom-hy),
	}
	if clamped.X != p.body.Pos.X {
		p.moveVel.X = 0
	}
	if clamped.Y != p.body.Pos.Y {
		p.moveVel.Y = 0
	}
	p.body.Place(clamped)

	p.velocity = p.body.Pos.Sub(before).Scale(1 / dt)
}

// Sprinting reports whether the next Move runs at sprint speed.
func (p *Player) Sprinting() bool {
	return p.sprint && !p.exhausted && p.tune.SprintMultiplier > 1 && p.stamina > 0 && !p.dir.IsZero()
}

// Respawn teleports the player and clears its motion.
func (p *Player) Respawn(pos Vec2) {
	p.body.Place(pos)
	p.moveVel = Vec2{}
	p.velocity = Vec2{}
	p.stamina = p.tune.StaminaMax
	p.exhausted = false
}

// Exhausted reports whether sprint is locked out until stamina recovers.
func (p *Player) Exhausted() bool { return p.exhausted }

func (p *Player) Pos() Vec2 { return p.body.Pos }
func (p *Player) Velocity() Vec2 { return p.velocity }
func (p *Player) Hitbox() Rect { return p.body.Hitbox }
func (p *Player) Render() Rect { return p.body.Render }
func (p *Player) BoundingBox() Rect { return p.body.Hitbox }
func (p *Player) CanMove() bool { return p.canMove }
func (p *Player) Stamina() float64 { return p.stamina }

// StaminaFrac is stamina as a fraction of the pool, 0 when sprint is off.
func (p *Player) StaminaFrac() float64 {
	if p.tune.StaminaMax <= 0 {
		return 0
	}
	return p.stamina / p.tune.StaminaMax
}
