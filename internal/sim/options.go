package sim

import (
	"log/slog"
	"math/rand"
)

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optInfra  optionKind = iota // bounds, obstacles, seed, logger, rules; applied first
	optPlayer                   // player; applied once the world exists
	optAgent                    // agents and collectibles; applied after the player
)

// Option is a builder step applied to a Session during construction.
type Option struct {
	kind optionKind
	fn   func(*Session)
}

// Rules decides how a session is won and lost.
type Rules struct {
	StartDelay float64 // seconds before player and agents may move
	Lives      int     // catches the player survives is Lives-1; <= 0 means 1

	// Goal, when set, wins the session once the player's centre is inside it.
	Goal *Rect
	// CraftToWin wins on a Craft input while the player stands in the win
	// zone with every collectible picked up.
	CraftToWin bool
	// RemoveCatcher drops a roamer from the session after it catches the player.
	RemoveCatcher bool
	// ClearOnWin removes every agent once the player wins.
	ClearOnWin bool
}

// WithBounds sets the play area.
func WithBounds(b Bounds) Option {
	return Option{optInfra, func(s *Session) {
		s.World.Bounds = b
	}}
}

// WithObstacle adds a static blocking rect.
func WithObstacle(x, y, w, h float64) Option {
	return Option{optInfra, func(s *Session) {
		s.World.Obstacles = append(s.World.Obstacles, Obstacle{Rect{X: x, Y: y, W: w, H: h}})
	}}
}

// WithBorderWalls frames the bounds with solid walls of the bounds' WallThickness.
func WithBorderWalls() Option {
	return Option{optInfra, func(s *Session) {
		s.World.Obstacles = append(s.World.Obstacles, s.World.Bounds.BorderWalls()...)
	}}
}

// WithWinZone sets the safe zone.
func WithWinZone(r Rect) Option {
	return Option{optInfra, func(s *Session) {
		s.World.WinZone = &WinZone{Rect: r}
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) Option {
	return Option{optInfra, func(s *Session) {
		s.seed = seed
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay randomness
	}}
}

// WithVerbose enables per-tick position events.
func WithVerbose(v bool) Option {
	return Option{optInfra, func(s *Session) {
		s.Events = NewEventLog(v)
	}}
}

// WithLogger routes lifecycle logging to l.
func WithLogger(l *slog.Logger) Option {
	return Option{optInfra, func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}}
}

// WithViewport sets the camera viewport and its smoothing.
func WithViewport(w, h, smoothing float64) Option {
	return Option{optInfra, func(s *Session) {
		s.viewport = Vec2{w, h}
		s.camSmoothing = smoothing
	}}
}

// WithRules sets the win/loss rules.
func WithRules(r Rules) Option {
	return Option{optInfra, func(s *Session) {
		s.rules = r
	}}
}

// WithScenario tags the session for reports and frontends.
func WithScenario(sc Scenario) Option {
	return Option{optInfra, func(s *Session) {
		s.Scenario = sc
	}}
}

// WithPlayerArea keeps the player inside b instead of the world bounds.
func WithPlayerArea(b Bounds) Option {
	return Option{optInfra, func(s *Session) {
		s.playerArea = &b
	}}
}

// WithPlayer places the player.
func WithPlayer(pos Vec2, tune PlayerTuning) Option {
	return Option{optPlayer, func(s *Session) {
		s.playerSpawn = pos
		s.Player = NewPlayer(pos, tune, s.PlayerArea(), s.World.Obstacles)
	}}
}

// WithGuard adds an axis-locked guard.
func WithGuard(spec AgentSpec, tune AgentTuning) Option {
	return Option{optAgent, func(s *Session) {
		spec.Kind = KindGuard
		s.addAgent(spec, tune)
	}}
}

// WithRoamer adds a free-roaming agent at pos.
func WithRoamer(id int, pos Vec2, tune AgentTuning) Option {
	return Option{optAgent, func(s *Session) {
		s.addAgent(AgentSpec{ID: id, Kind: KindRoamer, Spawn: pos}, tune)
	}}
}

// WithCollectible adds a pickup.
func WithCollectible(r Rect) Option {
	return Option{optAgent, func(s *Session) {
		s.Collectibles = append(s.Collectibles, &Collectible{Rect: r})
	}}
}
