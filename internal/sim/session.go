// Package sim is the ebiten-free chase core: world, player, agents,
// camera and the sessions that tie them together for each scenario.
package sim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Scenario names the rule set a session was built for.
type Scenario int

const (
	ScenarioCustom Scenario = iota
	ScenarioMuseum
	ScenarioPatintero
)

func (sc Scenario) String() string {
	switch sc {
	case ScenarioMuseum:
		return "museum"
	case ScenarioPatintero:
		return "patintero"
	default:
		return "custom"
	}
}

// ErrUnknownScenario is returned by ParseScenario.
var ErrUnknownScenario = errors.New("unknown scenario")

// ParseScenario maps a command-line name to a Scenario.
func ParseScenario(name string) (Scenario, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "museum", "intramuros":
		return ScenarioMuseum, nil
	case "patintero", "cebu":
		return ScenarioPatintero, nil
	}
	return ScenarioCustom, fmt.Errorf("%w %q (want museum or patintero)", ErrUnknownScenario, name)
}

// Outcome is the session result.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "running"
	}
}

// Session owns one play-through: the world, the player, the agents and
// the camera. Step is the only mutator and must be called from a single
// goroutine.
type Session struct {
	ID       uuid.UUID
	Scenario Scenario

	World        *World
	Player       *Player
	Agents       []*Agent
	Collectibles []*Collectible
	Camera       *Camera
	Events       *EventLog

	seed         int64
	rng          *rand.Rand
	logger       *slog.Logger
	rules        Rules
	viewport     Vec2
	camSmoothing float64
	playerSpawn  Vec2
	playerArea   *Bounds
	build        func(seed int64) *Session

	tick      int
	elapsed   float64
	countdown float64
	lives     int
	catches   int
	score     int
	outcome   Outcome
	retired   AgentStats // stats of agents removed from the session
}

// NewSession constructs a Session from the given options in ordered passes:
//  1. Infrastructure (bounds, obstacles, seed, logger, rules)
//  2. Player
//  3. Agents and collectibles
//
// Without WithPlayer the player starts at the bounds centre.
func NewSession(opts ...Option) *Session {
	s := newSession(opts)
	s.build = func(seed int64) *Session {
		return newSession(append(opts[:len(opts):len(opts)], WithSeed(seed)))
	}
	return s
}

func newSession(opts []Option) *Session {
	s := &Session{
		ID:     uuid.New(),
		World:  &World{Bounds: Bounds{Right: 1280, Bottom: 720}},
		Events: NewEventLog(false),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		seed:   1,
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- gameplay randomness
	}
	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(s)
		}
	}
	if s.viewport.IsZero() {
		s.viewport = Vec2{s.World.Bounds.Width(), s.World.Bounds.Height()}
	}
	s.Camera = NewCamera(s.viewport.X, s.viewport.Y, s.World.Bounds, s.camSmoothing)

	for _, o := range opts {
		if o.kind == optPlayer {
			o.fn(s)
		}
	}
	if s.Player == nil {
		s.playerSpawn = s.World.Bounds.Center()
		s.Player = NewPlayer(s.playerSpawn, DefaultConfig().Museum.Player, s.PlayerArea(), s.World.Obstacles)
	}
	for _, o := range opts {
		if o.kind == optAgent {
			o.fn(s)
		}
	}

	s.lives = s.rules.Lives
	if s.lives <= 0 {
		s.lives = 1
	}
	s.countdown = s.rules.StartDelay
	if s.countdown <= 0 {
		s.Player.EnableMovement()
	}
	s.Camera.Follow(s.Player.Pos(), 0)

	s.logger = s.logger.With("session", s.ID.String(), "scenario", s.Scenario.String())
	s.logger.Info("session started",
		"seed", s.seed, "agents", len(s.Agents), "obstacles", len(s.World.Obstacles),
		"collectibles", len(s.Collectibles))
	return s
}

func (s *Session) addAgent(spec AgentSpec, tune AgentTuning) {
	s.Agents = append(s.Agents, NewAgent(spec, tune, s.Player, s.World, s.rng))
}

// Reset rebuilds the session from its original construction with a new
// seed. The event sink survives the reset.
func (s *Session) Reset(seed int64) {
	if s.build == nil {
		return
	}
	sink, limit := s.Events.sink, s.Events.limit
	build := s.build
	*s = *build(seed)
	s.build = build
	s.Events.sink = sink
	s.Events.SetLimit(limit)
	s.logger.Info("session reset", "seed", seed)
}

// agentSnap is the per-agent state compared across a tick for logging.
type agentSnap struct {
	state AgentState
	alert bool
	sees  bool
}

// Step advances the session by dt seconds with the given input. Order:
// countdown, player, agents, collectibles, outcome, camera.
func (s *Session) Step(in Input, dt float64) {
	dt = ClampDelta(dt)
	if s.outcome != OutcomeRunning {
		s.Camera.Follow(s.Player.Pos(), dt)
		return
	}
	s.tick++
	s.elapsed += dt

	prev := make(map[*Agent]agentSnap, len(s.Agents))
	for _, a := range s.Agents {
		prev[a] = agentSnap{a.State(), a.Alert().Active(), a.Sees()}
	}

	if s.countdown > 0 {
		s.countdown -= dt
		if s.countdown <= 0 {
			s.countdown = 0
			s.Player.EnableMovement()
			s.Events.Add(s.tick, "--", "session", "start", "countdown over", 0)
		}
	}

	s.Player.SetInput(in.DX, in.DY)
	s.Player.SetSprint(in.Sprint)
	s.Player.Move(dt)

	if s.countdown <= 0 {
		for _, a := range s.Agents {
			a.Update(dt)
		}
	}

	s.logAgents(prev)
	s.collect()
	s.resolveCatches()
	if s.outcome == OutcomeRunning {
		s.checkWin(in)
	}

	s.Camera.Follow(s.Player.Pos(), dt)

	if s.Events.Verbose() {
		p := s.Player.Pos()
		s.Events.AddVerbose(s.tick, "P", "move", "position", fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y), 0)
		for _, a := range s.Agents {
			ap := a.Pos()
			s.Events.AddVerbose(s.tick, a.Label, "move", "position",
				fmt.Sprintf("(%.1f,%.1f) %s", ap.X, ap.Y, a.State()), a.Acceleration())
		}
	}
}

func (s *Session) logAgents(prev map[*Agent]agentSnap) {
	for _, a := range s.Agents {
		p := prev[a]
		if a.State() != p.state {
			s.Events.Add(s.tick, a.Label, "state", "change",
				fmt.Sprintf("%s → %s", p.state, a.State()), a.Pos().Dist(s.Player.Pos()))
		}
		if a.Alert().Active() && !p.alert {
			s.Events.Add(s.tick, a.Label, "alert", "raised", "player entered territory", 0)
		}
		if a.Sees() != p.sees {
			key := "contact_lost"
			if a.Sees() {
				key = "contact_new"
			}
			s.Events.Add(s.tick, a.Label, "vision", key,
				fmt.Sprintf("player at %.0f", a.Pos().Dist(s.Player.Pos())), 0)
		}
	}
}

func (s *Session) collect() {
	hb := s.Player.Hitbox()
	for i, c := range s.Collectibles {
		if c.Collected || !c.Rect.Intersects(hb) {
			continue
		}
		c.Collected = true
		s.score++
		s.Events.Add(s.tick, "P", "collect", "artifact",
			fmt.Sprintf("#%d (%d/%d)", i, s.score, len(s.Collectibles)), float64(s.score))
	}
}

// InWinZone reports whether the player overlaps the win zone.
func (s *Session) InWinZone() bool {
	return s.World.WinZone != nil && s.World.WinZone.Rect.Intersects(s.Player.Hitbox())
}

func (s *Session) resolveCatches() {
	if s.countdown > 0 || s.InWinZone() {
		return
	}
	pp, hb := s.Player.Pos(), s.Player.Hitbox()
	for i, a := range s.Agents {
		if !a.Hitbox().Intersects(hb) && !a.CanTag(pp) {
			continue
		}
		s.catches++
		s.lives--
		s.Events.Add(s.tick, a.Label, "catch", "player",
			fmt.Sprintf("state=%s dist=%.0f lives=%d", a.State(), a.Pos().Dist(pp), s.lives), float64(s.lives))
		if s.rules.RemoveCatcher && a.Kind == KindRoamer {
			s.retire(a)
			s.Agents = append(s.Agents[:i:i], s.Agents[i+1:]...)
		}
		if s.lives <= 0 {
			s.finish(OutcomeLost, "caught by "+a.Label)
			return
		}
		s.Player.Respawn(s.playerSpawn)
		s.Player.DisableMovement()
		for _, other := range s.Agents {
			other.ForgetPlayer()
		}
		s.countdown = s.rules.StartDelay
		if s.countdown <= 0 {
			s.Player.EnableMovement()
		}
		return
	}
}

func (s *Session) checkWin(in Input) {
	if g := s.rules.Goal; g != nil && g.Contains(s.Player.Pos()) {
		s.finish(OutcomeWon, "reached goal")
		return
	}
	if s.rules.CraftToWin && in.Craft && s.ReadyToCraft() {
		s.finish(OutcomeWon, "charm crafted")
	}
}

// ReadyToCraft reports whether a Craft input would win right now.
func (s *Session) ReadyToCraft() bool {
	return s.rules.CraftToWin && s.InWinZone() && s.score >= len(s.Collectibles)
}

func (s *Session) finish(o Outcome, reason string) {
	s.outcome = o
	s.Player.DisableMovement()
	if o == OutcomeWon && s.rules.ClearOnWin {
		for _, a := range s.Agents {
			s.retire(a)
		}
		s.Agents = nil
	}
	s.Events.Add(s.tick, "--", "outcome", o.String(), reason, s.elapsed)
	s.logger.Info("session over", "outcome", o.String(), "reason", reason,
		"tick", s.tick, "elapsed", s.elapsed, "score", s.score)
}

func (s *Session) retire(a *Agent) {
	st := a.Stats()
	s.retired.Detections += st.Detections
	s.retired.Alerts += st.Alerts
	s.retired.Bounces += st.Bounces
	s.retired.Returns += st.Returns
}

// RunTicks advances n fixed ticks with a constant input.
func (s *Session) RunTicks(n int, in Input) {
	for i := 0; i < n; i++ {
		s.Step(in, FixedDelta)
	}
}

// RunUntil advances up to maxTicks fixed ticks, asking drive for the
// input each tick, and stops early once done returns true. Returns the
// tick at which done was satisfied, or -1.
func (s *Session) RunUntil(drive func(*Session) Input, done func(*Session) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		var in Input
		if drive != nil {
			in = drive(s)
		}
		s.Step(in, FixedDelta)
		if done(s) {
			return s.tick
		}
	}
	return -1
}

func (s *Session) Tick() int { return s.tick }
func (s *Session) Elapsed() float64 { return s.elapsed }
func (s *Session) Seed() int64 { return s.seed }
func (s *Session) Outcome() Outcome { return s.outcome }
func (s *Session) Countdown() float64 { return s.countdown }
func (s *Session) Lives() int { return s.lives }
func (s *Session) Catches() int { return s.catches }
func (s *Session) Score() int { return s.score }
func (s *Session) Rules() Rules { return s.rules }
func (s *Session) Logger() *slog.Logger { return s.logger }
func (s *Session) PlayerSpawn() Vec2 { return s.playerSpawn }
func (s *Session) Offset() Vec2 { return s.Camera.Offset() }
func (s *Session) Goal() (Rect, bool) { return derefRect(s.rules.Goal) }
func (s *Session) TotalCollectibles() int { return len(s.Collectibles) }

// PlayerArea is the region the player is kept inside.
func (s *Session) PlayerArea() Bounds {
	if s.playerArea != nil {
		return *s.playerArea
	}
	return s.World.Bounds
}

// AgentByLabel finds an agent by its label, e.g. "G2".
func (s *Session) AgentByLabel(label string) *Agent {
	for _, a := range s.Agents {
		if a.Label == label {
			return a
		}
	}
	return nil
}

// Viewport is the visible area size the camera was built for.
func (s *Session) Viewport() Vec2 { return s.viewport }

// NewScenarioSession builds a museum or patintero session from cfg.
func NewScenarioSession(cfg Config, sc Scenario, seed int64, logger *slog.Logger) (*Session, error) {
	switch sc {
	case ScenarioMuseum:
		return NewMuseumSession(cfg.Museum, seed, logger), nil
	case ScenarioPatintero:
		return NewPatinteroSession(cfg.Patintero, seed, logger), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownScenario, sc)
}

// Scenarios lists the playable scenarios in cycling order.
func Scenarios() []Scenario { return []Scenario{ScenarioMuseum, ScenarioPatintero} }
