package sim

import "testing"

func ended(s *Session) bool { return s.Outcome() != OutcomeRunning }

func TestAutopilot_WinsPatintero(t *testing.T) {
	const seeds = 20
	wins := 0
	for seed := int64(1); seed <= seeds; seed++ {
		s := NewPatinteroSession(DefaultConfig().Patintero, seed, quietLogger())
		s.RunUntil(NewAutopilot().Next, ended, int(90*TickRate))
		if s.Outcome() == OutcomeWon {
			wins++
		}
	}
	t.Logf("patintero: won %d/%d", wins, seeds)
	if wins == 0 {
		t.Fatalf("autopilot never reached the goal in %d seeds", seeds)
	}
}

func TestAutopilot_WinsMuseum(t *testing.T) {
	const seeds = 8
	wins := 0
	for seed := int64(1); seed <= seeds; seed++ {
		s := NewMuseumSession(DefaultConfig().Museum, seed, quietLogger())
		s.RunUntil(NewAutopilot().Next, ended, int(180*TickRate))
		if s.Outcome() == OutcomeWon {
			wins++
		}
	}
	t.Logf("museum: won %d/%d", wins, seeds)
	if wins == 0 {
		t.Fatalf("autopilot never crafted the charm in %d seeds", seeds)
	}
}

// oneLine is an 800x800 field with the goal along the top and a single
// guard line at y=400.
func oneLine(player Vec2, guardX float64, extra ...Option) *Session {
	cfg := DefaultConfig().Patintero
	goal := Rect{W: 800, H: 40}
	opts := []Option{
		WithLogger(quietLogger()),
		WithBounds(Bounds{Right: 800, Bottom: 800}),
		WithRules(Rules{Goal: &goal}),
		WithPlayer(player, cfg.Player),
		WithGuard(AgentSpec{ID: 1, Spawn: V(guardX, 400), Axis: AxisHorizontal, AxisMin: 50, AxisMax: 750}, cfg.Guard),
	}
	return NewSession(append(opts, extra...)...)
}

func TestAutopilot_HoldsUnderGuard(t *testing.T) {
	s := oneLine(V(100, 700), 100)
	if in := NewAutopilot().Next(s); in.DY < 0 {
		t.Fatalf("crossed with the guard straight above: %+v", in)
	}
}

func TestAutopilot_CrossesWhenClear(t *testing.T) {
	s := oneLine(V(100, 700), 740)
	if in := NewAutopilot().Next(s); in.DY != -1 {
		t.Fatalf("expected a crossing with the guard 640px away, got %+v", in)
	}
}

func TestAutopilot_ReachesGoalPastOneGuard(t *testing.T) {
	s := oneLine(V(100, 700), 740)
	s.RunUntil(NewAutopilot().Next, ended, int(20*TickRate))
	if s.Outcome() != OutcomeWon {
		t.Fatalf("expected a win, got %s at %+v", s.Outcome(), s.Player.Pos())
	}
}

func TestAutopilot_LaneStaysOutOfVerticalColumn(t *testing.T) {
	cfg := DefaultConfig().Patintero
	s := oneLine(V(300, 600), 60,
		WithGuard(AgentSpec{ID: 2, Spawn: V(400, 500), Axis: AxisVertical, AxisMin: 100, AxisMax: 700}, cfg.Guard))
	ap := NewAutopilot()
	lines := ap.guardLines(s)
	if len(lines) != 1 || lines[0].y != 400 {
		t.Fatalf("expected one guard line at 400, got %+v", lines)
	}
	edge := 400 - reach(s.Agents[1], s.Player, ap.Margin) - s.Player.Hitbox().W/2
	if x := ap.lane(s, s.Player.Pos(), lines[0], 600); x != edge {
		t.Fatalf("lane x = %.1f, want the column edge %.1f", x, edge)
	}

	s.Player.Respawn(V(395, 600))
	if x := ap.lane(s, s.Player.Pos(), lines[0], 600); x >= edge {
		t.Fatalf("inside the column the lane should lead out to the near side, got %.1f", x)
	}
}

func TestApproach(t *testing.T) {
	k := smoothingRate(0.3)
	cases := []struct {
		name             string
		pos, vel, target float64
		k                float64
		want             int
	}{
		{"far ahead", 0, 0, 100, k, 1},
		{"far behind", 100, 0, 0, k, -1},
		{"within slack", 0, 0, 2, k, 0},
		{"coasting in", 0, 300, 4, k, 0},
		{"moving away", 0, -300, 50, k, 1},
		{"no smoothing never coasts", 0, 300, 10, 1, 1},
	}
	for _, c := range cases {
		if got := approach(c.pos, c.vel, c.target, c.k); got != c.want {
			t.Errorf("%s: approach = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestAutopilot_RoutesAroundBlock(t *testing.T) {
	s := NewSession(
		WithLogger(quietLogger()),
		WithBounds(Bounds{Right: 800, Bottom: 600}),
		WithObstacle(350, 100, 100, 400),
		WithPlayer(V(200, 300), DefaultConfig().Museum.Player),
	)
	ap := NewAutopilot()
	goal := V(600, 300)
	way := ap.waypoint(s, s.Player.Pos(), goal)
	if way == goal {
		t.Fatal("expected a corner waypoint with a block in the way")
	}
	if way.Y > 100 && way.Y < 500 {
		t.Fatalf("waypoint %+v should sit past the block's top or bottom", way)
	}

	open := ap.waypoint(s, V(200, 50), V(600, 50))
	if open != V(600, 50) {
		t.Fatalf("open line should steer straight at the goal, got %+v", open)
	}
}
