package sim

import (
	"math"
	"testing"
)

func openArea() Bounds { return Bounds{Right: 2000, Bottom: 2000} }

func TestPlayer_FrozenUntilEnabled(t *testing.T) {
	p := NewPlayer(V(100, 100), DefaultConfig().Museum.Player, openArea(), nil)
	p.SetInput(1, 1)
	for i := 0; i < 30; i++ {
		p.Move(FixedDelta)
	}
	if p.Pos() != V(100, 100) {
		t.Fatalf("player moved before movement was enabled: %+v", p.Pos())
	}
	p.EnableMovement()
	p.Move(FixedDelta)
	if p.Pos() == V(100, 100) {
		t.Fatal("player should move once enabled")
	}
}

func TestPlayer_DiagonalNotFaster(t *testing.T) {
	tune := DefaultConfig().Museum.Player
	straight := NewPlayer(V(500, 500), tune, openArea(), nil)
	diag := NewPlayer(V(500, 500), tune, openArea(), nil)
	straight.EnableMovement()
	diag.EnableMovement()

	straight.SetInput(1, 0)
	diag.SetInput(1, 1)
	straight.Move(FixedDelta)
	diag.Move(FixedDelta)

	ds := straight.Pos().Dist(V(500, 500))
	dd := diag.Pos().Dist(V(500, 500))
	if math.Abs(ds-dd) > 1e-9 {
		t.Fatalf("diagonal step %.6f differs from straight step %.6f", dd, ds)
	}
	if math.Abs(ds-tune.Speed*FixedDelta) > 1e-9 {
		t.Fatalf("expected step %.6f, got %.6f", tune.Speed*FixedDelta, ds)
	}
}

func TestPlayer_InputIsSignOnly(t *testing.T) {
	a := NewPlayer(V(500, 500), DefaultConfig().Museum.Player, openArea(), nil)
	b := NewPlayer(V(500, 500), DefaultConfig().Museum.Player, openArea(), nil)
	a.EnableMovement()
	b.EnableMovement()
	a.SetInput(7, -3)
	b.SetInput(1, -1)
	a.Move(FixedDelta)
	b.Move(FixedDelta)
	if a.Pos() != b.Pos() {
		t.Fatalf("input magnitude leaked into movement: %+v vs %+v", a.Pos(), b.Pos())
	}
}

func TestPlayer_StaysInsideArea(t *testing.T) {
	tune := DefaultConfig().Museum.Player
	area := Bounds{Right: 100, Bottom: 100}
	p := NewPlayer(V(80, 50), tune, area, nil)
	p.EnableMovement()
	p.SetInput(1, 1)
	half := (tune.Size - tune.HitboxInset) / 2
	for i := 0; i < 60; i++ {
		p.Move(FixedDelta)
		if p.Hitbox().Right() > area.Right+1e-9 || p.Hitbox().Bottom() > area.Bottom+1e-9 {
			t.Fatalf("tick %d: hitbox %+v escaped the area", i, p.Hitbox())
		}
	}
	if math.Abs(p.Pos().X-(100-half)) > 1e-9 {
		t.Fatalf("expected player pinned at x=%.1f, got %.3f", 100-half, p.Pos().X)
	}
}

func TestPlayer_BlockedByObstacle(t *testing.T) {
	obs := []Obstacle{{Rect{X: 100, Y: 0, W: 50, H: 400}}}
	p := NewPlayer(V(50, 200), DefaultConfig().Museum.Player, openArea(), obs)
	p.EnableMovement()
	p.SetInput(1, 0)
	for i := 0; i < 60; i++ {
		p.Move(FixedDelta)
	}
	if p.Hitbox().Right() > 100 {
		t.Fatalf("player pushed into the obstacle: hitbox %+v", p.Hitbox())
	}
	if p.Velocity().X != 0 {
		t.Fatalf("resting against a wall should measure zero x velocity, got %.3f", p.Velocity().X)
	}
}

func TestPlayer_SprintDrainsAndRegenerates(t *testing.T) {
	tune := DefaultConfig().Museum.Player
	p := NewPlayer(V(200, 200), tune, openArea(), nil)
	p.EnableMovement()
	p.SetInput(1, 0)
	p.SetSprint(true)
	p.Move(FixedDelta)
	if step := p.Pos().X - 200; math.Abs(step-tune.Speed*tune.SprintMultiplier*FixedDelta) > 1e-9 {
		t.Fatalf("sprint step %.4f, want %.4f", step, tune.Speed*tune.SprintMultiplier*FixedDelta)
	}
	for i := 0; i < 59; i++ {
		p.Move(FixedDelta)
	}
	drained := p.Stamina()
	if drained >= tune.StaminaMax {
		t.Fatalf("stamina should drain while sprinting, got %.2f", drained)
	}
	p.SetSprint(false)
	for i := 0; i < 60; i++ {
		p.Move(FixedDelta)
	}
	if p.Stamina() <= drained {
		t.Fatalf("stamina should regenerate, %.2f → %.2f", drained, p.Stamina())
	}
}

func TestPlayer_SprintStopsWhenExhausted(t *testing.T) {
	tune := DefaultConfig().Museum.Player
	p := NewPlayer(V(200, 200), tune, openArea(), nil)
	p.EnableMovement()
	p.SetInput(1, 0)
	p.SetSprint(true)
	for i := 0; i < 600 && p.Stamina() > 0; i++ {
		p.Move(FixedDelta)
	}
	if p.Stamina() != 0 || !p.Exhausted() {
		t.Fatalf("expected stamina to run out, got %.2f", p.Stamina())
	}
	if p.Sprinting() {
		t.Fatalf("sprint should stop once stamina is gone (stamina %.2f)", p.Stamina())
	}
	before := p.Pos().X
	p.Move(FixedDelta)
	if step := p.Pos().X - before; math.Abs(step-tune.Speed*FixedDelta) > 1e-9 {
		t.Fatalf("exhausted player should walk at base speed, step %.4f", step)
	}
}

func TestPlayer_SmoothingEasesIn(t *testing.T) {
	tune := DefaultConfig().Patintero.Player
	p := NewPlayer(V(500, 500), tune, openArea(), nil)
	p.EnableMovement()
	p.SetInput(1, 0)
	p.Move(FixedDelta)
	first := p.Velocity().X
	if first <= 0 || first >= tune.Speed {
		t.Fatalf("smoothed first-tick velocity should be between 0 and %.0f, got %.2f", tune.Speed, first)
	}
	for i := 0; i < 120; i++ {
		p.Move(FixedDelta)
	}
	if math.Abs(p.Velocity().X-tune.Speed) > 1 {
		t.Fatalf("velocity should settle at %.0f, got %.2f", tune.Speed, p.Velocity().X)
	}
}
