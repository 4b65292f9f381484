package sim

import (
	"errors"
	"testing"
)

func TestFindSpawn_RespectsDistanceAndObstacles(t *testing.T) {
	rng := testRNG(3)
	obs := []Obstacle{{Rect{X: 0, Y: 0, W: 500, H: 1000}}}
	req := SpawnRequest{
		Bounds:  Bounds{Right: 1000, Bottom: 1000},
		Size:    30,
		Avoid:   V(600, 500),
		MinDist: 200,
	}
	for i := 0; i < 50; i++ {
		p, err := FindSpawn(rng, req, obs)
		if err != nil {
			t.Fatalf("FindSpawn: %v", err)
		}
		if p.Dist(req.Avoid) < req.MinDist {
			t.Fatalf("spawn %+v closer than %.0f to %+v", p, req.MinDist, req.Avoid)
		}
		if AnyOverlap(RectCentered(p, 30, 30), obs) {
			t.Fatalf("spawn %+v overlaps an obstacle", p)
		}
	}
}

func TestFindSpawn_RelaxesDistance(t *testing.T) {
	req := SpawnRequest{
		Bounds:   Bounds{Right: 100, Bottom: 100},
		Size:     10,
		Avoid:    V(50, 50),
		MinDist:  10000,
		Attempts: 20,
	}
	p, err := FindSpawn(testRNG(1), req, nil)
	if err != nil {
		t.Fatalf("relaxed search should succeed: %v", err)
	}
	if !req.Bounds.Contains(p) {
		t.Fatalf("spawn %+v outside bounds", p)
	}
}

func TestFindSpawn_NoRoom(t *testing.T) {
	req := SpawnRequest{
		Bounds:   Bounds{Right: 100, Bottom: 100},
		Size:     10,
		Attempts: 20,
	}
	obs := []Obstacle{{Rect{X: -10, Y: -10, W: 120, H: 120}}}
	_, err := FindSpawn(testRNG(1), req, obs)
	if !errors.Is(err, ErrNoSpawn) {
		t.Fatalf("expected ErrNoSpawn, got %v", err)
	}
}

func TestFindSpawn_AvoidsBlockers(t *testing.T) {
	zone := Rect{X: 0, Y: 0, W: 100, H: 200}
	req := SpawnRequest{
		Bounds:   Bounds{Right: 200, Bottom: 200},
		Size:     10,
		Blockers: []Rect{zone},
	}
	rng := testRNG(5)
	for i := 0; i < 50; i++ {
		p, err := FindSpawn(rng, req, nil)
		if err != nil {
			t.Fatalf("FindSpawn: %v", err)
		}
		if RectCentered(p, 10, 10).Intersects(zone) {
			t.Fatalf("spawn %+v inside a blocker", p)
		}
	}
}
