package sim

import (
	"math"
	"math/rand"
	"testing"
)

func TestComputeOffset_CentresTarget(t *testing.T) {
	b := Bounds{Right: 2000, Bottom: 2000}
	got := ComputeOffset(V(1000, 1000), V(1280, 720), b)
	if got != V(-360, -640) {
		t.Fatalf("expected (-360,-640), got %+v", got)
	}
}

func TestComputeOffset_ClampedAtEdges(t *testing.T) {
	b := Bounds{Right: 2000, Bottom: 2000}
	if got := ComputeOffset(V(0, 0), V(1280, 720), b); got != V(0, 0) {
		t.Fatalf("top-left target should pin to (0,0), got %+v", got)
	}
	if got := ComputeOffset(V(2000, 2000), V(1280, 720), b); got != V(-720, -1280) {
		t.Fatalf("bottom-right target should pin to (-720,-1280), got %+v", got)
	}
}

func TestComputeOffset_ViewportWiderThanWorld(t *testing.T) {
	b := Bounds{Right: 1200, Bottom: 900}
	view := V(1280, 720)
	for _, x := range []float64{-500, 0, 300, 600, 1200, 5000} {
		got := ComputeOffset(V(x, 450), view, b)
		if got.X != 0 {
			t.Fatalf("target x=%.0f: horizontal offset should stay pinned at 0, got %.2f", x, got.X)
		}
	}
}

// The view window never leaves the world on any axis the viewport fits in.
func TestComputeOffset_ClampInvariantRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- test
	for i := 0; i < 2000; i++ {
		b := Bounds{
			Left: rng.Float64()*400 - 200,
			Top:  rng.Float64()*400 - 200,
		}
		b.Right = b.Left + 200 + rng.Float64()*3000
		b.Bottom = b.Top + 200 + rng.Float64()*3000
		view := V(100+rng.Float64()*2000, 100+rng.Float64()*2000)
		target := V(rng.Float64()*8000-4000, rng.Float64()*8000-4000)

		off := ComputeOffset(target, view, b)
		checkAxis(t, i, "x", off.X, view.X, b.Left, b.Right)
		checkAxis(t, i, "y", off.Y, view.Y, b.Top, b.Bottom)
	}
}

func checkAxis(t *testing.T, i int, name string, off, view, lo, hi float64) {
	t.Helper()
	const eps = 1e-9
	if view > hi-lo {
		if math.Abs(off+lo) > eps {
			t.Fatalf("case %d %s: viewport larger than world should pin offset to %.2f, got %.2f", i, name, -lo, off)
		}
		return
	}
	left := -off
	if left < lo-eps || left+view > hi+eps {
		t.Fatalf("case %d %s: window [%.2f, %.2f] escapes world [%.2f, %.2f]", i, name, left, left+view, lo, hi)
	}
}

func TestCamera_SmoothingEasesTowardGoal(t *testing.T) {
	b := Bounds{Right: 4000, Bottom: 4000}
	cam := NewCamera(1000, 1000, b, 0.1)
	first := cam.Follow(V(1000, 1000), FixedDelta)
	if first != V(-500, -500) {
		t.Fatalf("first follow should snap, got %+v", first)
	}
	second := cam.Follow(V(2000, 1000), FixedDelta)
	if second.X >= first.X || second.X <= -1500 {
		t.Fatalf("smoothed offset should move part way from -500 toward -1500, got %.2f", second.X)
	}
	cam.Snap()
	if got := cam.Follow(V(2000, 1000), FixedDelta); got.X != -1500 {
		t.Fatalf("after Snap the camera should jump to the goal, got %.2f", got.X)
	}
}

func TestCamera_ToScreenAndBack(t *testing.T) {
	b := Bounds{Right: 4000, Bottom: 4000}
	cam := NewCamera(1000, 1000, b, 0)
	cam.Follow(V(1000, 1000), FixedDelta)
	r := Rect{X: 900, Y: 950, W: 10, H: 10}
	s := cam.ToScreen(r)
	if s.X != 400 || s.Y != 450 {
		t.Fatalf("expected screen rect at (400,450), got (%.0f,%.0f)", s.X, s.Y)
	}
	if w := cam.ToWorld(V(400, 450)); w != V(900, 950) {
		t.Fatalf("ToWorld should invert the offset, got %+v", w)
	}
	if !cam.Visible(r) {
		t.Fatal("rect in the middle of the view should be visible")
	}
	if cam.Visible(Rect{X: 3000, Y: 3000, W: 10, H: 10}) {
		t.Fatal("far rect should be culled")
	}
}
