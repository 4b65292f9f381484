package sim

import (
	"math"
	"testing"
)

func TestAlert_GrowsBouncesAndExpires(t *testing.T) {
	a := NewAlert(1)
	if a.Active() {
		t.Fatal("new alert should be inactive")
	}
	a.Activate()
	if a.Scale() != alertStartScale {
		t.Fatalf("expected start scale %.1f, got %.2f", alertStartScale, a.Scale())
	}

	a.Update(0.05)
	if math.Abs(a.Scale()-0.5) > 1e-9 {
		t.Fatalf("expected scale 0.5 after 0.05s, got %.3f", a.Scale())
	}
	if a.BounceOffset() == 0 {
		t.Fatal("expected a bounce offset early in the animation")
	}

	a.Update(0.5)
	if a.Scale() != 1 {
		t.Fatalf("expected full scale after the grow phase, got %.3f", a.Scale())
	}
	if a.BounceOffset() != 0 {
		t.Fatal("bounce should stop after half a second")
	}
	if !a.Active() {
		t.Fatal("alert expired too early")
	}

	a.Update(0.5)
	if a.Active() {
		t.Fatal("alert should expire after its duration")
	}
}
