package game

import (
	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyDown reports whether a key is held this tick.
type keyDown func(ebiten.Key) bool

func anyDown(down keyDown, keys ...ebiten.Key) bool {
	for _, k := range keys {
		if down(k) {
			return true
		}
	}
	return false
}

// movementInput snapshots the movement keys into a sim.Input. Opposite
// keys cancel out.
func movementInput(down keyDown) sim.Input {
	var in sim.Input
	if anyDown(down, ebiten.KeyA, ebiten.KeyArrowLeft) {
		in.DX--
	}
	if anyDown(down, ebiten.KeyD, ebiten.KeyArrowRight) {
		in.DX++
	}
	if anyDown(down, ebiten.KeyW, ebiten.KeyArrowUp) {
		in.DY--
	}
	if anyDown(down, ebiten.KeyS, ebiten.KeyArrowDown) {
		in.DY++
	}
	in.Sprint = anyDown(down, ebiten.KeyShiftLeft, ebiten.KeyShiftRight)
	in.Craft = down(ebiten.KeyF)
	return in
}

// action is an edge-triggered command bound to one key.
type action int

const (
	actNone action = iota
	actRestart
	actSwitchScenario
	actCopyReport
	actToggleHUD
	actTogglePause
	actToggleDemo
	actToggleInspector
)

var actionKeys = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeyR, actRestart},
	{ebiten.KeyTab, actSwitchScenario},
	{ebiten.KeyC, actCopyReport},
	{ebiten.KeyH, actToggleHUD},
	{ebiten.KeyP, actTogglePause},
	{ebiten.KeyG, actToggleDemo},
	{ebiten.KeyI, actToggleInspector},
}

// pressedActions lists the actions whose key went down this tick.
func pressedActions(justPressed keyDown) []action {
	var out []action
	for _, b := range actionKeys {
		if justPressed(b.key) {
			out = append(out, b.act)
		}
	}
	return out
}

// ebitenKeys reads the live keyboard.
func ebitenKeys() (down, justPressed keyDown) {
	return ebiten.IsKeyPressed, inpututil.IsKeyJustPressed
}
