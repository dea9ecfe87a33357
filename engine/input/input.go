// Package input models the gamepad the engine reads each frame.
package input

import (
	"strings"

	"github.com/nathoo/tilequest/engine/geom"
)

// Button is a gamepad button bitmask.
type Button uint16

const (
	A Button = 1 << iota
	B
	Select
	Start
	Up
	Down
	Left
	Right
	// Reset is only delivered by hosts that support restarting a run.
	Reset
)

// Directions in the order interaction checks them.
var Directions = [...]Button{Up, Down, Left, Right}

// Has reports whether every bit of b is set.
func (g Button) Has(b Button) bool {
	return g&b == b && b != 0
}

// Dir maps a directional button to a direction.
func (g Button) Dir() (geom.Dir, bool) {
	switch g {
	case Up:
		return geom.Up, true
	case Down:
		return geom.Down, true
	case Left:
		return geom.Left, true
	case Right:
		return geom.Right, true
	}
	return 0, false
}

func (g Button) String() string {
	names := []struct {
		b    Button
		name string
	}{
		{A, "A"}, {B, "B"}, {Select, "SELECT"}, {Start, "START"},
		{Up, "UP"}, {Down, "DOWN"}, {Left, "LEFT"}, {Right, "RIGHT"}, {Reset, "RESET"},
	}
	var parts []string
	for _, n := range names {
		if g&n.b != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Parse looks up a button by its String name.
func Parse(name string) (Button, bool) {
	switch strings.ToUpper(name) {
	case "A":
		return A, true
	case "B":
		return B, true
	case "SELECT":
		return Select, true
	case "START":
		return Start, true
	case "UP":
		return Up, true
	case "DOWN":
		return Down, true
	case "LEFT":
		return Left, true
	case "RIGHT":
		return Right, true
	case "RESET":
		return Reset, true
	}
	return 0, false
}

// Input is the current and previous gamepad state.
type Input struct {
	Gamepad  Button
	Previous Button
}

// PressedThisFrame reports whether b went down this frame.
func (i Input) PressedThisFrame(b Button) bool {
	return i.Gamepad.Has(b) && !i.Previous.Has(b)
}

// ReleasedThisFrame reports whether b went up this frame.
func (i Input) ReleasedThisFrame(b Button) bool {
	return !i.Gamepad.Has(b) && i.Previous.Has(b)
}

// Held reports whether b is down, whether or not it was down last frame.
func (i Input) Held(b Button) bool {
	return i.Gamepad.Has(b)
}

// Press records a fresh press from the host. A key-repeat press for a button
// that was already held clears the previous bit so the press is seen once.
func (i *Input) Press(b Button) {
	if i.Previous.Has(b) {
		i.Previous &^= b
	}
	i.Gamepad |= b
}

// Release records the host letting go of b.
func (i *Input) Release(b Button) {
	i.Gamepad &^= b
}

// EndFrame copies the gamepad into the previous state.
func (i *Input) EndFrame() {
	i.Previous = i.Gamepad
}
