// Package hallway holds the short sub-games played while walking through a
// door that has a hallway. A sub-game owns the screen until it reports that
// it is done.
package hallway

import (
	"github.com/nathoo/tilequest/engine/draw"
	"github.com/nathoo/tilequest/engine/input"
	"github.com/nathoo/tilequest/engine/rng"
	"github.com/nathoo/tilequest/types"
)

// Game is one sub-game instance.
type Game interface {
	// Update advances one frame and reports whether the game is complete.
	Update(in input.Input) bool
	Render(c *draw.Commands)
	Kind() types.HallwaySpec
}

// New starts the sub-game for kind, drawing any randomness from r. It
// returns nil for HallwayNone and unknown kinds.
func New(kind types.HallwaySpec, r *rng.RNG) Game {
	switch kind {
	case types.HallwayIcePuzzle:
		return NewIcePuzzle(r)
	case types.HallwaySword:
		return NewSword(r)
	}
	return nil
}

// pressedDir returns the direction pressed this frame, checking in the
// usual order.
func pressedDir(in input.Input) (input.Button, bool) {
	for _, b := range input.Directions {
		if in.PressedThisFrame(b) {
			return b, true
		}
	}
	return 0, false
}
