// Package dialogue picks what an NPC says and handles trades.
package dialogue

import (
	"github.com/nathoo/tilequest/engine/effects"
	"github.com/nathoo/tilequest/engine/events"
	"github.com/nathoo/tilequest/engine/state"
	"github.com/nathoo/tilequest/types"
)

// Key returns the speech key for a mob: its def and the highest-precedence
// state among its desires, or state 0 if it wants nothing.
func Key(mob state.Entity) state.SpeechKey {
	best := state.Unsatisfiable
	for _, d := range mob.Wants {
		if d.State.Precedence() > best.Precedence() {
			best = d.State
		}
	}
	return state.SpeechKey{Def: mob.Def, State: uint8(best)}
}

// Speech returns the pages a mob says right now.
func Speech(speeches *state.Speeches, mob state.Entity) ([]types.Speech, bool) {
	return speeches.Lookup(Key(mob))
}

// Trade lets the mob at loc take a wanted item the player carries. The mob
// keeps only that item and hands over everything else in its pocket, wanted
// or not, through the collection protocol. It reports false if no trade happened.
func Trade(w *state.World, defs []types.EntityDef, loc state.Location) ([]events.Event, bool) {
	mob, ok := w.Mobs.Ref(loc)
	if !ok {
		return nil, false
	}
	var wanted state.Entity
	found := false
	for _, d := range mob.Wants {
		if wanted, found = effects.Take(w, d.Def); found {
			break
		}
	}
	if !found {
		return nil, false
	}

	give := mob.Inventory
	mob.Inventory = []state.Entity{wanted}

	evs := []events.Event{{Kind: events.Traded, Def: wanted.Def}}
	for _, e := range give {
		evs = append(evs, effects.Give(w, defs, e)...)
	}
	w.RefreshDesires()
	return evs, true
}
