// Package effects implements the collection protocol. Every mutation of
// ownership and every transform goes through here.
package effects

import (
	"github.com/nathoo/tilequest/engine/events"
	"github.com/nathoo/tilequest/engine/state"
	"github.com/nathoo/tilequest/types"
)

// Collect removes the steppable at loc from the map and gives it to the
// player. It reports false, changing nothing, if nothing collectable is there.
func Collect(w *state.World, defs []types.EntityDef, loc state.Location) (state.Entity, []events.Event, bool) {
	e, ok := w.Steppables.Get(loc)
	if !ok || !e.Is(types.Collectable) {
		return state.Entity{}, nil, false
	}
	w.Steppables.Remove(loc)
	return e, Give(w, defs, e), true
}

// Give adds e to the player's inventory, fires its collect actions and
// re-evaluates every desire.
func Give(w *state.World, defs []types.EntityDef, e state.Entity) []events.Event {
	evs := []events.Event{{Kind: events.Collected, Def: e.Def}}
	w.Player.Inventory = append(w.Player.Inventory, e)
	if e.Is(types.Victory) {
		evs = append(evs, events.Event{Kind: events.Victory, Def: e.Def})
	}
	for _, a := range e.OnCollect {
		switch a.Kind {
		case types.ActionTransform:
			if Transform(w, defs, a.From, a.To) > 0 {
				evs = append(evs, events.Event{Kind: events.Transformed, Def: a.To})
			}
		}
	}
	w.RefreshDesires()
	return evs
}

// Transform respecifies every entity of def from, on any map or in any
// inventory, as def to. It returns how many entities changed. A transform
// onto the same def, or onto a def outside defs, changes nothing.
func Transform(w *state.World, defs []types.EntityDef, from, to types.DefID) int {
	if int(to) >= len(defs) || from == to {
		return 0
	}
	n := 0
	w.EachEntity(func(e *state.Entity) bool {
		if e.Def == from {
			e.Respecify(defs[to])
			n++
		}
		return true
	})
	return n
}

// Take removes the first inventory entry of def from the player and reports
// whether there was one.
func Take(w *state.World, def types.DefID) (state.Entity, bool) {
	inv := w.Player.Inventory
	for i := range inv {
		if inv[i].Def == def {
			e := inv[i]
			w.Player.Inventory = append(inv[:i:i], inv[i+1:]...)
			return e, true
		}
	}
	return state.Entity{}, false
}
