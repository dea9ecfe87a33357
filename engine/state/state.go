// Package state holds the runtime world: segments, entities keyed by
// location, and the speeches table. Entities are addressed by Location,
// never by pointer, so transforms rewrite them in place.
package state

import (
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/types"
)

// SegmentID indexes World.Segments.
type SegmentID uint16

// Location is a cell in a particular segment. Locations order by segment,
// then row-major within it.
type Location struct {
	Segment SegmentID `json:"segment"`
	XY      geom.XY   `json:"xy"`
}

// Less orders locations lexicographically.
func (l Location) Less(o Location) bool {
	if l.Segment != o.Segment {
		return l.Segment < o.Segment
	}
	return l.XY.Less(o.XY)
}

// DesireState is how close a mob is to getting something it wants. The
// values double as speech states.
type DesireState uint8

const (
	Unsatisfiable       DesireState = 0
	Satisfied           DesireState = 1
	Unsatisfied         DesireState = 2
	SatisfactionInSight DesireState = 16
)

// Precedence ranks states when several desires compete for one speech:
// Unsatisfied beats SatisfactionInSight beats Satisfied beats Unsatisfiable.
func (d DesireState) Precedence() int {
	switch d {
	case Unsatisfied:
		return 3
	case SatisfactionInSight:
		return 2
	case Satisfied:
		return 1
	}
	return 0
}

func (d DesireState) String() string {
	switch d {
	case Unsatisfiable:
		return "unsatisfiable"
	case Satisfied:
		return "satisfied"
	case Unsatisfied:
		return "unsatisfied"
	case SatisfactionInSight:
		return "satisfaction-in-sight"
	}
	return "unknown"
}

// Desire is one wanted def and its current state.
type Desire struct {
	Def   types.DefID `json:"def"`
	State DesireState `json:"state"`
}

// Entity is anything placed in the world, including the player and items
// carried in inventories.
type Entity struct {
	XY         geom.XY               `json:"xy"`
	OffsetX    geom.Offset           `json:"offset_x"`
	OffsetY    geom.Offset           `json:"offset_y"`
	Def        types.DefID           `json:"def"`
	Flags      types.EntityDefFlags  `json:"flags"`
	Sprite     types.SpriteIndex     `json:"sprite"`
	Inventory  []Entity              `json:"inventory,omitempty"`
	DoorTarget *Location             `json:"door_target,omitempty"`
	Hallway    types.HallwaySpec     `json:"hallway,omitempty"`
	Wants      []Desire              `json:"wants,omitempty"`
	OnCollect  []types.CollectAction `json:"on_collect,omitempty"`
}

// FromDef creates an entity at xy specified by def.
func FromDef(def types.EntityDef, xy geom.XY) Entity {
	e := Entity{XY: xy}
	e.Respecify(def)
	return e
}

// Respecify replaces every def-derived field with def's, keeping position,
// inventory, and door link.
func (e *Entity) Respecify(def types.EntityDef) {
	e.Def = def.ID
	e.Flags = def.Flags
	e.Sprite = def.TileSprite
	e.Wants = nil
	for _, w := range def.Wants {
		e.Wants = append(e.Wants, Desire{Def: w, State: Unsatisfiable})
	}
	e.OnCollect = append([]types.CollectAction(nil), def.OnCollect...)
}

// Is reports whether the entity carries every flag in f.
func (e *Entity) Is(f types.EntityDefFlags) bool {
	return e.Flags.Has(f)
}

// Owns reports whether def is somewhere in the entity's inventory.
func (e *Entity) Owns(def types.DefID) bool {
	for i := range e.Inventory {
		if e.Inventory[i].Def == def || e.Inventory[i].Owns(def) {
			return true
		}
	}
	return false
}

// Segment is a runtime room. Tiles carry only sprites.
type Segment struct {
	Width geom.W              `json:"width"`
	Tiles []types.SpriteIndex `json:"tiles"`
}

// NewSegment builds runtime tiles from a configured segment.
func NewSegment(cfg types.WorldSegment) Segment {
	seg := Segment{Width: cfg.Width, Tiles: make([]types.SpriteIndex, len(cfg.Tiles))}
	for i, f := range cfg.Tiles {
		if f.Has(types.Floor) {
			seg.Tiles[i] = types.FloorSprite
		} else {
			seg.Tiles[i] = types.WallSprite
		}
	}
	return seg
}

// Height is the number of tile rows.
func (s Segment) Height() geom.H {
	if s.Width == 0 {
		return 0
	}
	return geom.H(len(s.Tiles) / int(s.Width))
}

// Tile returns the sprite at xy, and false outside the segment.
func (s Segment) Tile(xy geom.XY) (types.SpriteIndex, bool) {
	i, ok := xy.Index(s.Width, len(s.Tiles))
	if !ok {
		return 0, false
	}
	return s.Tiles[i], true
}

// Passable reports whether the tile at xy can be walked on.
func (s Segment) Passable(xy geom.XY) bool {
	t, ok := s.Tile(xy)
	return ok && t == types.FloorSprite
}

// World is everything that changes during a run.
type World struct {
	Segments   []Segment `json:"segments"`
	SegmentID  SegmentID `json:"segment_id"`
	Player     Entity    `json:"player"`
	Steppables EntityMap `json:"steppables"`
	Mobs       EntityMap `json:"mobs"`
}

// NewWorld returns a world over segs with empty entity maps.
func NewWorld(segs []Segment) *World {
	return &World{Segments: segs, Steppables: NewEntityMap(), Mobs: NewEntityMap()}
}

// Current returns the segment the player is in.
func (w *World) Current() Segment {
	return w.Segments[w.SegmentID]
}

// PlayerLocation returns where the player stands.
func (w *World) PlayerLocation() Location {
	return Location{Segment: w.SegmentID, XY: w.Player.XY}
}

// Occupied reports whether any entity is at loc.
func (w *World) Occupied(loc Location) bool {
	return w.Steppables.Has(loc) || w.Mobs.Has(loc)
}

// Enterable reports whether the player may move onto loc: the tile is floor
// and nothing that cannot be stepped on is there.
func (w *World) Enterable(loc Location) bool {
	if int(loc.Segment) >= len(w.Segments) || !w.Segments[loc.Segment].Passable(loc.XY) {
		return false
	}
	if w.Mobs.Has(loc) {
		return false
	}
	if e, ok := w.Steppables.Get(loc); ok && !e.Is(types.Steppable) {
		return false
	}
	return true
}

// EachEntity visits every entity in the world and everything carried,
// including the player's inventory but not the player, in a fixed order.
// Visiting stops when fn returns false.
func (w *World) EachEntity(fn func(e *Entity) bool) {
	var walk func(e *Entity) bool
	walk = func(e *Entity) bool {
		if !fn(e) {
			return false
		}
		for i := range e.Inventory {
			if !walk(&e.Inventory[i]) {
				return false
			}
		}
		return true
	}
	for i := range w.Player.Inventory {
		if !walk(&w.Player.Inventory[i]) {
			return
		}
	}
	for _, m := range []*EntityMap{&w.Steppables, &w.Mobs} {
		cont := true
		m.Update(func(_ Location, e *Entity) bool {
			cont = walk(e)
			return cont
		})
		if !cont {
			return
		}
	}
}

// Exists reports whether any entity of def exists anywhere.
func (w *World) Exists(def types.DefID) bool {
	found := false
	w.EachEntity(func(e *Entity) bool {
		found = e.Def == def
		return !found
	})
	return found
}

// visibleInCurrent reports whether def lies on the floor of the current
// segment.
func (w *World) visibleInCurrent(def types.DefID) bool {
	seen := false
	w.Steppables.Each(func(loc Location, e Entity) bool {
		seen = loc.Segment == w.SegmentID && e.Def == def
		return !seen
	})
	return seen
}

// RefreshDesires re-evaluates every mob's desires. A desire is satisfied
// once the player or the mob itself owns the wanted def.
func (w *World) RefreshDesires() {
	w.Mobs.Update(func(_ Location, mob *Entity) bool {
		for i := range mob.Wants {
			d := &mob.Wants[i]
			switch {
			case w.Player.Owns(d.Def) || mob.Owns(d.Def):
				d.State = Satisfied
			case w.visibleInCurrent(d.Def):
				d.State = SatisfactionInSight
			case w.Exists(d.Def):
				d.State = Unsatisfied
			default:
				d.State = Unsatisfiable
			}
		}
		return true
	})
}
