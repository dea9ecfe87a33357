// Package gen turns a seed and a Config into a playable world: four random
// segments, a placed player, paired doors between every pair of segments,
// and a solvable chain of fetch quests ending at the goal door.
package gen

import (
	"math"

	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/rng"
	"github.com/nathoo/tilequest/engine/state"
	"github.com/nathoo/tilequest/types"
)

const (
	// SegmentCount is how many segments every run has.
	SegmentCount = 4

	chainAttempts     = 16
	placementAttempts = 16
)

// Generated is a world ready to play plus the tables it is read with.
type Generated struct {
	World                 *state.World      `json:"world"`
	Speeches              *state.Speeches   `json:"speeches"`
	InventoryDescriptions *state.Speeches   `json:"inventory_descriptions"`
	EntityDefs            []types.EntityDef `json:"entity_defs"`
	GoalDoorTileSprite    types.SpriteIndex `json:"goal_door_tile_sprite"`
}

// desire is one (mob, wanted item) pair.
type desire struct {
	mob  types.DefID
	item types.DefID
}

type placeKind uint8

const (
	onFloor placeKind = iota
	inPocket
)

// placement says where one item of the chain goes.
type placement struct {
	item    types.DefID
	kind    placeKind
	segment state.SegmentID
	mob     types.DefID // for inPocket
}

type generator struct {
	r        *rng.RNG
	cfg      *types.Config
	flags    [][]types.TileFlags // per selected segment
	world    *state.World
	placed   map[state.Location]bool
	pairings int
}

// Generate builds a world. Every random choice is drawn from r in a fixed
// order, so the same seed and config always give the same world.
func Generate(r *rng.RNG, cfg *types.Config) (*Generated, error) {
	g := &generator{r: r, cfg: cfg, placed: map[state.Location]bool{}}

	if err := g.selectSegments(); err != nil {
		return nil, err
	}

	items, doors, desires, err := g.partition()
	if err != nil {
		return nil, err
	}

	speeches, descriptions, err := buildSpeeches(cfg.Entities)
	if err != nil {
		return nil, err
	}

	if err := g.placePlayer(); err != nil {
		return nil, err
	}
	if err := g.pairDoors(doors); err != nil {
		return nil, err
	}
	goal, goalSprite, err := g.placeGoalDoor(items)
	if err != nil {
		return nil, err
	}

	specs := g.chain(goal, desires)
	for _, spec := range specs {
		if err := g.materialize(spec); err != nil {
			return nil, err
		}
	}
	g.world.RefreshDesires()

	return &Generated{
		World:                 g.world,
		Speeches:              speeches,
		InventoryDescriptions: descriptions,
		EntityDefs:            cfg.Entities,
		GoalDoorTileSprite:    goalSprite,
	}, nil
}

func (g *generator) selectSegments() error {
	n := len(g.cfg.Segments)
	switch {
	case n == 0:
		return fail(ZeroSegments)
	case n > math.MaxUint16:
		return fail(TooManySegments)
	}
	segs := make([]state.Segment, SegmentCount)
	g.flags = make([][]types.TileFlags, SegmentCount)
	for i := range segs {
		cfg := g.cfg.Segments[g.r.Intn(n)]
		segs[i] = state.NewSegment(cfg)
		g.flags[i] = cfg.Tiles
	}
	g.world = state.NewWorld(segs)
	return nil
}

// partition buckets defs into mobs, items and doors and shuffles the
// buckets. Desires are collected in shuffled mob order.
func (g *generator) partition() (items, doors []types.DefID, desires []desire, err error) {
	defs := g.cfg.Entities
	var mobs []types.DefID
	for _, def := range defs {
		if !def.Flags.Has(types.Collectable) && !def.Flags.Has(types.Door) {
			mobs = append(mobs, def.ID)
		}
		if def.Flags.Has(types.Collectable) {
			items = append(items, def.ID)
		}
		if def.Flags.Has(types.Door) {
			doors = append(doors, def.ID)
		}
	}
	switch {
	case len(mobs) == 0:
		return nil, nil, nil, fail(NoMobsFound)
	case len(items) == 0:
		return nil, nil, nil, fail(NoItemsFound)
	case len(doors) == 0:
		return nil, nil, nil, fail(NoDoorsFound)
	}

	shuffle(g.r, mobs)
	shuffle(g.r, items)
	shuffle(g.r, doors)

	for _, m := range mobs {
		for _, want := range defs[m].Wants {
			if int(want) >= len(defs) {
				return nil, nil, nil, failDef(InvalidDesireID, want)
			}
			if !defs[want].Flags.Has(types.Collectable) {
				return nil, nil, nil, failDef(NonItemWasDesired, want)
			}
			desires = append(desires, desire{mob: m, item: want})
		}
	}
	return items, doors, desires, nil
}

func shuffle(r *rng.RNG, ids []types.DefID) {
	r.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}

func buildSpeeches(defs []types.EntityDef) (*state.Speeches, *state.Speeches, error) {
	speeches := &state.Speeches{}
	descriptions := &state.Speeches{}
	for _, def := range defs {
		if err := speeches.Push(def.ID, def.Speeches); err != nil {
			return nil, nil, &Error{Kind: InvalidSpeeches, Def: def.ID, HasDef: true, Err: err}
		}
		if err := descriptions.Push(def.ID, def.InventoryDescriptions); err != nil {
			return nil, nil, &Error{Kind: InvalidInventoryDescriptions, Def: def.ID, HasDef: true, Err: err}
		}
	}
	return speeches, descriptions, nil
}

// findCell picks a random cell of seg whose flags include want and that is
// not already taken, scanning from a random start with wrap-around.
func (g *generator) findCell(seg state.SegmentID, want types.TileFlags) (state.Location, bool) {
	tiles := g.flags[seg]
	width := g.world.Segments[seg].Width
	n := len(tiles)
	if n == 0 {
		return state.Location{}, false
	}
	start := g.r.Intn(n)
	for k := 0; k < n; k++ {
		i := (start + k) % n
		if !tiles[i].Has(want) {
			continue
		}
		loc := state.Location{Segment: seg, XY: geom.FromIndex(i, width)}
		if g.placed[loc] {
			continue
		}
		return loc, true
	}
	return state.Location{}, false
}

func (g *generator) take(want types.TileFlags, seg state.SegmentID) (state.Location, bool) {
	loc, ok := g.findCell(seg, want)
	if ok {
		g.placed[loc] = true
	}
	return loc, ok
}

func (g *generator) placePlayer() error {
	loc, ok := g.take(types.Floor|types.PlayerStart, 0)
	if !ok {
		loc, ok = g.take(types.Floor, 0)
	}
	if !ok {
		return fail(CannotPlacePlayer)
	}
	g.world.SegmentID = loc.Segment
	g.world.Player = state.Entity{XY: loc.XY, Sprite: types.PlayerSprite}
	return nil
}

// pairDoors links every pair of segments with one instance of each open
// door def. The pair's hallway cycles through the configured hallways.
func (g *generator) pairDoors(doors []types.DefID) error {
	for _, id := range doors {
		def := g.cfg.Entities[id]
		if !def.Flags.Has(types.Steppable) || def.Flags.Has(types.NotSpawnedAtStart) {
			continue
		}
		for i := state.SegmentID(0); i < SegmentCount; i++ {
			for j := i + 1; j < SegmentCount; j++ {
				a, ok := g.take(types.Floor|types.DoorStart, i)
				if !ok {
					return failDef(CannotPlaceDoor, id)
				}
				b, ok := g.take(types.Floor|types.DoorStart, j)
				if !ok {
					return failDef(CannotPlaceDoor, id)
				}
				hallway := g.nextHallway()

				da := state.FromDef(def, a.XY)
				da.DoorTarget, da.Hallway = &b, hallway
				db := state.FromDef(def, b.XY)
				db.DoorTarget, db.Hallway = &a, hallway
				g.world.Steppables.Insert(a, da)
				g.world.Steppables.Insert(b, db)
			}
		}
	}
	return nil
}

func (g *generator) nextHallway() types.HallwaySpec {
	hs := g.cfg.Hallways
	p := g.pairings
	g.pairings++
	if len(hs) == 0 {
		return types.HallwayNone
	}
	return hs[p%len(hs)]
}

// placeGoalDoor finds the first item, in random cyclic order, that
// transforms a spawnable door, and puts that door in segment 0. The item
// becomes the goal item.
func (g *generator) placeGoalDoor(items []types.DefID) (types.DefID, types.SpriteIndex, error) {
	defs := g.cfg.Entities
	start := g.r.Intn(len(items))
	for k := range items {
		item := items[(start+k)%len(items)]
		for _, a := range defs[item].OnCollect {
			if a.Kind != types.ActionTransform {
				continue
			}
			door := defs[a.From]
			if !door.Flags.Has(types.Door) || door.Flags.Has(types.NotSpawnedAtStart) {
				continue
			}
			loc, ok := g.take(types.Floor|types.DoorStart, 0)
			if !ok {
				return 0, 0, failDef(CannotPlaceDoor, door.ID)
			}
			g.world.Steppables.Insert(loc, state.FromDef(door, loc.XY))
			return item, door.TileSprite, nil
		}
	}
	return 0, 0, fail(NoGoalItemFound)
}

func (g *generator) randomSegment() state.SegmentID {
	return state.SegmentID(g.r.Intn(SegmentCount))
}

// chain builds the placement list. It starts with the goal item on the
// floor; each accepted desire replaces the last placement of some item X
// with "the desired item goes where X was, X goes in the desiring mob's
// pocket", which keeps the chain solvable.
func (g *generator) chain(goal types.DefID, desires []desire) []placement {
	n := len(desires)
	k, initial := 0, 0
	if n > 0 {
		k = 1 + g.r.Intn(n)
		initial = g.r.Intn(n)
	}

	var specs []placement
	for attempt := 0; attempt < chainAttempts; attempt++ {
		specs = []placement{{item: goal, kind: onFloor, segment: g.randomSegment()}}
		for step := 0; step < n && len(specs) < k+1; step++ {
			d := desires[(initial+step)%n]
			if g.r.Intn(n+1) >= k {
				continue
			}
			last := specs[len(specs)-1]
			specs = specs[:len(specs)-1]
			moved := last
			moved.item = d.item
			specs = append(specs, moved, placement{
				item:    last.item,
				kind:    inPocket,
				segment: g.randomSegment(),
				mob:     d.mob,
			})
		}
		if len(specs) >= k+1 {
			break
		}
	}
	return specs
}

// materialize puts one placement into the world. The first try uses the
// placement's segment; later tries reroll it.
func (g *generator) materialize(p placement) error {
	defs := g.cfg.Entities
	seg := p.segment
	for try := 0; try < placementAttempts; try++ {
		if try > 0 {
			seg = g.randomSegment()
		}
		switch p.kind {
		case onFloor:
			loc, ok := g.take(types.Floor|types.ItemStart, seg)
			if !ok {
				continue
			}
			g.world.Steppables.Insert(loc, state.FromDef(defs[p.item], loc.XY))
			return nil
		case inPocket:
			loc, ok := g.take(types.Floor|types.NPCStart, seg)
			if !ok {
				continue
			}
			mob := state.FromDef(defs[p.mob], loc.XY)
			mob.Inventory = []state.Entity{state.FromDef(defs[p.item], loc.XY)}
			g.world.Mobs.Insert(loc, mob)
			return nil
		}
	}
	return failDef(CouldNotPlaceItem, p.item)
}
