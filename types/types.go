// Package types defines the configuration data structures shared by the
// loader, the world generator and the frame simulation.
// This package contains only type definitions and flag constants.
package types

import "github.com/nathoo/tilequest/engine/geom"

// TileFlags is the bitmask a config segment stores per cell.
type TileFlags uint32

const (
	Wall        TileFlags = 0
	Floor       TileFlags = 1
	PlayerStart TileFlags = 4
	ItemStart   TileFlags = 8
	NPCStart    TileFlags = 16
	DoorStart   TileFlags = 32

	// TileMask holds every known tile bit.
	TileMask = Floor | PlayerStart | ItemStart | NPCStart | DoorStart
)

// Has reports whether every bit in want is set. Start bits only mean
// anything together with Floor, so callers pass Floor|XStart.
func (f TileFlags) Has(want TileFlags) bool {
	return f&want == want
}

// EntityDefFlags is the bitmask describing an entity definition.
type EntityDefFlags uint32

const (
	Collectable       EntityDefFlags = 1
	Steppable         EntityDefFlags = 2
	Victory           EntityDefFlags = 4
	Door              EntityDefFlags = 8
	NotSpawnedAtStart EntityDefFlags = 16

	// EntityMask holds every known entity bit.
	EntityMask = Collectable | Steppable | Victory | Door | NotSpawnedAtStart
)

// Has reports whether every bit in want is set.
func (f EntityDefFlags) Has(want EntityDefFlags) bool {
	return f&want == want
}

// DefID is the dense index of an EntityDef.
type DefID uint16

// SpriteIndex is a tile sprite index on the BaseTiles sheet.
type SpriteIndex uint16

// Built-in tile sprites. Runtime tiles carry only a sprite: a configured cell
// with Floor becomes FloorSprite, anything else WallSprite.
const (
	WallSprite   SpriteIndex = 0
	FloorSprite  SpriteIndex = 1
	PlayerSprite SpriteIndex = 2
)

// Speech is one lowercased, reflowed page of dialog.
type Speech string

// CollectActionKind tags CollectAction variants.
type CollectActionKind uint8

const (
	// ActionTransform respecifies every entity of From into To.
	ActionTransform CollectActionKind = iota
)

// CollectAction is something that happens when an entity is collected.
type CollectAction struct {
	Kind CollectActionKind `json:"kind"`
	From DefID             `json:"from"`
	To   DefID             `json:"to"`
}

// HallwaySpec selects the sub-game played when travelling through a door.
type HallwaySpec uint8

const (
	HallwayNone HallwaySpec = iota
	HallwayIcePuzzle
	HallwaySword
)

func (h HallwaySpec) String() string {
	switch h {
	case HallwayNone:
		return "none"
	case HallwayIcePuzzle:
		return "ice-puzzle"
	case HallwaySword:
		return "sword"
	default:
		return "unknown"
	}
}

// WorldSegment is a rectangular room as configured: Width tiles per row.
type WorldSegment struct {
	Width geom.W      `json:"width"`
	Tiles []TileFlags `json:"tiles"`
}

// EntityDef is the configured definition of an entity. Its DefID is its
// index in Config.Entities.
type EntityDef struct {
	ID                    DefID           `json:"id"`
	Flags                 EntityDefFlags  `json:"flags"`
	TileSprite            SpriteIndex     `json:"tile_sprite"`
	Wants                 []DefID         `json:"wants,omitempty"`
	OnCollect             []CollectAction `json:"on_collect,omitempty"`
	Speeches              [][]Speech      `json:"-"`
	InventoryDescriptions [][]Speech      `json:"-"`
}

// Config is the validated result of evaluating a configuration program.
// Every sequence is non-empty and every DefID is in range.
type Config struct {
	Segments []WorldSegment
	Entities []EntityDef
	Hallways []HallwaySpec
}
