package loader

import (
	"errors"
	"math"
	"testing"

	"github.com/nathoo/tilequest/types"
)

func parseConfig(t *testing.T, src string) (*types.Config, error) {
	t.Helper()
	cfg, _, err := Parse("test.lua", src)
	return cfg, err
}

func configErr(t *testing.T, err error) *ConfigError {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not a *ConfigError: %v", err, err)
	}
	return ce
}

const tinyWorld = `
local tile_flags = require("tile_flags")
local entity_flags = require("entity_flags")

local W = tile_flags.WALL
local F = tile_flags.FLOOR + tile_flags.PLAYER_START
local B = tile_flags.FLOOR
local I = tile_flags.FLOOR + tile_flags.ITEM_START + tile_flags.NPC_START

function main()
	return Ok({
		segments = {
			{
				width = 7,
				tiles = {
					F, F, F, F, F, F, F,
					F, W, W, F, W, W, F,
					F, W, B, I, B, W, F,
					F, F, I, W, I, F, F,
					F, W, B, I, B, W, F,
					F, W, W, I, W, W, F,
					F, F, F, F, F, F, F,
				},
			},
		},
		entities = {
			{ flags = entity_flags.COLLECTABLE, tile_sprite = 24 },
		},
	})
end
`

func TestParse_TinyWorld(t *testing.T) {
	cfg, err := parseConfig(t, tinyWorld)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(cfg.Segments))
	}
	seg := cfg.Segments[0]
	if seg.Width != 7 || len(seg.Tiles) != 49 {
		t.Errorf("segment width %d with %d tiles, want 7 and 49", seg.Width, len(seg.Tiles))
	}
	if seg.Tiles[8] != types.Wall {
		t.Errorf("tile 8 = %d, want wall", seg.Tiles[8])
	}
	if !seg.Tiles[17].Has(types.Floor | types.ItemStart | types.NPCStart) {
		t.Errorf("tile 17 = %d", seg.Tiles[17])
	}
	if len(cfg.Hallways) != 1 || cfg.Hallways[0] != types.HallwayNone {
		t.Errorf("hallways = %v, want [none]", cfg.Hallways)
	}
}

func TestParse_NoSegments(t *testing.T) {
	_, err := parseConfig(t, `function main() return Ok({ segments = {} }) end`)
	ce := configErr(t, err)
	if ce.Kind != NoSegmentsFound {
		t.Errorf("Kind = %v, want no segments found", ce.Kind)
	}
}

func TestParse_UnknownTileBit(t *testing.T) {
	_, err := parseConfig(t, `function main()
		return Ok({ segments = { { width = 2, tiles = { 1, 0xDEADBEEF } } } })
	end`)
	ce := configErr(t, err)
	if ce.Kind != UnexpectedTileKind {
		t.Fatalf("Kind = %v, want unexpected tile kind", ce.Kind)
	}
	if ce.Index != 1 || ce.Value != 0xDEADBEEF {
		t.Errorf("index %d got %#x", ce.Index, ce.Value)
	}
	if ce.Parent != "segments[0]" {
		t.Errorf("Parent = %q", ce.Parent)
	}
}

func TestResolveDefRef_Overflow(t *testing.T) {
	ref := map[string]any{"kind": refRelative, "value": int64(1)}
	_, err := resolveDefRef(ref, "wants[0]", "entities[65535]", math.MaxUint16, maxEntities)
	ce := configErr(t, err)
	if ce.Kind != DefIDOverflow {
		t.Errorf("Kind = %v, want def id overflow", ce.Kind)
	}
}

func TestResolveDefRef(t *testing.T) {
	tests := []struct {
		name    string
		kind    int64
		value   int64
		current types.DefID
		want    types.DefID
		errKind ErrorKind
		wantErr bool
	}{
		{"relative forward", refRelative, 2, 1, 3, 0, false},
		{"relative back", refRelative, -1, 1, 0, 0, false},
		{"relative negative", refRelative, -2, 1, 0, DefIDOverflow, true},
		{"absolute", refAbsolute, 4, 0, 4, 0, false},
		{"absolute out of range", refAbsolute, 5, 0, 0, OutOfBoundsDefID, true},
		{"relative out of range", refRelative, 3, 2, 0, OutOfBoundsDefID, true},
		{"unknown kind", 7, 0, 0, 0, UnknownEntityDefIDRefKind, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := map[string]any{"kind": tt.kind, "value": tt.value}
			got, err := resolveDefRef(ref, "wants[0]", "entities[0]", tt.current, 5)
			if tt.wantErr {
				if ce := configErr(t, err); ce.Kind != tt.errKind {
					t.Errorf("Kind = %v, want %v", ce.Kind, tt.errKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParse_ExtractErrors(t *testing.T) {
	seg := `{ { width = 1, tiles = { 1 } } }`
	tests := []struct {
		name   string
		body   string
		kind   ErrorKind
		key    string
		parent string
	}{
		{"missing segments", `{ entities = {} }`, FieldMissing, "segments", "config"},
		{"segments not a list", `{ segments = 3 }`, TypeMismatch, "segments", "config"},
		{"width zero", `{ segments = { { width = 0, tiles = { 1 } } } }`, SizeError, "width", "segments[0]"},
		{"ragged tiles", `{ segments = { { width = 2, tiles = { 1, 1, 1 } } } }`, SizeError, "tiles", "segments[0]"},
		{"missing width", `{ segments = { { tiles = { 1 } } } }`, FieldMissing, "width", "segments[0]"},
		{"tile not an integer", `{ segments = { { width = 1, tiles = { "floor" } } } }`, TypeMismatch, "tiles[0]", "segments[0]"},
		{"no entities", `{ segments = ` + seg + `, entities = {} }`, NoEntitiesFound, "entities", "config"},
		{"missing flags", `{ segments = ` + seg + `, entities = { { tile_sprite = 1 } } }`, FieldMissing, "flags", "entities[0]"},
		{"bad entity flags", `{ segments = ` + seg + `, entities = { { flags = 64, tile_sprite = 1 } } }`, UnexpectedEntityKind, "flags", "entities[0]"},
		{"speech not a string", `{ segments = ` + seg + `, entities = { { flags = 0, tile_sprite = 1, speeches = { { 3 } } } } }`,
			TypeMismatch, "speeches[0][0]", "entities[0]"},
		{"unknown action", `{ segments = ` + seg + `, entities = { { flags = 1, tile_sprite = 1, on_collect = { { kind = 9 } } } } }`,
			UnknownCollectActionKind, "on_collect[0]", "entities[0]"},
		{"transform without to", `{ segments = ` + seg + `, entities = { { flags = 1, tile_sprite = 1,
			on_collect = { { kind = 0, from = { kind = 1, value = 0 } } } } } }`,
			FieldMissing, "to", "on_collect[0]"},
		{"unknown hallway", `{ segments = ` + seg + `, entities = { { flags = 0, tile_sprite = 1 } }, hallways = { { kind = 5 } } }`,
			UnknownHallwayKind, "hallways[0]", "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(t, "function main() return Ok("+tt.body+") end")
			ce := configErr(t, err)
			if ce.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v (%v)", ce.Kind, tt.kind, ce)
			}
			if ce.Key != tt.key || ce.Parent != tt.parent {
				t.Errorf("at %q in %q, want %q in %q", ce.Key, ce.Parent, tt.key, tt.parent)
			}
		})
	}
}

func TestParse_EntityFields(t *testing.T) {
	cfg, err := parseConfig(t, `
		local entity_flags = require("entity_flags")
		local entity_ids = require("entity_ids")
		local collect_actions = require("collect_actions")
		local hallways = require("hallways")
		function main()
			return Ok({
				segments = { { width = 1, tiles = { 1 } } },
				entities = {
					{ flags = entity_flags.DOOR, tile_sprite = 40 },
					{
						flags = entity_flags.COLLECTABLE + entity_flags.STEPPABLE,
						tile_sprite = 41,
						on_collect = { {
							kind = collect_actions.TRANSFORM,
							from = { kind = entity_ids.RELATIVE, value = -1 },
							to = { kind = entity_ids.ABSOLUTE, value = 2 },
						} },
						inventory_description = { { "A KEY" } },
					},
					{
						flags = 0,
						tile_sprite = 8,
						wants = { { kind = entity_ids.RELATIVE, value = -1 } },
						speeches = { { "HELLO THERE" }, {}, { "Bring me the key" } },
					},
				},
				hallways = { { kind = hallways.ICE_PUZZLE }, { kind = hallways.SWORD } },
			})
		end
	`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.Entities) != 3 {
		t.Fatalf("entities = %d", len(cfg.Entities))
	}
	key := cfg.Entities[1]
	if key.ID != 1 || len(key.OnCollect) != 1 {
		t.Fatalf("key = %+v", key)
	}
	if a := key.OnCollect[0]; a.Kind != types.ActionTransform || a.From != 0 || a.To != 2 {
		t.Errorf("action = %+v", a)
	}
	if key.InventoryDescriptions[0][0] != "a key" {
		t.Errorf("description = %q", key.InventoryDescriptions[0][0])
	}
	npc := cfg.Entities[2]
	if len(npc.Wants) != 1 || npc.Wants[0] != 1 {
		t.Errorf("wants = %v", npc.Wants)
	}
	if len(npc.Speeches) != 3 || len(npc.Speeches[1]) != 0 || npc.Speeches[0][0] != "hello there" {
		t.Errorf("speeches = %q", npc.Speeches)
	}
	if len(cfg.Hallways) != 2 || cfg.Hallways[0] != types.HallwayIcePuzzle || cfg.Hallways[1] != types.HallwaySword {
		t.Errorf("hallways = %v", cfg.Hallways)
	}
}

func TestParse_SpeechReflowed(t *testing.T) {
	cfg, err := parseConfig(t, `function main()
		return Ok({
			segments = { { width = 1, tiles = { 1 } } },
			entities = { { flags = 0, tile_sprite = 8, speeches = { {
				"one two three four five six seven eight nine ten eleven twelve thirteen",
			} } } },
		})
	end`)
	if err != nil {
		t.Fatal(err)
	}
	want := "one two three four five six seven eight nine ten\neleven twelve thirteen"
	if got := string(cfg.Entities[0].Speeches[0][0]); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
