package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/tilequest/types"
	lua "github.com/yuin/gopher-lua"
)

// constant is one NAME = VALUE entry of a helper constant module.
type constant struct {
	name  string
	value int64
}

// constModule is an importable table of named integer constants.
type constModule struct {
	name      string
	constants []constant
}

// Entity id reference kinds.
const (
	refRelative int64 = 0
	refAbsolute int64 = 1
)

// Hallway kinds as seen by scripts.
const (
	hallwayNone      int64 = 0
	hallwayIcePuzzle int64 = 1
	hallwaySword     int64 = 2
)

// collectTransform is the script-side collect action kind for Transform.
const collectTransform int64 = 0

var constModules = []constModule{
	{"tile_flags", []constant{
		{"WALL", int64(types.Wall)},
		{"FLOOR", int64(types.Floor)},
		{"PLAYER_START", int64(types.PlayerStart)},
		{"ITEM_START", int64(types.ItemStart)},
		{"NPC_START", int64(types.NPCStart)},
		{"DOOR_START", int64(types.DoorStart)},
	}},
	{"entity_flags", []constant{
		{"COLLECTABLE", int64(types.Collectable)},
		{"STEPPABLE", int64(types.Steppable)},
		{"VICTORY", int64(types.Victory)},
		{"DOOR", int64(types.Door)},
		{"NOT_SPAWNED_AT_START", int64(types.NotSpawnedAtStart)},
	}},
	{"entity_ids", []constant{
		{"RELATIVE", refRelative},
		{"ABSOLUTE", refAbsolute},
	}},
	{"collect_actions", []constant{
		{"TRANSFORM", collectTransform},
	}},
	{"hallways", []constant{
		{"NONE", hallwayNone},
		{"ICE_PUZZLE", hallwayIcePuzzle},
		{"SWORD", hallwaySword},
	}},
}

// Default spritesheet layout, in tile sprite indices.
const (
	tilesPerRow = 8
	mobBase     = 8
	itemBase    = 24
	doorBase    = 40
)

var (
	doorMaterials = []string{"gold", "iron", "carbon-steel"}
	doorColours   = []string{"red", "green", "blue"}
)

// helperModuleNames lists every name require() resolves, in registration order.
func helperModuleNames() []string {
	names := make([]string, 0, len(constModules)+1)
	for _, m := range constModules {
		names = append(names, m.name)
	}
	return append(names, "default_spritesheet")
}

// constModuleSource renders a constant module as one line of Lua so that the
// chunk occupies a single contiguous block.
func constModuleSource(m constModule) string {
	var b strings.Builder
	b.WriteString("local M = {}")
	for _, c := range m.constants {
		fmt.Fprintf(&b, " M.%s = %d", c.name, c.value)
	}
	b.WriteString(" return M")
	return b.String()
}

func luaStringList(xs []string) string {
	quoted := make([]string, len(xs))
	for i, x := range xs {
		quoted[i] = fmt.Sprintf("%q", x)
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}

// spritesheetSource renders the default_spritesheet module.
func spritesheetSource() string {
	parts := []string{
		"local M = {}",
		fmt.Sprintf("M.DOOR_MATERIALS = %s", luaStringList(doorMaterials)),
		fmt.Sprintf("M.DOOR_COLOURS = %s", luaStringList(doorColours)),
		fmt.Sprintf("M.WALL = %d M.FLOOR = %d M.PLAYER = %d", types.WallSprite, types.FloorSprite, types.PlayerSprite),
		fmt.Sprintf("function M.tile_sprite_xy(x, y) return y * %d + x end", tilesPerRow),
		fmt.Sprintf("function M.mob(n) return %d + n end", mobBase),
		fmt.Sprintf("function M.item(n) return %d + n end", itemBase),
		"local function index_of(xs, v) for i, x in ipairs(xs) do if x == v then return i - 1 end end return nil end",
		"function M.door_and_key_by_material_and_colour(material, colour)" +
			" local m = index_of(M.DOOR_MATERIALS, material)" +
			" if m == nil then error(\"unknown door material: \" .. tostring(material), 2) end" +
			" local c = index_of(M.DOOR_COLOURS, colour)" +
			" if c == nil then error(\"unknown door colour: \" .. tostring(colour), 2) end" +
			fmt.Sprintf(" local door = %d + 2 * (m * %d + c)", doorBase, len(doorColours)) +
			" return { door = door, key = door + 1 } end",
		"return M",
	}
	return strings.Join(parts, " ")
}

// okResult and errResult are the opaque values Ok() and Err() return.
type okResult struct{ value lua.LValue }
type errResult struct{ message string }

// registerHelpers preloads the helper modules and the Ok/Err constructors.
func registerHelpers(L *lua.LState) error {
	sources := make(map[string]string, len(constModules)+1)
	for _, m := range constModules {
		sources[m.name] = constModuleSource(m)
	}
	sources["default_spritesheet"] = spritesheetSource()

	for _, name := range helperModuleNames() {
		fn, err := L.Load(strings.NewReader(sources[name]), name)
		if err != nil {
			return fmt.Errorf("compiling helper module %s: %w", name, err)
		}
		L.PreloadModule(name, func(L *lua.LState) int {
			L.Push(fn)
			L.Call(0, 1)
			return 1
		})
	}

	// Ok(value)
	L.SetGlobal("Ok", L.NewFunction(func(L *lua.LState) int {
		ud := L.NewUserData()
		ud.Value = okResult{value: L.Get(1)}
		L.Push(ud)
		return 1
	}))

	// Err("message")
	L.SetGlobal("Err", L.NewFunction(func(L *lua.LState) int {
		ud := L.NewUserData()
		ud.Value = errResult{message: L.CheckString(1)}
		L.Push(ud)
		return 1
	}))

	return nil
}
