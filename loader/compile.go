// Package loader evaluates Lua configuration programs into types.Config.
// The Lua VM is discarded after loading; nothing scripted runs per frame.
package loader

import (
	"fmt"
	"math"
	"strings"

	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/text"
	"github.com/nathoo/tilequest/types"
)

const (
	rootKey = "config"

	// maxEntities is the number of DefIDs a uint16 can address.
	maxEntities = math.MaxUint16 + 1
)

func indexed(key string, i int) string {
	return fmt.Sprintf("%s[%d]", key, i)
}

// field returns m[key] or a FieldMissing error.
func field(m map[string]any, key, parent string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, &ConfigError{Kind: FieldMissing, Key: key, Parent: parent}
	}
	return v, nil
}

func mismatch(key, parent, expected string, got any) error {
	return &ConfigError{Kind: TypeMismatch, Key: key, Parent: parent, Expected: expected, Got: typeName(got)}
}

func asInt(v any, key, parent string) (int64, error) {
	n, ok := v.(int64)
	if !ok {
		return 0, mismatch(key, parent, "integer", v)
	}
	return n, nil
}

func asString(v any, key, parent string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", mismatch(key, parent, "string", v)
	}
	return s, nil
}

// asList accepts a list, or an empty table which has no list or map shape.
func asList(v any, key, parent string) ([]any, error) {
	switch val := v.(type) {
	case []any:
		return val, nil
	case map[string]any:
		if len(val) == 0 {
			return nil, nil
		}
	}
	return nil, mismatch(key, parent, "list", v)
}

func asMap(v any, key, parent string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, mismatch(key, parent, "map", v)
	}
	return m, nil
}

func intField(m map[string]any, key, parent string) (int64, error) {
	v, err := field(m, key, parent)
	if err != nil {
		return 0, err
	}
	return asInt(v, key, parent)
}

func mapField(m map[string]any, key, parent string) (map[string]any, error) {
	v, err := field(m, key, parent)
	if err != nil {
		return nil, err
	}
	return asMap(v, key, parent)
}

func listField(m map[string]any, key, parent string) ([]any, error) {
	v, err := field(m, key, parent)
	if err != nil {
		return nil, err
	}
	return asList(v, key, parent)
}

// optionalList returns nil for an absent key.
func optionalList(m map[string]any, key, parent string) ([]any, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	return asList(v, key, parent)
}

// Extract converts an evaluated program result into a Config.
func Extract(top map[string]any) (*types.Config, error) {
	segments, err := extractSegments(top)
	if err != nil {
		return nil, err
	}
	entities, err := extractEntities(top)
	if err != nil {
		return nil, err
	}
	hallways, err := extractHallways(top)
	if err != nil {
		return nil, err
	}
	return &types.Config{Segments: segments, Entities: entities, Hallways: hallways}, nil
}

func extractSegments(top map[string]any) ([]types.WorldSegment, error) {
	list, err := listField(top, "segments", rootKey)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, &ConfigError{Kind: NoSegmentsFound, Key: "segments", Parent: rootKey}
	}
	out := make([]types.WorldSegment, 0, len(list))
	for i, raw := range list {
		seg, err := extractSegment(raw, indexed("segments", i))
		if err != nil {
			return nil, err
		}
		out = append(out, seg)
	}
	return out, nil
}

func extractSegment(raw any, parent string) (types.WorldSegment, error) {
	var seg types.WorldSegment
	m, err := asMap(raw, parent, rootKey)
	if err != nil {
		return seg, err
	}
	width, err := intField(m, "width", parent)
	if err != nil {
		return seg, err
	}
	if width < 1 || width > math.MaxUint16 {
		return seg, &ConfigError{Kind: SizeError, Key: "width", Parent: parent, Value: width,
			Detail: fmt.Sprintf("width %d is outside 1..%d", width, math.MaxUint16)}
	}
	tiles, err := listField(m, "tiles", parent)
	if err != nil {
		return seg, err
	}
	if len(tiles) == 0 {
		return seg, &ConfigError{Kind: SizeError, Key: "tiles", Parent: parent, Detail: "no tiles"}
	}
	if int64(len(tiles))%width != 0 {
		return seg, &ConfigError{Kind: SizeError, Key: "tiles", Parent: parent,
			Detail: fmt.Sprintf("%d tiles is not a multiple of width %d", len(tiles), width)}
	}
	if int64(len(tiles))/width > math.MaxUint16 {
		return seg, &ConfigError{Kind: SizeError, Key: "tiles", Parent: parent,
			Detail: fmt.Sprintf("%d rows exceeds %d", int64(len(tiles))/width, math.MaxUint16)}
	}

	seg.Width = geom.W(width)
	seg.Tiles = make([]types.TileFlags, len(tiles))
	for j, t := range tiles {
		v, err := asInt(t, indexed("tiles", j), parent)
		if err != nil {
			return seg, err
		}
		if v < 0 || v > math.MaxUint32 || types.TileFlags(v)&^types.TileMask != 0 {
			return seg, &ConfigError{Kind: UnexpectedTileKind, Key: "tiles", Parent: parent, Index: j, Value: v}
		}
		seg.Tiles[j] = types.TileFlags(v)
	}
	return seg, nil
}

func extractEntities(top map[string]any) ([]types.EntityDef, error) {
	list, err := listField(top, "entities", rootKey)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, &ConfigError{Kind: NoEntitiesFound, Key: "entities", Parent: rootKey}
	}
	if len(list) > maxEntities {
		return nil, &ConfigError{Kind: TooManyEntityDefinitions, Key: "entities", Parent: rootKey, Value: int64(len(list))}
	}
	out := make([]types.EntityDef, 0, len(list))
	for i, raw := range list {
		def, err := extractEntity(raw, types.DefID(i), len(list))
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

func extractEntity(raw any, id types.DefID, count int) (types.EntityDef, error) {
	parent := indexed("entities", int(id))
	def := types.EntityDef{ID: id}
	m, err := asMap(raw, parent, rootKey)
	if err != nil {
		return def, err
	}

	flags, err := intField(m, "flags", parent)
	if err != nil {
		return def, err
	}
	if flags < 0 || flags > math.MaxUint32 || types.EntityDefFlags(flags)&^types.EntityMask != 0 {
		return def, &ConfigError{Kind: UnexpectedEntityKind, Key: "flags", Parent: parent, Index: int(id), Value: flags}
	}
	def.Flags = types.EntityDefFlags(flags)

	sprite, err := intField(m, "tile_sprite", parent)
	if err != nil {
		return def, err
	}
	if sprite < 0 || sprite > math.MaxUint16 {
		return def, &ConfigError{Kind: SizeError, Key: "tile_sprite", Parent: parent, Value: sprite,
			Detail: fmt.Sprintf("sprite %d is outside 0..%d", sprite, math.MaxUint16)}
	}
	def.TileSprite = types.SpriteIndex(sprite)

	if def.Speeches, err = extractSpeeches(m, "speeches", parent); err != nil {
		return def, err
	}
	if def.InventoryDescriptions, err = extractSpeeches(m, "inventory_description", parent); err != nil {
		return def, err
	}

	wants, err := optionalList(m, "wants", parent)
	if err != nil {
		return def, err
	}
	for j, w := range wants {
		key := indexed("wants", j)
		ref, err := asMap(w, key, parent)
		if err != nil {
			return def, err
		}
		want, err := resolveDefRef(ref, key, parent, id, count)
		if err != nil {
			return def, err
		}
		def.Wants = append(def.Wants, want)
	}

	actions, err := optionalList(m, "on_collect", parent)
	if err != nil {
		return def, err
	}
	for j, a := range actions {
		action, err := extractCollectAction(a, indexed("on_collect", j), parent, id, count)
		if err != nil {
			return def, err
		}
		def.OnCollect = append(def.OnCollect, action)
	}
	return def, nil
}

// extractSpeeches reads an optional list of lists of strings. Every line is
// lowercased and reflowed to the speech panel width.
func extractSpeeches(m map[string]any, key, parent string) ([][]types.Speech, error) {
	lists, err := optionalList(m, key, parent)
	if err != nil {
		return nil, err
	}
	var out [][]types.Speech
	for i, raw := range lists {
		inner := indexed(key, i)
		lines, err := asList(raw, inner, parent)
		if err != nil {
			return nil, err
		}
		speeches := make([]types.Speech, 0, len(lines))
		for j, l := range lines {
			s, err := asString(l, indexed(inner, j), parent)
			if err != nil {
				return nil, err
			}
			speeches = append(speeches, types.Speech(text.Reflow(strings.ToLower(s), text.SpeechColumns)))
		}
		out = append(out, speeches)
	}
	return out, nil
}

// resolveDefRef resolves a { kind, value } reference made from entity current.
func resolveDefRef(ref map[string]any, key, parent string, current types.DefID, count int) (types.DefID, error) {
	kind, err := intField(ref, "kind", key)
	if err != nil {
		return 0, err
	}
	value, err := intField(ref, "value", key)
	if err != nil {
		return 0, err
	}

	var id int64
	switch kind {
	case refRelative:
		id = int64(current) + value
		if id < 0 || id > math.MaxUint16 {
			return 0, &ConfigError{Kind: DefIDOverflow, Key: key, Parent: parent, Value: id,
				Detail: fmt.Sprintf("%d%+d does not fit a def id", current, value)}
		}
	case refAbsolute:
		id = value
	default:
		return 0, &ConfigError{Kind: UnknownEntityDefIDRefKind, Key: key, Parent: parent, Value: kind}
	}
	if id < 0 || id >= int64(count) {
		return 0, &ConfigError{Kind: OutOfBoundsDefID, Key: key, Parent: parent, Value: id,
			Detail: fmt.Sprintf("%d entities defined", count)}
	}
	return types.DefID(id), nil
}

func extractCollectAction(raw any, key, parent string, current types.DefID, count int) (types.CollectAction, error) {
	var action types.CollectAction
	m, err := asMap(raw, key, parent)
	if err != nil {
		return action, err
	}
	kind, err := intField(m, "kind", key)
	if err != nil {
		return action, err
	}
	switch kind {
	case collectTransform:
		action.Kind = types.ActionTransform
		from, err := mapField(m, "from", key)
		if err != nil {
			return action, err
		}
		to, err := mapField(m, "to", key)
		if err != nil {
			return action, err
		}
		if action.From, err = resolveDefRef(from, key+".from", parent, current, count); err != nil {
			return action, err
		}
		if action.To, err = resolveDefRef(to, key+".to", parent, current, count); err != nil {
			return action, err
		}
		return action, nil
	}
	return action, &ConfigError{Kind: UnknownCollectActionKind, Key: key, Parent: parent, Value: kind}
}

func extractHallways(top map[string]any) ([]types.HallwaySpec, error) {
	list, err := optionalList(top, "hallways", rootKey)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []types.HallwaySpec{types.HallwayNone}, nil
	}
	out := make([]types.HallwaySpec, 0, len(list))
	for i, raw := range list {
		key := indexed("hallways", i)
		m, err := asMap(raw, key, rootKey)
		if err != nil {
			return nil, err
		}
		kind, err := intField(m, "kind", key)
		if err != nil {
			return nil, err
		}
		switch kind {
		case hallwayNone:
			out = append(out, types.HallwayNone)
		case hallwayIcePuzzle:
			out = append(out, types.HallwayIcePuzzle)
		case hallwaySword:
			out = append(out, types.HallwaySword)
		default:
			return nil, &ConfigError{Kind: UnknownHallwayKind, Key: key, Parent: rootKey, Value: kind}
		}
	}
	return out, nil
}
