package loader

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// maxValueDepth bounds table nesting during conversion.
const maxValueDepth = 64

// toValue converts a Lua value into a tree of int64, float64, string, bool,
// []any and map[string]any. Tables keyed 1..n become lists, tables keyed by
// strings become maps, and an empty table becomes an empty map.
func toValue(v lua.LValue, depth int) (any, error) {
	if depth > maxValueDepth {
		return nil, fmt.Errorf("value nested deeper than %d tables", maxValueDepth)
	}
	switch val := v.(type) {
	case lua.LBool:
		return bool(val), nil
	case lua.LNumber:
		f := float64(val)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), nil
		}
		return f, nil
	case lua.LString:
		return string(val), nil
	case *lua.LTable:
		return tableValue(val, depth)
	case *lua.LNilType:
		return nil, fmt.Errorf("nil is not a value")
	default:
		return nil, fmt.Errorf("cannot convert %s", v.Type())
	}
}

func tableValue(tbl *lua.LTable, depth int) (any, error) {
	var ints, strs int
	var bad lua.LValue
	tbl.ForEach(func(k, _ lua.LValue) {
		switch key := k.(type) {
		case lua.LString:
			strs++
		case lua.LNumber:
			if f := float64(key); f >= 1 && f == math.Trunc(f) {
				ints++
				return
			}
			if bad == nil {
				bad = k
			}
		default:
			if bad == nil {
				bad = k
			}
		}
	})
	switch {
	case bad != nil:
		return nil, fmt.Errorf("table has a %s key %s", bad.Type(), bad.String())
	case ints > 0 && strs > 0:
		return nil, fmt.Errorf("table mixes list and map keys")
	}

	if ints > 0 {
		if tbl.MaxN() != ints {
			return nil, fmt.Errorf("list has holes")
		}
		list := make([]any, 0, ints)
		for i := 1; i <= ints; i++ {
			item, err := toValue(tbl.RawGetInt(i), depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list = append(list, item)
		}
		return list, nil
	}

	m := make(map[string]any, strs)
	var firstErr error
	tbl.ForEach(func(k, v lua.LValue) {
		if firstErr != nil {
			return
		}
		item, err := toValue(v, depth+1)
		if err != nil {
			firstErr = fmt.Errorf("%s: %w", string(k.(lua.LString)), err)
			return
		}
		m[string(k.(lua.LString))] = item
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

// typeName names a converted value for error messages.
func typeName(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case int64:
		return "integer"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "list"
	case map[string]any:
		if len(val) == 0 {
			return "empty table"
		}
		return "map"
	}
	return fmt.Sprintf("%T", v)
}
