package state

import (
	"encoding/json"
	"slices"
)

// EntityMap holds at most one entity per Location. Iteration is always in
// Location order.
type EntityMap struct {
	m    map[Location]*Entity
	keys []Location // sorted
}

// NewEntityMap returns an empty map.
func NewEntityMap() EntityMap {
	return EntityMap{m: map[Location]*Entity{}}
}

func (em *EntityMap) init() {
	if em.m == nil {
		em.m = map[Location]*Entity{}
	}
}

// Len is the number of entities.
func (em *EntityMap) Len() int { return len(em.keys) }

// Has reports whether loc is occupied.
func (em *EntityMap) Has(loc Location) bool {
	_, ok := em.m[loc]
	return ok
}

// Get returns a copy of the entity at loc.
func (em *EntityMap) Get(loc Location) (Entity, bool) {
	e, ok := em.m[loc]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Ref returns the entity at loc for in-place modification.
func (em *EntityMap) Ref(loc Location) (*Entity, bool) {
	e, ok := em.m[loc]
	return e, ok
}

// Insert places e at loc and reports false, changing nothing, if loc is
// already occupied. The entity's XY is set from loc.
func (em *EntityMap) Insert(loc Location, e Entity) bool {
	em.init()
	if _, ok := em.m[loc]; ok {
		return false
	}
	e.XY = loc.XY
	em.m[loc] = &e
	i, _ := slices.BinarySearchFunc(em.keys, loc, compareLocations)
	em.keys = slices.Insert(em.keys, i, loc)
	return true
}

// Remove takes the entity at loc out of the map.
func (em *EntityMap) Remove(loc Location) (Entity, bool) {
	e, ok := em.m[loc]
	if !ok {
		return Entity{}, false
	}
	delete(em.m, loc)
	if i, found := slices.BinarySearchFunc(em.keys, loc, compareLocations); found {
		em.keys = slices.Delete(em.keys, i, i+1)
	}
	return *e, true
}

// Keys returns the occupied locations in order.
func (em *EntityMap) Keys() []Location {
	return slices.Clone(em.keys)
}

// Each visits copies of the entities in order until fn returns false.
func (em *EntityMap) Each(fn func(loc Location, e Entity) bool) {
	for _, k := range em.keys {
		if !fn(k, *em.m[k]) {
			return
		}
	}
}

// Update visits the entities in order for in-place modification until fn
// returns false. fn must not insert or remove.
func (em *EntityMap) Update(fn func(loc Location, e *Entity) bool) {
	for _, k := range em.keys {
		if !fn(k, em.m[k]) {
			return
		}
	}
}

// InSegment returns the locations in seg, in order.
func (em *EntityMap) InSegment(seg SegmentID) []Location {
	var out []Location
	for _, k := range em.keys {
		if k.Segment == seg {
			out = append(out, k)
		}
	}
	return out
}

func compareLocations(a, b Location) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

type entityEntry struct {
	Location Location `json:"location"`
	Entity   Entity   `json:"entity"`
}

// MarshalJSON encodes the map as a list of entries in Location order.
func (em EntityMap) MarshalJSON() ([]byte, error) {
	entries := make([]entityEntry, 0, len(em.keys))
	for _, k := range em.keys {
		entries = append(entries, entityEntry{Location: k, Entity: *em.m[k]})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes a list written by MarshalJSON.
func (em *EntityMap) UnmarshalJSON(b []byte) error {
	var entries []entityEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	*em = NewEntityMap()
	for _, e := range entries {
		em.Insert(e.Location, e.Entity)
	}
	return nil
}
