package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/nathoo/tilequest/types"
)

// SpeechKey selects a speech: a def and the state it is in.
type SpeechKey struct {
	Def   types.DefID `json:"def"`
	State uint8       `json:"state"`
}

// Errors from Speeches.Push.
var (
	ErrTooManyStates = errors.New("too many speech states")
	ErrTooManyDefs   = errors.New("too many speech defs")
	ErrOutOfOrder    = errors.New("speeches pushed out of def order")
)

// Speeches maps (def, state) to the pages spoken. State 0 is stored densely
// by def; later states are sparse.
type Speeches struct {
	first [][]types.Speech
	rest  map[SpeechKey][]types.Speech
}

// Push appends the speeches of the next def. lists[s] holds the pages for
// state s; empty lists are skipped.
func (s *Speeches) Push(def types.DefID, lists [][]types.Speech) error {
	if int(def) != len(s.first) {
		return fmt.Errorf("%w: got def %d, want %d", ErrOutOfOrder, def, len(s.first))
	}
	if len(s.first) > math.MaxUint16 {
		return ErrTooManyDefs
	}
	if len(lists) > math.MaxUint8+1 {
		return fmt.Errorf("%w: def %d has %d", ErrTooManyStates, def, len(lists))
	}
	var first []types.Speech
	for state, pages := range lists {
		if len(pages) == 0 {
			continue
		}
		if state == 0 {
			first = append([]types.Speech(nil), pages...)
			continue
		}
		if s.rest == nil {
			s.rest = map[SpeechKey][]types.Speech{}
		}
		s.rest[SpeechKey{Def: def, State: uint8(state)}] = append([]types.Speech(nil), pages...)
	}
	s.first = append(s.first, first)
	return nil
}

// Lookup returns the pages for key, falling back to the def's first speech.
func (s *Speeches) Lookup(key SpeechKey) ([]types.Speech, bool) {
	if key.State != 0 {
		if pages, ok := s.rest[key]; ok {
			return pages, true
		}
	}
	if int(key.Def) < len(s.first) && len(s.first[key.Def]) > 0 {
		return s.first[key.Def], true
	}
	return nil, false
}

// Len is the number of defs pushed.
func (s *Speeches) Len() int { return len(s.first) }

// SpeechEntry is one stored (key, pages) pair.
type SpeechEntry struct {
	Key   SpeechKey      `json:"key"`
	Pages []types.Speech `json:"pages"`
}

// Entries lists every stored speech ordered by key.
func (s *Speeches) Entries() []SpeechEntry {
	var out []SpeechEntry
	for def, pages := range s.first {
		if len(pages) > 0 {
			out = append(out, SpeechEntry{Key: SpeechKey{Def: types.DefID(def)}, Pages: pages})
		}
	}
	for k, pages := range s.rest {
		out = append(out, SpeechEntry{Key: k, Pages: pages})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Def != b.Def {
			return a.Def < b.Def
		}
		return a.State < b.State
	})
	return out
}

type speechesJSON struct {
	Defs    int           `json:"defs"`
	Entries []SpeechEntry `json:"entries"`
}

// MarshalJSON encodes the table in key order.
func (s *Speeches) MarshalJSON() ([]byte, error) {
	return json.Marshal(speechesJSON{len(s.first), s.Entries()})
}

// UnmarshalJSON rebuilds a table written by MarshalJSON.
func (s *Speeches) UnmarshalJSON(data []byte) error {
	var raw speechesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Defs < 0 || raw.Defs > math.MaxUint16+1 {
		return ErrTooManyDefs
	}
	*s = Speeches{first: make([][]types.Speech, raw.Defs)}
	for _, e := range raw.Entries {
		if int(e.Key.Def) >= raw.Defs {
			return fmt.Errorf("speech for def %d but only %d defs", e.Key.Def, raw.Defs)
		}
		if e.Key.State == 0 {
			s.first[e.Key.Def] = e.Pages
			continue
		}
		if s.rest == nil {
			s.rest = map[SpeechKey][]types.Speech{}
		}
		s.rest[e.Key] = e.Pages
	}
	return nil
}
