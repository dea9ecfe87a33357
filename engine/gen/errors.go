package gen

import (
	"fmt"

	"github.com/nathoo/tilequest/types"
)

// ErrorKind classifies a generation failure.
type ErrorKind int

const (
	CannotPlacePlayer ErrorKind = iota
	CannotPlaceDoor
	NoMobsFound
	NoItemsFound
	NoDoorsFound
	NoGoalItemFound
	CouldNotPlaceItem
	InvalidDesireID
	NonItemWasDesired
	InvalidSpeeches
	InvalidInventoryDescriptions
	TooManySegments
	ZeroSegments
)

func (k ErrorKind) String() string {
	switch k {
	case CannotPlacePlayer:
		return "cannot place player"
	case CannotPlaceDoor:
		return "cannot place door"
	case NoMobsFound:
		return "no mobs found"
	case NoItemsFound:
		return "no items found"
	case NoDoorsFound:
		return "no doors found"
	case NoGoalItemFound:
		return "no goal item found"
	case CouldNotPlaceItem:
		return "could not place item"
	case InvalidDesireID:
		return "invalid desire id"
	case NonItemWasDesired:
		return "non-item was desired"
	case InvalidSpeeches:
		return "invalid speeches"
	case InvalidInventoryDescriptions:
		return "invalid inventory descriptions"
	case TooManySegments:
		return "too many segments"
	case ZeroSegments:
		return "zero segments"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a failure to build a world from a config.
type Error struct {
	Kind ErrorKind
	// Def is the entity def involved, where there is one.
	Def    types.DefID
	HasDef bool
	Err    error
}

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.HasDef {
		s += fmt.Sprintf(" (def %d)", e.Def)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

func fail(kind ErrorKind) *Error { return &Error{Kind: kind} }

func failDef(kind ErrorKind, def types.DefID) *Error {
	return &Error{Kind: kind, Def: def, HasDef: true}
}
