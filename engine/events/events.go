// Package events turns what happened during a frame into screen shake and
// sound requests. Dispatch is a single pass; reactions never emit events.
package events

import "github.com/nathoo/tilequest/types"

// Kind says what happened.
type Kind uint8

const (
	Collected Kind = iota
	Transformed
	Traded
	Teleported
	HallwayStarted
	HallwayCleared
	ModeChanged
	Victory
)

func (k Kind) String() string {
	switch k {
	case Collected:
		return "collected"
	case Transformed:
		return "transformed"
	case Traded:
		return "traded"
	case Teleported:
		return "teleported"
	case HallwayStarted:
		return "hallway-started"
	case HallwayCleared:
		return "hallway-cleared"
	case ModeChanged:
		return "mode-changed"
	case Victory:
		return "victory"
	}
	return "unknown"
}

// Event is one thing that happened. Def is the entity def involved, if any.
type Event struct {
	Kind Kind
	Def  types.DefID
}

// SFX is a sound effect the host's speaker can play.
type SFX uint8

const (
	CardPlace SFX = iota
	CardSlide
	ButtonPress
)

func (s SFX) String() string {
	switch s {
	case CardPlace:
		return "card-place"
	case CardSlide:
		return "card-slide"
	case ButtonPress:
		return "button-press"
	}
	return "unknown"
}

// Shake amounts added per event.
const (
	TradeShake    uint8 = 8
	TeleportShake uint8 = 4
	VictoryShake  uint8 = 16
)

// Reaction is the combined response to a frame's events.
type Reaction struct {
	Shake  uint8
	Sounds []SFX
}

func (r *Reaction) bump(n uint8) {
	if int(r.Shake)+int(n) > 255 {
		r.Shake = 255
		return
	}
	r.Shake += n
}

// Dispatch maps events to shake and sound, in event order.
func Dispatch(evs []Event) Reaction {
	var r Reaction
	for _, e := range evs {
		switch e.Kind {
		case Collected:
			r.Sounds = append(r.Sounds, CardPlace)
		case Traded:
			r.bump(TradeShake)
			r.Sounds = append(r.Sounds, CardSlide)
		case Teleported:
			r.bump(TeleportShake)
			r.Sounds = append(r.Sounds, CardSlide)
		case Victory:
			r.bump(VictoryShake)
		case ModeChanged, HallwayStarted, HallwayCleared:
			r.Sounds = append(r.Sounds, ButtonPress)
		}
	}
	return r
}
