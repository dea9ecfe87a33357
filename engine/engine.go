// Package engine provides the Frame() loop that wires together input,
// movement, the collection protocol, dialogue, hallways and drawing into a
// single frame.
package engine

import (
	"fmt"

	"github.com/nathoo/tilequest/engine/dialogue"
	"github.com/nathoo/tilequest/engine/draw"
	"github.com/nathoo/tilequest/engine/effects"
	"github.com/nathoo/tilequest/engine/events"
	"github.com/nathoo/tilequest/engine/gen"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/hallway"
	"github.com/nathoo/tilequest/engine/input"
	"github.com/nathoo/tilequest/engine/rng"
	"github.com/nathoo/tilequest/engine/state"
	"github.com/nathoo/tilequest/engine/text"
	"github.com/nathoo/tilequest/types"
)

// Mode is what the player's input currently drives.
type Mode uint8

const (
	Walking Mode = iota
	Inventory
	Speech
	Hallway
)

func (m Mode) String() string {
	switch m {
	case Walking:
		return "walking"
	case Inventory:
		return "inventory"
	case Speech:
		return "speech"
	case Hallway:
		return "hallway"
	}
	return "unknown"
}

// Engine holds the generated world and everything that changes per frame.
type Engine struct {
	Gen *gen.Generated
	// Err is set when the world could not be generated. The engine then
	// draws an error screen forever.
	Err error

	Mode      Mode
	StepCount int
	Won       bool
	Frames    uint32

	cfg      *types.Config
	rng      *rng.RNG
	shakeRNG *rng.RNG
	shake    uint8

	// speech mode
	pages    []types.Speech
	page     int
	scroll   int
	previous Mode

	// inventory mode
	cursor int

	// hallway mode
	hallway     hallway.Game
	destination state.Location

	commands *draw.Commands
	sfx      []events.SFX
}

// New generates a world from seed and cfg. A generation failure is kept in
// Err rather than returned, since the error screen is part of the game.
func New(seed rng.Seed, cfg *types.Config, spec geom.Spec) *Engine {
	e := &Engine{
		cfg:      cfg,
		rng:      rng.New(seed),
		shakeRNG: rng.New(seed.Reversed()),
		commands: draw.New(spec),
	}
	e.Gen, e.Err = gen.Generate(e.rng, cfg)
	return e
}

// FromGenerated wraps an already generated world.
func FromGenerated(seed rng.Seed, g *gen.Generated, spec geom.Spec) *Engine {
	return &Engine{
		Gen:      g,
		rng:      rng.New(seed),
		shakeRNG: rng.New(seed.Reversed()),
		commands: draw.New(spec),
	}
}

// World returns the live world, or nil if generation failed.
func (e *Engine) World() *state.World {
	if e.Gen == nil {
		return nil
	}
	return e.Gen.World
}

// Seed returns the seed the run was generated from.
func (e *Engine) Seed() rng.Seed { return e.rng.Seed() }

// Shake is the current screen shake amount.
func (e *Engine) Shake() uint8 { return e.shake }

// Restart regenerates the world from the original seed.
func (e *Engine) Restart() {
	if e.cfg == nil {
		return
	}
	*e = *New(e.rng.Seed(), e.cfg, e.commands.Spec)
}

// Frame advances the game by one frame and returns what to draw and play.
// The returned slices are reused by the next call.
func (e *Engine) Frame(in *input.Input) ([]draw.Command, []events.SFX) {
	// 1. Clear the per-frame outputs.
	e.commands.Reset()
	e.sfx = e.sfx[:0]

	// 2. Update.
	if e.Err == nil {
		if in.PressedThisFrame(input.Reset) && e.cfg != nil {
			e.Restart()
		} else {
			r := events.Dispatch(e.update(*in))
			e.bumpShake(r.Shake)
			e.sfx = append(e.sfx, r.Sounds...)
		}
	}

	// 3. Render.
	e.render()

	// 4. Remember this frame's buttons.
	in.EndFrame()
	e.Frames++

	return e.commands.List, e.sfx
}

func (e *Engine) bumpShake(n uint8) {
	if int(e.shake)+int(n) > 255 {
		e.shake = 255
		return
	}
	e.shake += n
}

func (e *Engine) update(in input.Input) []events.Event {
	w := e.Gen.World
	w.Player.OffsetX = w.Player.OffsetX.Decay()
	w.Player.OffsetY = w.Player.OffsetY.Decay()

	switch e.Mode {
	case Walking:
		return e.updateWalking(in)
	case Inventory:
		return e.updateInventory(in)
	case Speech:
		return e.updateSpeech(in)
	case Hallway:
		return e.updateHallway(in)
	}
	return nil
}

func (e *Engine) setMode(m Mode) []events.Event {
	e.Mode = m
	return []events.Event{{Kind: events.ModeChanged}}
}

func (e *Engine) updateWalking(in input.Input) []events.Event {
	if e.Won {
		return nil
	}
	if in.PressedThisFrame(input.Start) {
		e.cursor = 0
		return e.setMode(Inventory)
	}
	if in.PressedThisFrame(input.A) {
		for _, b := range input.Directions {
			if in.Held(b) {
				d, _ := b.Dir()
				return e.interact(d)
			}
		}
	}
	for _, b := range input.Directions {
		if in.PressedThisFrame(b) {
			d, _ := b.Dir()
			return e.walk(d)
		}
	}
	return nil
}

// walk moves the player one cell in d if the cell can be entered, then
// handles doors and items there.
func (e *Engine) walk(d geom.Dir) []events.Event {
	w := e.Gen.World
	from := w.PlayerLocation()
	to := state.Location{Segment: from.Segment, XY: from.XY.Step(d)}
	if to == from || !w.Enterable(to) {
		return nil
	}

	e.StepCount++
	w.Player.XY = to.XY
	switch d {
	case geom.Up:
		w.Player.OffsetY = geom.NewOffset(1)
	case geom.Down:
		w.Player.OffsetY = geom.NewOffset(-1)
	case geom.Left:
		w.Player.OffsetX = geom.NewOffset(1)
	case geom.Right:
		w.Player.OffsetX = geom.NewOffset(-1)
	}

	there, ok := w.Steppables.Get(to)
	if !ok {
		return nil
	}
	if there.Is(types.Door) && there.DoorTarget != nil {
		if g := hallway.New(there.Hallway, e.rng); g != nil {
			e.hallway = g
			e.destination = *there.DoorTarget
			evs := e.setMode(Hallway)
			return append(evs, events.Event{Kind: events.HallwayStarted, Def: there.Def})
		}
		return e.teleport(*there.DoorTarget)
	}
	if there.Is(types.Collectable) {
		_, evs, _ := effects.Collect(w, e.Gen.EntityDefs, to)
		return e.checkVictory(evs)
	}
	return nil
}

func (e *Engine) teleport(to state.Location) []events.Event {
	w := e.Gen.World
	w.SegmentID = to.Segment
	w.Player.XY = to.XY
	w.Player.OffsetX, w.Player.OffsetY = geom.Offset{}, geom.Offset{}
	w.RefreshDesires()
	return []events.Event{{Kind: events.Teleported}}
}

// interact trades with and then talks to the mob in direction d.
func (e *Engine) interact(d geom.Dir) []events.Event {
	w := e.Gen.World
	from := w.PlayerLocation()
	at := state.Location{Segment: from.Segment, XY: from.XY.Step(d)}
	if at == from || !w.Mobs.Has(at) {
		return nil
	}

	evs, _ := dialogue.Trade(w, e.Gen.EntityDefs, at)
	mob, _ := w.Mobs.Get(at)
	if pages, ok := dialogue.Speech(e.Gen.Speeches, mob); ok {
		evs = append(evs, e.openSpeech(pages)...)
	}
	return e.checkVictory(evs)
}

func (e *Engine) checkVictory(evs []events.Event) []events.Event {
	for _, ev := range evs {
		if ev.Kind == events.Victory && !e.Won {
			e.Won = true
			msg := fmt.Sprintf("you found the way out in %d steps. well done!", e.StepCount)
			evs = append(evs, e.openSpeech([]types.Speech{types.Speech(text.Reflow(msg, text.SpeechColumns))})...)
			break
		}
	}
	return evs
}

func (e *Engine) openSpeech(pages []types.Speech) []events.Event {
	if len(pages) == 0 {
		return nil
	}
	if e.Mode != Speech {
		e.previous = e.Mode
	}
	e.pages, e.page, e.scroll = pages, 0, 0
	return e.setMode(Speech)
}

// CurrentSpeech returns the page on screen in speech mode.
func (e *Engine) CurrentSpeech() (types.Speech, bool) {
	if e.Mode != Speech || e.page >= len(e.pages) {
		return "", false
	}
	return e.pages[e.page], true
}

func (e *Engine) updateSpeech(in input.Input) []events.Event {
	lines := text.Lines(string(e.pages[e.page]))
	switch {
	case in.Held(input.Up):
		e.scroll = max(0, e.scroll-1)
	case in.Held(input.Down):
		e.scroll = min(draw.SpeechScrollMax(lines), e.scroll+1)
	}
	if !in.PressedThisFrame(input.A) {
		return nil
	}
	if e.page+1 < len(e.pages) {
		e.page++
		e.scroll = 0
		return nil
	}
	if e.Won {
		return nil
	}
	e.pages = nil
	return e.setMode(e.previous)
}

func (e *Engine) updateInventory(in input.Input) []events.Event {
	inv := e.Gen.World.Player.Inventory
	switch {
	case in.PressedThisFrame(input.Start):
		return e.setMode(Walking)
	case in.PressedThisFrame(input.Left):
		if e.cursor > 0 {
			e.cursor--
		}
	case in.PressedThisFrame(input.Right):
		if e.cursor+1 < len(inv) {
			e.cursor++
		}
	case in.PressedThisFrame(input.A):
		if e.cursor < len(inv) {
			key := state.SpeechKey{Def: inv[e.cursor].Def}
			if pages, ok := e.Gen.InventoryDescriptions.Lookup(key); ok {
				return e.openSpeech(pages)
			}
		}
	}
	return nil
}

// Cursor is the highlighted inventory slot.
func (e *Engine) Cursor() int { return e.cursor }

func (e *Engine) updateHallway(in input.Input) []events.Event {
	if !e.hallway.Update(in) {
		return nil
	}
	e.hallway = nil
	evs := []events.Event{{Kind: events.HallwayCleared}}
	evs = append(evs, e.teleport(e.destination)...)
	e.Mode = Walking
	return evs
}

// ActiveHallway returns the sub-game being played, if any.
func (e *Engine) ActiveHallway() hallway.Game { return e.hallway }
