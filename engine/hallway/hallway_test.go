package hallway

import (
	"testing"

	"github.com/nathoo/tilequest/engine/draw"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/input"
	"github.com/nathoo/tilequest/engine/rng"
	"github.com/nathoo/tilequest/types"
)

func press(b input.Button) input.Input {
	return input.Input{Gamepad: b}
}

func TestNew(t *testing.T) {
	r := rng.New(rng.SeedFromInt64(1))
	if g := New(types.HallwayNone, r); g != nil {
		t.Errorf("New(None) = %v, want nil", g)
	}
	for _, kind := range []types.HallwaySpec{types.HallwayIcePuzzle, types.HallwaySword} {
		g := New(kind, r)
		if g == nil || g.Kind() != kind {
			t.Errorf("New(%v) = %v", kind, g)
		}
	}
}

func openIce() *IcePuzzle {
	return &IcePuzzle{start: cell{0, 0}, player: cell{0, 0}, exit: cell{iceW - 1, 0}}
}

func TestIce_SlideToExit(t *testing.T) {
	p := openIce()
	if p.Update(press(input.Left)) {
		t.Fatal("done after sliding into the wall")
	}
	if p.Moves() != 0 {
		t.Errorf("blocked slide counted as a move")
	}
	if !p.Update(press(input.Right)) {
		t.Fatal("not done after sliding over the exit")
	}
	if !p.Update(input.Input{}) {
		t.Error("finished puzzle reported not done")
	}
}

func TestIce_RockStopsSlide(t *testing.T) {
	p := openIce()
	p.rocks[0][4] = true
	p.Update(press(input.Right))
	if p.player != (cell{3, 0}) {
		t.Errorf("player = %+v, want stopped before the rock", p.player)
	}
	p.Update(press(input.B))
	if p.player != p.start {
		t.Errorf("B did not return to the start: %+v", p.player)
	}
}

func TestIce_Solvable(t *testing.T) {
	p := openIce()
	p.rocks[0][4] = true
	if !p.Solvable() {
		t.Error("puzzle with a way round reported unsolvable")
	}
	p.rocks[0][iceW-2] = true
	p.rocks[1][iceW-1] = true
	if p.Solvable() {
		t.Error("walled-in exit reported solvable")
	}
}

func TestNewIcePuzzle_AlwaysSolvable(t *testing.T) {
	for seed := int64(0); seed < 64; seed++ {
		if p := NewIcePuzzle(rng.New(rng.SeedFromInt64(seed))); !p.Solvable() {
			t.Errorf("seed %d: unsolvable puzzle", seed)
		}
	}
}

func TestIce_Render(t *testing.T) {
	c := draw.New(geom.DefaultSpec)
	openIce().Render(c)
	if c.Len() < iceW*iceH+1 {
		t.Errorf("got %d commands", c.Len())
	}
	if c.List[0].Sprite.Y != geom.DefaultSpec.IcePuzzles.Y {
		t.Errorf("first sprite = %+v, want the ice sheet", c.List[0].Sprite)
	}
}

func TestSword_WinsWithTimedSwings(t *testing.T) {
	s := NewSword(rng.New(rng.SeedFromInt64(3)))
	for frame := 0; frame < 10000; frame++ {
		in := input.Input{}
		if s.distance-s.speed <= swordReach && s.slash <= 1 {
			in = press(input.A)
		}
		if s.Update(in) {
			if s.Hits() != swordHits {
				t.Errorf("done with %d hits", s.Hits())
			}
			return
		}
	}
	t.Fatal("duel never finished")
}

func TestSword_MissWhenFar(t *testing.T) {
	s := &Sword{distance: swordStart, speed: 1}
	s.Update(press(input.A))
	if s.Hits() != 0 || s.slash != slashFrames {
		t.Errorf("hits = %d, slash = %d", s.Hits(), s.slash)
	}
	// still swinging: a second press is ignored
	s.distance = swordReach
	s.Update(press(input.A))
	if s.Hits() != 0 {
		t.Error("swing connected while the last one was still out")
	}
}

func TestSword_EnemyPushedBack(t *testing.T) {
	s := &Sword{distance: 1, speed: 2}
	s.Update(input.Input{})
	if s.distance != swordStart {
		t.Errorf("distance = %d, want reset to %d", s.distance, swordStart)
	}
}
