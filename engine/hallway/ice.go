package hallway

import (
	"github.com/nathoo/tilequest/engine/draw"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/input"
	"github.com/nathoo/tilequest/engine/rng"
	"github.com/nathoo/tilequest/types"
)

const (
	iceW       = 9
	iceH       = 5
	iceRocks   = 8
	iceLayouts = 16
)

// Ice-puzzle sprites, in the ice puzzle sheet.
var (
	iceFloor  = geom.SpriteXY[geom.IcePuzzles]{X: 0, Y: 0}
	iceRock   = geom.SpriteXY[geom.IcePuzzles]{X: 16, Y: 0}
	iceExit   = geom.SpriteXY[geom.IcePuzzles]{X: 32, Y: 0}
	icePlayer = geom.SpriteXY[geom.IcePuzzles]{X: 48, Y: 0}
)

type cell struct{ x, y int }

func (c cell) step(d input.Button) cell {
	switch d {
	case input.Up:
		c.y--
	case input.Down:
		c.y++
	case input.Left:
		c.x--
	case input.Right:
		c.x++
	}
	return c
}

func (c cell) inside() bool {
	return c.x >= 0 && c.x < iceW && c.y >= 0 && c.y < iceH
}

// IcePuzzle is a sliding puzzle: the player slides until a rock or the edge
// stops them, and must pass over the exit on the far side. B returns to the
// start.
type IcePuzzle struct {
	rocks  [iceH][iceW]bool
	start  cell
	player cell
	exit   cell
	moves  int
	done   bool
}

// NewIcePuzzle lays out a solvable puzzle. If no random layout is solvable
// it falls back to an open board with the exit level with the start.
func NewIcePuzzle(r *rng.RNG) *IcePuzzle {
	for try := 0; try < iceLayouts; try++ {
		p := randomIce(r)
		if p.Solvable() {
			return p
		}
	}
	row := r.Intn(iceH)
	start := cell{0, row}
	return &IcePuzzle{start: start, player: start, exit: cell{iceW - 1, row}}
}

func randomIce(r *rng.RNG) *IcePuzzle {
	p := &IcePuzzle{}
	p.start = cell{0, r.Intn(iceH)}
	p.player = p.start
	p.exit = cell{iceW - 1, r.Intn(iceH)}
	for i := 0; i < iceRocks; i++ {
		p.rocks[r.Intn(iceH)][1+r.Intn(iceW-2)] = true
	}
	return p
}

func (p *IcePuzzle) Kind() types.HallwaySpec { return types.HallwayIcePuzzle }

// slide moves from c in d until blocked and reports whether the exit was
// crossed on the way.
func (p *IcePuzzle) slide(c cell, d input.Button) (cell, bool) {
	for {
		next := c.step(d)
		if !next.inside() || p.rocks[next.y][next.x] {
			return c, false
		}
		c = next
		if c == p.exit {
			return c, true
		}
	}
}

// Solvable reports whether the exit can be reached from the start.
func (p *IcePuzzle) Solvable() bool {
	seen := map[cell]bool{p.start: true}
	queue := []cell{p.start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range input.Directions {
			to, out := p.slide(c, d)
			if out {
				return true
			}
			if !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	return false
}

// Moves is the number of slides taken so far.
func (p *IcePuzzle) Moves() int { return p.moves }

func (p *IcePuzzle) Update(in input.Input) bool {
	if p.done {
		return true
	}
	if in.PressedThisFrame(input.B) {
		p.player = p.start
		return false
	}
	d, ok := pressedDir(in)
	if !ok {
		return false
	}
	to, out := p.slide(p.player, d)
	if to != p.player {
		p.moves++
	}
	p.player = to
	p.done = out
	return p.done
}

func icePos(c cell) (geom.PX, geom.PY) {
	x0 := (int(draw.ScreenWidth) - iceW*draw.TileSize) / 2
	y0 := (int(draw.ScreenHeight) - iceH*draw.TileSize) / 2
	return geom.PX(x0 + c.x*draw.TileSize), geom.PY(y0 + c.y*draw.TileSize)
}

func iceRect(c cell) geom.Rect {
	x, y := icePos(c)
	return geom.RectFromUnscaled(geom.Unscaled{X: x, Y: y, W: draw.TileSize, H: draw.TileSize})
}

func (p *IcePuzzle) Render(c *draw.Commands) {
	for y := 0; y < iceH; y++ {
		for x := 0; x < iceW; x++ {
			at := cell{x, y}
			switch {
			case p.rocks[y][x]:
				draw.Put(c, iceRock, iceRect(at))
			case at == p.exit:
				draw.Put(c, iceExit, iceRect(at))
			default:
				draw.Put(c, iceFloor, iceRect(at))
			}
		}
	}
	draw.Put(c, icePlayer, iceRect(p.player))
	c.PrintLine("slide to the exit. b to restart.", 112, 96, draw.White)
}
