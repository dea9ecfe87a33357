package tui

import (
	"github.com/nathoo/tilequest/engine/draw"
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/loader"
	"github.com/nathoo/tilequest/types"
)

// CellSize is how many screen pixels one terminal cell covers each way. A
// tile is two cells square and a glyph is exactly one cell.
const CellSize = 8

// Canvas dimensions for the whole engine screen.
const (
	CanvasCols = int(draw.ScreenWidth) / CellSize
	CanvasRows = int(draw.ScreenHeight) / CellSize
)

// Heights of the sheet regions the painter tells apart.
const (
	tilesHeight = 128
	uiHeight    = 32
	fontHeight  = 64
)

type region uint8

const (
	regionOther region = iota
	regionTiles
	regionUI
	regionFont
)

// Painter turns a frame's draw commands into canvas cells. Tile and panel
// commands become blocks of their sprite's mean colour; glyph commands
// become characters.
type Painter struct {
	Spec geom.Spec
	// Sheet supplies sprite colours. Without one a fixed palette keyed on
	// the sprite index is used.
	Sheet *loader.Sheet

	means map[block]mean
}

type block struct{ x0, y0, x1, y1 int }

type mean struct {
	colour uint32
	opaque bool
}

// NewPainter returns a painter for spec. sheet may be nil.
func NewPainter(spec geom.Spec, sheet *loader.Sheet) *Painter {
	return &Painter{Spec: spec, Sheet: sheet, means: make(map[block]mean)}
}

// Paint clears c and draws cmds onto it in order.
func (p *Painter) Paint(c *Canvas, cmds []draw.Command) {
	c.Clear()
	for _, cmd := range cmds {
		p.paint(c, cmd)
	}
}

func (p *Painter) paint(c *Canvas, cmd draw.Command) {
	sx, sy := int(cmd.Sprite.X), int(cmd.Sprite.Y)
	switch reg, rx, ry := p.locate(sx, sy); reg {
	case regionFont:
		p.glyph(c, cmd, rx, ry)
	case regionUI:
		if ry < 8 && rx >= 24 && rx < 40 {
			p.overlay(c, cmd, '▼', draw.Yellow)
			return
		}
		p.fill(c, cmd, reg)
	default:
		p.fill(c, cmd, reg)
	}
}

// locate finds which region a sheet pixel falls in, and its position
// relative to that region.
func (p *Painter) locate(x, y int) (region, int, int) {
	in := func(o geom.SheetOrigin, h int) bool {
		return x >= int(o.X) && y >= int(o.Y) && y < int(o.Y)+h
	}
	switch {
	case in(p.Spec.Font, fontHeight):
		return regionFont, x - int(p.Spec.Font.X), y - int(p.Spec.Font.Y)
	case in(p.Spec.UI, uiHeight):
		return regionUI, x - int(p.Spec.UI.X), y - int(p.Spec.UI.Y)
	case in(p.Spec.Tiles, tilesHeight):
		return regionTiles, x - int(p.Spec.Tiles.X), y - int(p.Spec.Tiles.Y)
	}
	return regionOther, x, y
}

// cellOf is the cell whose origin is nearest the pixel position.
func cellOf(px int) int {
	return (px + CellSize/2) / CellSize
}

func (p *Painter) glyph(c *Canvas, cmd draw.Command, rx, ry int) {
	ch := (ry/draw.CharH)*(draw.FontWidth/draw.CharW) + rx/draw.CharW
	r := rune(ch)
	if ch < ' ' || ch > '~' {
		r = '?'
	}
	fg := cmd.ColourOverride
	if fg == draw.NoOverride {
		fg = draw.White
	}
	p.overlay(c, cmd, r, fg)
}

// overlay writes r over whatever background is already in the cell.
func (p *Painter) overlay(c *Canvas, cmd draw.Command, r rune, fg uint32) {
	x, y := cellOf(int(cmd.Rect.XMin)), cellOf(int(cmd.Rect.YMin))
	bg := c.Get(x, y).BG
	c.Set(x, y, Cell{Rune: r, FG: fg, BG: bg})
}

// fill colours every cell whose centre falls inside the command rect.
func (p *Painter) fill(c *Canvas, cmd draw.Command, reg region) {
	xMin, yMin := int(cmd.Rect.XMin), int(cmd.Rect.YMin)
	xMax, yMax := int(cmd.Rect.XMax), int(cmd.Rect.YMax)
	sx, sy := int(cmd.Sprite.X), int(cmd.Sprite.Y)

	for cy := (yMin + 3) / CellSize; cy*CellSize+CellSize/2 < yMax; cy++ {
		for cx := (xMin + 3) / CellSize; cx*CellSize+CellSize/2 < xMax; cx++ {
			// the part of the sprite under this cell
			b := block{
				x0: sx + max(cx*CellSize-xMin, 0),
				y0: sy + max(cy*CellSize-yMin, 0),
				x1: sx + min(cx*CellSize+CellSize, xMax) - xMin,
				y1: sy + min(cy*CellSize+CellSize, yMax) - yMin,
			}
			m := p.mean(b, reg)
			if !m.opaque {
				continue
			}
			colour := m.colour
			if cmd.ColourOverride != draw.NoOverride {
				colour = cmd.ColourOverride
			}
			cell := Cell{Rune: ' ', BG: colour}
			if reg == regionTiles {
				if r := p.tileRune(b); r != ' ' {
					cell.Rune, cell.FG = r, contrast(colour)
				}
			}
			c.Set(cx, cy, cell)
		}
	}
}

// mean is the average colour of the opaque pixels in b.
func (p *Painter) mean(b block, reg region) mean {
	if p.Sheet == nil {
		return mean{colour: p.fallback(b, reg), opaque: true}
	}
	if m, ok := p.means[b]; ok {
		return m
	}
	var r, g, bl, n uint32
	for y := b.y0; y < b.y1; y++ {
		for x := b.x0; x < b.x1; x++ {
			px := p.Sheet.At(x, y)
			if px>>24 == 0 {
				continue
			}
			r += px >> 16 & 0xFF
			g += px >> 8 & 0xFF
			bl += px & 0xFF
			n++
		}
	}
	m := mean{}
	if n > 0 {
		m = mean{colour: 0xFF000000 | (r/n)<<16 | (g/n)<<8 | bl/n, opaque: true}
	}
	p.means[b] = m
	return m
}

// tileIndex is the tile sprite under the block's top-left pixel.
func (p *Painter) tileIndex(b block) types.SpriteIndex {
	x := (b.x0 - int(p.Spec.Tiles.X)) / draw.TileSize
	y := (b.y0 - int(p.Spec.Tiles.Y)) / draw.TileSize
	return types.SpriteIndex(y*8 + x)
}

// tileRune marks the top-left cell of the sprites worth reading at a glance.
func (p *Painter) tileRune(b block) rune {
	if (b.x0-int(p.Spec.Tiles.X))%draw.TileSize >= CellSize || (b.y0-int(p.Spec.Tiles.Y))%draw.TileSize >= CellSize {
		return ' '
	}
	switch i := p.tileIndex(b); {
	case i == types.PlayerSprite:
		return '@'
	case i >= 8 && i < 24:
		return '&'
	case i >= 24 && i < 40:
		return '*'
	case i >= 40 && i%2 == 0:
		return '+'
	case i >= 40:
		return '-'
	}
	return ' '
}

// fallback colours sprites by kind when there is no sheet to sample.
func (p *Painter) fallback(b block, reg region) uint32 {
	if reg == regionUI {
		return draw.Blue
	}
	if reg != regionTiles {
		return draw.Purple
	}
	switch i := p.tileIndex(b); {
	case i == types.WallSprite:
		return draw.Grey
	case i == types.FloorSprite:
		return draw.Black
	case i == types.PlayerSprite:
		return draw.Yellow
	case i >= 8 && i < 24:
		return draw.Purple
	case i >= 24 && i < 40:
		return draw.Green
	case i >= 40 && i%2 == 0:
		return draw.Red
	case i >= 40:
		return draw.Yellow
	}
	return draw.Black
}

// contrast picks a readable foreground for a background colour.
func contrast(bg uint32) uint32 {
	r, g, b := bg>>16&0xFF, bg>>8&0xFF, bg&0xFF
	if r*299+g*587+b*114 > 128*1000 {
		return draw.Black
	}
	return draw.White
}
