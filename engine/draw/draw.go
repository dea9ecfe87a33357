// Package draw builds the per-frame command list the host paints. Commands
// copy a sprite-sized region of the spritesheet to a screen rect, optionally
// tinted with a single colour.
package draw

import (
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/types"
)

// Screen and sprite dimensions, in pixels.
const (
	ScreenWidth  geom.PW = 480
	ScreenHeight geom.PH = 320
	TileSize             = 16
	CharW                = 8
	CharH                = 8

	// FontWidth is the pixel width of one row of glyphs on the font sheet.
	FontWidth = 128
	FontBaseY = 0

	tilesPerRow = 8
	sliceSize   = 8
)

// Palette colours, 0xAARRGGBB.
const (
	Blue   uint32 = 0xFF3352E1
	Green  uint32 = 0xFF30B06E
	Red    uint32 = 0xFFDE4949
	Yellow uint32 = 0xFFFFB937
	Purple uint32 = 0xFF533354
	Grey   uint32 = 0xFF5A7D8B
	White  uint32 = 0xFFEEEEEE
	Black  uint32 = 0xFF222222
)

// Palette lists every colour in index order.
var Palette = [8]uint32{Blue, Green, Red, Yellow, Purple, Grey, White, Black}

// NoOverride leaves a sprite's own colours alone.
const NoOverride uint32 = 0

// Command copies the sheet region at Sprite, sized like Rect, onto Rect.
type Command struct {
	Rect           geom.Rect                      `json:"rect"`
	Sprite         geom.SpriteXY[geom.Renderable] `json:"sprite_xy"`
	ColourOverride uint32                         `json:"colour_override"`
}

// Commands accumulates one frame's draw list.
type Commands struct {
	Spec geom.Spec
	List []Command
}

// New returns an empty list laid out for spec.
func New(spec geom.Spec) *Commands {
	return &Commands{Spec: spec}
}

// Reset empties the list, keeping its storage.
func (c *Commands) Reset() {
	c.List = c.List[:0]
}

// Len is the number of commands so far.
func (c *Commands) Len() int { return len(c.List) }

// Sspr draws the region at src onto dst.
func (c *Commands) Sspr(src geom.SpriteXY[geom.Renderable], dst geom.Rect) {
	c.SsprColour(src, dst, NoOverride)
}

// SsprColour draws the region at src onto dst tinted with colour.
func (c *Commands) SsprColour(src geom.SpriteXY[geom.Renderable], dst geom.Rect, colour uint32) {
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	c.List = append(c.List, Command{Rect: dst, Sprite: src, ColourOverride: colour})
}

// Put draws a sprite from a sheet region. It is the only way to draw a
// sheet-relative sprite.
func Put[S geom.Sheet](c *Commands, xy geom.SpriteXY[S], dst geom.Rect) {
	c.Sspr(geom.Apply(c.Spec, xy), dst)
}

// TileXY is the position of a tile sprite on the tile sheet.
func TileXY(sprite types.SpriteIndex) geom.SpriteXY[geom.BaseTiles] {
	return geom.SpriteXY[geom.BaseTiles]{
		X: uint16(sprite%tilesPerRow) * TileSize,
		Y: uint16(sprite/tilesPerRow) * TileSize,
	}
}

// Tile draws a tile sprite with its top-left corner at (x, y).
func (c *Commands) Tile(sprite types.SpriteIndex, x geom.PX, y geom.PY) {
	Put(c, TileXY(sprite), geom.RectFromUnscaled(geom.Unscaled{X: x, Y: y, W: TileSize, H: TileSize}))
}

// TileAt draws a tile sprite at a signed screen position, cropping whatever
// falls off the screen.
func (c *Commands) TileAt(sprite types.SpriteIndex, x, y int) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+TileSize, int(ScreenWidth)), min(y+TileSize, int(ScreenHeight))
	if x0 >= x1 || y0 >= y1 {
		return
	}
	src := geom.Apply(c.Spec, TileXY(sprite))
	src.X += uint16(x0 - x)
	src.Y += uint16(y0 - y)
	c.Sspr(src, geom.Rect{XMin: geom.PX(x0), YMin: geom.PY(y0), XMax: geom.PX(x1), YMax: geom.PY(y1)})
}

// Translate shifts every command from index start on by (xd, yd).
func (c *Commands) Translate(start int, xd geom.XD, yd geom.YD) {
	if xd == 0 && yd == 0 {
		return
	}
	for i := start; i < len(c.List); i++ {
		c.List[i].Rect = c.List[i].Rect.Translate(xd, yd)
	}
}

// Clear fills the whole screen with one tile sprite.
func (c *Commands) Clear(sprite types.SpriteIndex) {
	for y := 0; y < int(ScreenHeight); y += TileSize {
		for x := 0; x < int(ScreenWidth); x += TileSize {
			c.Tile(sprite, geom.PX(x), geom.PY(y))
		}
	}
}
