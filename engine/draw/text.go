package draw

import (
	"strings"

	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/text"
	"github.com/nathoo/tilequest/types"
)

const glyphsPerRow = FontWidth / CharW

// GlyphXY is the position of a character on the font sheet.
func GlyphXY(ch byte) geom.SpriteXY[geom.BaseFont] {
	return geom.SpriteXY[geom.BaseFont]{
		X: uint16(ch%glyphsPerRow) * CharW,
		Y: FontBaseY + uint16(ch/glyphsPerRow)*CharH,
	}
}

// PrintChar draws one character with its top-left corner at (x, y).
func (c *Commands) PrintChar(ch byte, x geom.PX, y geom.PY, colour uint32) {
	if ch == ' ' {
		return
	}
	dst := geom.RectFromUnscaled(geom.Unscaled{X: x, Y: y, W: CharW, H: CharH})
	c.SsprColour(geom.Apply(c.Spec, GlyphXY(ch)), dst, colour)
}

// PrintLine draws s on one row starting at (x, y).
func (c *Commands) PrintLine(s string, x geom.PX, y geom.PY, colour uint32) {
	for i := 0; i < len(s); i++ {
		c.PrintChar(s[i], x.Add(geom.PW(i*CharW)), y, colour)
	}
}

// PrintLines draws lines inside area, scrolled down by top pixels. Glyphs
// crossing the edges of area are cropped, which allows scrolling by less
// than a character.
func (c *Commands) PrintLines(lines []string, top int, area geom.Rect, colour uint32) {
	if top < 0 {
		top = 0
	}
	first, offset := top/CharH, top%CharH
	y := int(area.YMin) - offset
	for i := first; i < len(lines) && y < int(area.YMax); i, y = i+1, y+CharH {
		c.printCropped(lines[i], y, area, colour)
	}
}

func (c *Commands) printCropped(s string, y int, area geom.Rect, colour uint32) {
	yMin, yMax := max(y, int(area.YMin)), min(y+CharH, int(area.YMax))
	if yMin >= yMax {
		return
	}
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			continue
		}
		x := int(area.XMin) + i*CharW
		if x+CharW > int(area.XMax) {
			return
		}
		src := geom.Apply(c.Spec, GlyphXY(s[i]))
		src.Y += uint16(yMin - y)
		c.SsprColour(src, geom.Rect{
			XMin: geom.PX(x),
			YMin: geom.PY(yMin),
			XMax: geom.PX(x + CharW),
			YMax: geom.PY(yMax),
		}, colour)
	}
}

// TextHeight is the pixel height of lines.
func TextHeight(lines []string) int {
	return len(lines) * CharH
}

// ErrorScreen draws a floor background with msg printed over it. Each line
// of msg is wrapped separately.
func (c *Commands) ErrorScreen(msg string) {
	c.Clear(types.FloorSprite)
	area := geom.Rect{XMin: 16, YMin: 16, XMax: geom.PX(ScreenWidth) - 16, YMax: geom.PY(ScreenHeight) - 16}
	cols := int(area.Width()) / CharW
	var lines []string
	for _, l := range strings.Split(msg, "\n") {
		lines = append(lines, text.Lines(text.Reflow(l, cols))...)
	}
	c.PrintLines(lines, 0, area, White)
}
