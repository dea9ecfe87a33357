package draw

import (
	"github.com/nathoo/tilequest/engine/geom"
	"github.com/nathoo/tilequest/engine/text"
	"github.com/nathoo/tilequest/types"
)

// Slices holds the top-left sheet positions of the nine panel pieces. Every
// piece is sliceSize square.
type Slices struct {
	TopLeft, Top, TopRight          geom.SpriteXY[geom.BaseUI]
	Left, Center, Right             geom.SpriteXY[geom.BaseUI]
	BottomLeft, Bottom, BottomRight geom.SpriteXY[geom.BaseUI]
}

func ui(x, y uint16) geom.SpriteXY[geom.BaseUI] {
	return geom.SpriteXY[geom.BaseUI]{X: x, Y: y}
}

// DefaultSlices is the 3x3 grid at the top-left of the UI sheet.
var DefaultSlices = Slices{
	TopLeft: ui(0, 0), Top: ui(8, 0), TopRight: ui(16, 0),
	Left: ui(0, 8), Center: ui(8, 8), Right: ui(16, 8),
	BottomLeft: ui(0, 16), Bottom: ui(8, 16), BottomRight: ui(16, 16),
}

// Next-arrow animation frames on the UI sheet.
var arrowPhases = [2]geom.SpriteXY[geom.BaseUI]{ui(24, 0), ui(32, 0)}

const arrowSize = 8

func square(x, y, w, h int) geom.Rect {
	return geom.Rect{XMin: geom.PX(x), YMin: geom.PY(y), XMax: geom.PX(x + w), YMax: geom.PY(y + h)}
}

// NineSlice draws a panel filling outer: centre pieces first, then the top
// and bottom edges, then the left and right edges, then the corners. Pieces
// on the last row or column are cropped to the remaining space.
func (c *Commands) NineSlice(outer geom.Rect, s Slices) {
	x0, y0 := int(outer.XMin), int(outer.YMin)
	x1, y1 := int(outer.XMax), int(outer.YMax)
	ix0, iy0 := x0+sliceSize, y0+sliceSize
	ix1, iy1 := x1-sliceSize, y1-sliceSize
	if ix1 < ix0 || iy1 < iy0 {
		return
	}

	for y := iy0; y < iy1; y += sliceSize {
		h := min(sliceSize, iy1-y)
		for x := ix0; x < ix1; x += sliceSize {
			Put(c, s.Center, square(x, y, min(sliceSize, ix1-x), h))
		}
	}
	for x := ix0; x < ix1; x += sliceSize {
		w := min(sliceSize, ix1-x)
		Put(c, s.Top, square(x, y0, w, sliceSize))
		Put(c, s.Bottom, square(x, iy1, w, sliceSize))
	}
	for y := iy0; y < iy1; y += sliceSize {
		h := min(sliceSize, iy1-y)
		Put(c, s.Left, square(x0, y, sliceSize, h))
		Put(c, s.Right, square(ix1, y, sliceSize, h))
	}
	Put(c, s.TopLeft, square(x0, y0, sliceSize, sliceSize))
	Put(c, s.TopRight, square(ix1, y0, sliceSize, sliceSize))
	Put(c, s.BottomLeft, square(x0, iy1, sliceSize, sliceSize))
	Put(c, s.BottomRight, square(ix1, iy1, sliceSize, sliceSize))
}

// ArrowBob is the vertical offset of the next-arrow at timer. The cycle is
// 128 ticks long: rest, dip, bottom, rise.
func ArrowBob(timer uint32) int {
	switch (timer % 128) / 32 {
	case 1:
		return 1
	case 2:
		return 2
	case 3:
		return 1
	}
	return 0
}

// ArrowPhase is which of the two arrow frames is shown.
func ArrowPhase(timer uint32) int {
	return int(timer & 1)
}

// arrowFlipShift slows the frame timer down so the arrow flips every 16 ticks.
const arrowFlipShift = 4

// NextArrow draws the animated "more to read" arrow in the bottom-right
// corner of outer.
func (c *Commands) NextArrow(timer uint32, outer geom.Rect) {
	x := int(outer.XMax) - sliceSize - arrowSize
	y := int(outer.YMax) - sliceSize - arrowSize + ArrowBob(timer)
	Put(c, arrowPhases[ArrowPhase(timer>>arrowFlipShift)], square(x, y, arrowSize, arrowSize))
}

// SpeechBox is where the speech panel sits.
var SpeechBox = geom.Rect{XMin: 8, YMin: 208, XMax: 472, YMax: 312}

// SpeechArea is the text area inside SpeechBox.
func SpeechArea() geom.Rect {
	return geom.Rect{
		XMin: SpeechBox.XMin + 2*sliceSize,
		YMin: SpeechBox.YMin + sliceSize + 4,
		XMax: SpeechBox.XMax - 2*sliceSize,
		YMax: SpeechBox.YMax - sliceSize - 4,
	}
}

// SpeechScrollMax is the largest useful top offset for lines.
func SpeechScrollMax(lines []string) int {
	return max(0, TextHeight(lines)-int(SpeechArea().Height()))
}

// Speech draws sp in the speech panel, scrolled down by top pixels. The
// arrow is shown when more pages follow.
func (c *Commands) Speech(sp types.Speech, top int, more bool, timer uint32) {
	c.NineSlice(SpeechBox, DefaultSlices)
	c.PrintLines(text.Lines(string(sp)), top, SpeechArea(), White)
	if more {
		c.NextArrow(timer, SpeechBox)
	}
}
