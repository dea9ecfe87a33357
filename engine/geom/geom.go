// Package geom provides the tile, pixel, and sub-tile numeric types used by the
// engine. All coordinate and distance arithmetic saturates at the bounds of the
// underlying type; nothing here wraps or panics.
package geom

import "math"

// X is a tile column index.
type X uint16

// Y is a tile row index.
type Y uint16

// W is a distance along X in tiles.
type W uint16

// H is a distance along Y in tiles.
type H uint16

func satAdd(a, b uint16) uint16 {
	s := uint32(a) + uint32(b)
	if s > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(s)
}

func satSub(a, b uint16) uint16 {
	if b > a {
		return 0
	}
	return a - b
}

func satMul(a, b uint16) uint16 {
	p := uint32(a) * uint32(b)
	if p > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(p)
}

// Add moves x right by w.
func (x X) Add(w W) X { return X(satAdd(uint16(x), uint16(w))) }

// Sub moves x left by w.
func (x X) Sub(w W) X { return X(satSub(uint16(x), uint16(w))) }

// Dist returns the distance from o to x, or 0 if o is past x.
func (x X) Dist(o X) W { return W(satSub(uint16(x), uint16(o))) }

// Add moves y down by h.
func (y Y) Add(h H) Y { return Y(satAdd(uint16(y), uint16(h))) }

// Sub moves y up by h.
func (y Y) Sub(h H) Y { return Y(satSub(uint16(y), uint16(h))) }

// Dist returns the distance from o to y, or 0 if o is past y.
func (y Y) Dist(o Y) H { return H(satSub(uint16(y), uint16(o))) }

func (w W) Add(o W) W { return W(satAdd(uint16(w), uint16(o))) }
func (w W) Sub(o W) W { return W(satSub(uint16(w), uint16(o))) }
func (w W) Mul(n uint16) W { return W(satMul(uint16(w), n)) }
func (h H) Add(o H) H { return H(satAdd(uint16(h), uint16(o))) }
func (h H) Sub(o H) H { return H(satSub(uint16(h), uint16(o))) }
func (h H) Mul(n uint16) H { return H(satMul(uint16(h), n)) }
func (x X) Mul(n uint16) X { return X(satMul(uint16(x), n)) }
func (y Y) Mul(n uint16) Y { return Y(satMul(uint16(y), n)) }
func (x X) Less(o X) bool { return x < o }
func (y Y) Less(o Y) bool { return y < o }
func (w W) Int() int { return int(w) }
func (h H) Int() int { return int(h) }

// XY is a tile coordinate.
type XY struct {
	X X `json:"x"`
	Y Y `json:"y"`
}

// Less orders coordinates row-major.
func (p XY) Less(o XY) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// Dir is one of the four cardinal directions.
type Dir uint8

const (
	Up Dir = iota
	Down
	Left
	Right
)

func (d Dir) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Step returns p moved one tile in d, clamped at the type bounds.
func (p XY) Step(d Dir) XY {
	switch d {
	case Up:
		p.Y = p.Y.Sub(1)
	case Down:
		p.Y = p.Y.Add(1)
	case Left:
		p.X = p.X.Sub(1)
	case Right:
		p.X = p.X.Add(1)
	}
	return p
}

// Index returns the row-major index of p in a grid of the given width, and
// whether p lies inside a grid of n cells.
func (p XY) Index(width W, n int) (int, bool) {
	if width == 0 || W(p.X) >= width {
		return 0, false
	}
	i := int(p.Y)*int(width) + int(p.X)
	if i >= n {
		return 0, false
	}
	return i, true
}

// FromIndex is the inverse of Index.
func FromIndex(i int, width W) XY {
	if width == 0 {
		return XY{}
	}
	return XY{X: X(i % int(width)), Y: Y(i / int(width))}
}
