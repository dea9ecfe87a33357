package geom

import "math"

// PX is an unsigned pixel column on the logical screen.
type PX uint16

// PY is an unsigned pixel row on the logical screen.
type PY uint16

// PW is a pixel width.
type PW uint16

// PH is a pixel height.
type PH uint16

// XD is a signed horizontal pixel displacement, used for screen shake.
type XD int16

// YD is a signed vertical pixel displacement, used for screen shake.
type YD int16

func (x PX) Add(w PW) PX { return PX(satAdd(uint16(x), uint16(w))) }
func (x PX) Sub(w PW) PX { return PX(satSub(uint16(x), uint16(w))) }
func (y PY) Add(h PH) PY { return PY(satAdd(uint16(y), uint16(h))) }
func (y PY) Sub(h PH) PY { return PY(satSub(uint16(y), uint16(h))) }
func (w PW) Add(o PW) PW { return PW(satAdd(uint16(w), uint16(o))) }
func (w PW) Sub(o PW) PW { return PW(satSub(uint16(w), uint16(o))) }
func (w PW) Mul(n uint16) PW { return PW(satMul(uint16(w), n)) }
func (h PH) Add(o PH) PH { return PH(satAdd(uint16(h), uint16(o))) }
func (h PH) Sub(o PH) PH { return PH(satSub(uint16(h), uint16(o))) }
func (h PH) Mul(n uint16) PH { return PH(satMul(uint16(h), n)) }

// Shift applies a signed displacement, saturating at 0 and the max pixel.
func (x PX) Shift(d XD) PX {
	if d < 0 {
		return x.Sub(PW(-int32(d)))
	}
	return x.Add(PW(d))
}

// Shift applies a signed displacement, saturating at 0 and the max pixel.
func (y PY) Shift(d YD) PY {
	if d < 0 {
		return y.Sub(PH(-int32(d)))
	}
	return y.Add(PH(d))
}

// Rect is a pixel rectangle with inclusive min and exclusive max edges.
type Rect struct {
	XMin PX `json:"x_min"`
	YMin PY `json:"y_min"`
	XMax PX `json:"x_max"`
	YMax PY `json:"y_max"`
}

// Unscaled is a pixel rectangle expressed as origin plus size.
type Unscaled struct {
	X PX
	Y PY
	W PW
	H PH
}

// RectFromUnscaled converts an origin/size rectangle into min/max form.
func RectFromUnscaled(u Unscaled) Rect {
	return Rect{
		XMin: u.X,
		YMin: u.Y,
		XMax: u.X.Add(u.W),
		YMax: u.Y.Add(u.H),
	}
}

// Unscaled converts r into origin/size form.
func (r Rect) Unscaled() Unscaled {
	return Unscaled{
		X: r.XMin,
		Y: r.YMin,
		W: PW(satSub(uint16(r.XMax), uint16(r.XMin))),
		H: PH(satSub(uint16(r.YMax), uint16(r.YMin))),
	}
}

// Valid reports whether the max edges are not before the min edges.
func (r Rect) Valid() bool {
	return r.XMin <= r.XMax && r.YMin <= r.YMax
}

// Width returns the pixel width of r.
func (r Rect) Width() PW { return r.Unscaled().W }

// Height returns the pixel height of r.
func (r Rect) Height() PH { return r.Unscaled().H }

// Translate shifts every edge of r by (xd, yd).
func (r Rect) Translate(xd XD, yd YD) Rect {
	return Rect{
		XMin: r.XMin.Shift(xd),
		YMin: r.YMin.Shift(yd),
		XMax: r.XMax.Shift(xd),
		YMax: r.YMax.Shift(yd),
	}
}

// ShakeDisplacement scales the unit vector at angle by amount, rounding toward
// zero.
func ShakeDisplacement(angle float64, amount uint8) (XD, YD) {
	a := float64(amount)
	return XD(math.Trunc(math.Cos(angle) * a)), YD(math.Trunc(math.Sin(angle) * a))
}
