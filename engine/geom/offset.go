package geom

import (
	"encoding/json"
	"math"
)

// smallestNormal is the smallest positive normal float32.
const smallestNormal = 0x1p-126

// decayStep is how far Decay moves an offset toward zero.
const decayStep = 1.0 / 8.0

// Offset is a sub-tile displacement in [-1, 1]. The zero value is 0.
// Construct with NewOffset so every value is normalized.
type Offset struct {
	v float32
}

// NewOffset normalizes v: NaN, zero and subnormal values become 0, infinities
// become ±1, and everything else is clamped to [-1, 1].
func NewOffset(v float32) Offset {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return Offset{}
	case math.IsInf(f, 1):
		return Offset{1}
	case math.IsInf(f, -1):
		return Offset{-1}
	case math.Abs(f) < smallestNormal:
		return Offset{}
	case v > 1:
		return Offset{1}
	case v < -1:
		return Offset{-1}
	}
	return Offset{v}
}

// Float returns the normalized value.
func (o Offset) Float() float32 { return o.v }

// Add returns the normalized sum.
func (o Offset) Add(d Offset) Offset { return NewOffset(o.v + d.v) }

// Sub returns the normalized difference.
func (o Offset) Sub(d Offset) Offset { return NewOffset(o.v - d.v) }

// Decay moves o one step toward zero without overshooting.
func (o Offset) Decay() Offset {
	switch {
	case o.v > 0:
		if o.v <= decayStep {
			return Offset{}
		}
		return NewOffset(o.v - decayStep)
	case o.v < 0:
		if o.v >= -decayStep {
			return Offset{}
		}
		return NewOffset(o.v + decayStep)
	}
	return o
}

// IsZero reports whether o is exactly 0.
func (o Offset) IsZero() bool { return o.v == 0 }

// Less is a total order since normalized offsets are never NaN.
func (o Offset) Less(p Offset) bool { return o.v < p.v }

// Pixels scales o by a tile size in pixels.
func (o Offset) Pixels(size uint16) int32 {
	return int32(o.v * float32(size))
}

// MarshalJSON encodes the normalized value.
func (o Offset) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.v)
}

// UnmarshalJSON decodes and normalizes a value.
func (o *Offset) UnmarshalJSON(b []byte) error {
	var v float32
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = NewOffset(v)
	return nil
}
