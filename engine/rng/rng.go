// Package rng provides the engine's single deterministic pseudorandom stream.
package rng

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// Seed is the raw 16-byte seed supplied at startup.
type Seed [16]byte

// fallback state for an all-zero seed, which xorshift cannot escape.
const (
	fallback0 = 0x9E3779B97F4A7C15
	fallback1 = 0xBF58476D1CE4E5B9
)

// RNG is a xorshift128+ stream with position tracking. Position increments
// with every draw, enabling replay checks.
type RNG struct {
	seed Seed
	s0   uint64
	s1   uint64
	pos  int64
}

// New creates a stream from a seed.
func New(seed Seed) *RNG {
	r := &RNG{seed: seed}
	r.reseed()
	return r
}

func (r *RNG) reseed() {
	r.s0 = binary.LittleEndian.Uint64(r.seed[0:8])
	r.s1 = binary.LittleEndian.Uint64(r.seed[8:16])
	if r.s0 == 0 && r.s1 == 0 {
		r.s0, r.s1 = fallback0, fallback1
	}
	r.pos = 0
}

// Reset rewinds the stream to its initial seed.
func (r *RNG) Reset() {
	r.reseed()
}

// Seed returns the seed the stream was created from.
func (r *RNG) Seed() Seed {
	return r.seed
}

// Uint64 returns the next raw value.
func (r *RNG) Uint64() uint64 {
	r.pos++
	x, y := r.s0, r.s1
	r.s0 = y
	x ^= x << 23
	r.s1 = x ^ y ^ (x >> 17) ^ (y >> 26)
	return r.s1 + y
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Angle returns a value in [0, τ).
func (r *RNG) Angle() float64 {
	return r.Float64() * 2 * math.Pi
}

// Chance returns true with probability num/den.
func (r *RNG) Chance(num, den int) bool {
	if den <= 0 {
		return false
	}
	return r.Intn(den) < num
}

// Shuffle permutes n elements with Fisher-Yates, calling swap for each move.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}

// Position returns the number of draws made since creation or the last Reset.
func (r *RNG) Position() int64 {
	return r.pos
}

// Restore creates a stream and advances it to the given position.
func Restore(seed Seed, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.Uint64()
	}
	return r
}

// Reversed returns the seed with its bytes in reverse order. The renderer
// seeds its shake stream this way so it never draws from the gameplay stream.
func (s Seed) Reversed() Seed {
	var out Seed
	for i := range s {
		out[len(s)-1-i] = s[i]
	}
	return out
}

// SeedFromInt64 spreads an integer across a seed. Used by hosts that accept a
// numeric --seed.
func SeedFromInt64(v int64) Seed {
	var s Seed
	binary.LittleEndian.PutUint64(s[0:8], uint64(v))
	binary.LittleEndian.PutUint64(s[8:16], uint64(v)*fallback1+fallback0)
	return s
}

// String formats the seed as 32 hex digits.
func (s Seed) String() string {
	return hex.EncodeToString(s[:])
}

// ParseSeed reads a seed written by String. Shorter inputs are zero-padded
// on the right.
func ParseSeed(s string) (Seed, error) {
	var seed Seed
	b, err := hex.DecodeString(s)
	if err != nil {
		return seed, fmt.Errorf("parsing seed %q: %w", s, err)
	}
	if len(b) > len(seed) {
		return seed, fmt.Errorf("parsing seed %q: longer than %d bytes", s, len(seed))
	}
	copy(seed[:], b)
	return seed, nil
}
