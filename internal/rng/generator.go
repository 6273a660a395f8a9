// Package rng provides the pseudo-random number generators that feed dice
// resolution: a seedable linear congruential Generator for reproducible rolls
// and a crypto/rand backed source for rolls that must not be predictable.
package rng

const (
	// multiplier is the LCG multiplier (L'Ecuyer, "Tables of linear congruential
	// generators of different sizes and good lattice structure", 1999).
	multiplier uint64 = 2862933555777941757
	increment  uint64 = 696969696969
)

// Generator is a 64-bit linear congruential generator:
//
//	state = state*multiplier + increment (mod 2^64)
//
// Invariant: the sequence of values is fully determined by the seed.
// Generator is NOT safe for concurrent use; give each goroutine its own
// instance (see Split).
type Generator struct {
	state uint64
}

// New returns a Generator seeded with seed.
//
// Postcondition: two Generators created with the same seed produce identical sequences.
func New(seed uint64) *Generator {
	return &Generator{state: seed}
}

// Seed replaces the generator state.
//
// Postcondition: subsequent draws equal those of New(seed).
func (g *Generator) Seed(seed uint64) {
	g.state = seed
}

func (g *Generator) next() uint64 {
	g.state = g.state*multiplier + increment
	return g.state
}

// Uint64 advances the generator and returns the new state.
func (g *Generator) Uint64() uint64 { return g.next() }

// Uint32 returns the high 32 bits of the next state.
func (g *Generator) Uint32() uint32 { return uint32(g.next() >> 32) }

// Uint8 returns the high 8 bits of the next state.
func (g *Generator) Uint8() uint8 { return uint8(g.next() >> 56) }

// Int64 reinterprets Uint64 as a signed value.
func (g *Generator) Int64() int64 { return int64(g.Uint64()) }

// Int32 reinterprets Uint32 as a signed value.
func (g *Generator) Int32() int32 { return int32(g.Uint32()) }

// Int8 reinterprets Uint8 as a signed value.
func (g *Generator) Int8() int8 { return int8(g.Uint8()) }

// Uint64InRange returns a value in [lo, hi].
//
// If hi <= lo, lo is returned without advancing the generator.
// The distribution carries modulo bias; it is fine for dice, not for cryptography.
func (g *Generator) Uint64InRange(lo, hi uint64) uint64 {
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	if span == 0 {
		return g.Uint64()
	}
	return lo + g.Uint64()%span
}

// Uint32InRange returns a value in [lo, hi]. See Uint64InRange.
func (g *Generator) Uint32InRange(lo, hi uint32) uint32 {
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	if span == 0 {
		return g.Uint32()
	}
	return lo + g.Uint32()%span
}

// Uint8InRange returns a value in [lo, hi]. See Uint64InRange.
func (g *Generator) Uint8InRange(lo, hi uint8) uint8 {
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	if span == 0 {
		return g.Uint8()
	}
	return lo + g.Uint8()%span
}

// Int64InRange returns a value in [lo, hi]. The offset from lo is drawn
// from the unsigned generator of the same width.
func (g *Generator) Int64InRange(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := uint64(hi-lo) + 1
	if span == 0 {
		return g.Int64()
	}
	return lo + int64(g.Uint64()%span)
}

// Int32InRange returns a value in [lo, hi]. See Int64InRange.
func (g *Generator) Int32InRange(lo, hi int32) int32 {
	if hi <= lo {
		return lo
	}
	span := uint32(hi-lo) + 1
	if span == 0 {
		return g.Int32()
	}
	return lo + int32(g.Uint32()%span)
}

// Int8InRange returns a value in [lo, hi]. See Int64InRange.
func (g *Generator) Int8InRange(lo, hi int8) int8 {
	if hi <= lo {
		return lo
	}
	span := uint8(hi-lo) + 1
	if span == 0 {
		return g.Int8()
	}
	return lo + int8(g.Uint8()%span)
}

// Float32 returns a value in [0, 1) built from the top 24 bits of a 32-bit draw.
//
// The draw is scaled by 2^24 rather than divided by math.MaxUint32: a float32
// quotient of a full-width draw rounds up to 1.0 for the largest draws.
//
// Postcondition: 0 <= result < 1, including for an all-ones draw.
func (g *Generator) Float32() float32 {
	return float32(g.Uint32()>>8) / (1 << 24)
}

// Float64 returns a value in [0, 1) built from the top 53 bits of a draw,
// scaled by 2^53 for the same reason as Float32.
//
// Postcondition: 0 <= result < 1, including for an all-ones draw.
func (g *Generator) Float64() float64 {
	return float64(g.Uint64()>>11) / (1 << 53)
}

// Split returns a new Generator seeded from this generator's next draw.
//
// Postcondition: the parent advances by exactly one step; the child is independent of
// the parent from then on.
func (g *Generator) Split() *Generator {
	return New(g.Uint64())
}
