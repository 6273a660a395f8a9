package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
)

// NewSeed returns a 64-bit seed read from the operating system's entropy source.
//
// Postcondition: Returns a seed or a non-nil error when crypto/rand fails.
func NewSeed() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("rng: reading OS entropy: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// CryptoSource draws dice values from crypto/rand.
//
// Invariant: values are uniformly distributed without modulo bias. Results are
// not reproducible; use Generator when a roll must be replayed.
// CryptoSource is safe for concurrent use.
type CryptoSource struct{}

// NewCryptoSource returns a CryptoSource.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// Uint32InRange returns a cryptographically secure value in [lo, hi].
//
// If hi <= lo, lo is returned.
// Panics with "rng: crypto/rand failure: <err>" if crypto/rand fails.
func (c *CryptoSource) Uint32InRange(lo, hi uint32) uint32 {
	if hi <= lo {
		return lo
	}
	span := big.NewInt(int64(hi) - int64(lo) + 1)
	val, err := rand.Int(rand.Reader, span)
	if err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	return lo + uint32(val.Int64())
}
