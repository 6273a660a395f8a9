package dice_test

import (
	"strconv"
)

func itoa(n int) string { return strconv.Itoa(n) }

// scriptedSource returns queued values in order, clamped into the requested
// range, and records every request.
type scriptedSource struct {
	values []uint32
	calls  [][2]uint32
}

func (s *scriptedSource) Uint32InRange(lo, hi uint32) uint32 {
	s.calls = append(s.calls, [2]uint32{lo, hi})
	if len(s.values) == 0 {
		return lo
	}
	v := s.values[0]
	s.values = s.values[1:]
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
