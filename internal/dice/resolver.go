package dice

import "fmt"

//go:generate mockgen -package=mocks -destination=mocks/mock_source.go github.com/cory-johannsen/diceroller/internal/dice Source

// Source is the randomness provider for dice rolls.
type Source interface {
	// Uint32InRange returns a value in [lo, hi], or lo when hi <= lo.
	Uint32InRange(lo, hi uint32) uint32
}

// Policy selects how dice tokens become numbers.
type Policy uint8

const (
	// PolicyRandom rolls every die with the Source.
	PolicyRandom Policy = iota
	// PolicyMax gives every die its face count.
	PolicyMax
	// PolicyMin gives every die a 1.
	PolicyMin
)

// String returns the lowercase policy name.
func (p Policy) String() string {
	switch p {
	case PolicyRandom:
		return "random"
	case PolicyMax:
		return "max"
	case PolicyMin:
		return "min"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// Resolve replaces every dice token in seq with a number token according to
// req.Policy, reporting each die to req.Observer.
//
// Under PolicyRandom the first d20 honours req.Advantage (best of two draws)
// and the request is consumed. req.Disadvantage (worst of two draws) applies
// to the first d20 not consumed by advantage, so requesting both throws the
// first d20 with advantage and the second with disadvantage. Remaining d20s
// roll once.
//
// Precondition: req.Source must be non-nil when req.Policy is PolicyRandom.
// Postcondition: seq.Len() is unchanged and seq holds no dice tokens.
func Resolve(seq *Sequence, req Request) error {
	if req.Policy == PolicyRandom && req.Source == nil {
		panic("dice: Resolve precondition violated: PolicyRandom requires a non-nil Source")
	}
	if req.Policy > PolicyMin {
		return fmt.Errorf("dice: unknown %s: %w", req.Policy, ErrInvalidInput)
	}

	advantage, disadvantage := req.Advantage, req.Disadvantage
	for i := 0; i < seq.Len(); i++ {
		tok := seq.At(i)
		if tok.Kind != KindDice {
			continue
		}

		roll := DieRoll{Index: i, Faces: tok.Value}
		switch req.Policy {
		case PolicyMax:
			roll.Result, roll.Mode = tok.Value, ModeMax
		case PolicyMin:
			roll.Result, roll.Mode = 1, ModeMin
		default:
			switch {
			case tok.Value == 20 && advantage:
				first := req.Source.Uint32InRange(1, 20)
				second := req.Source.Uint32InRange(1, 20)
				roll.Draws = []uint32{first, second}
				roll.Result, roll.Mode = max(first, second), ModeAdvantage
				advantage = false
			case tok.Value == 20 && disadvantage:
				first := req.Source.Uint32InRange(1, 20)
				second := req.Source.Uint32InRange(1, 20)
				roll.Draws = []uint32{first, second}
				roll.Result, roll.Mode = min(first, second), ModeDisadvantage
				disadvantage = false
			default:
				roll.Result = req.Source.Uint32InRange(1, tok.Value)
				roll.Draws = []uint32{roll.Result}
			}
		}

		if err := seq.Set(i, NumberToken(roll.Result)); err != nil {
			return err
		}
		if req.Observer != nil {
			req.Observer.DieRolled(roll)
		}
	}
	return nil
}
