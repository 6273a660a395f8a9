// Package dice evaluates tabletop dice formulas such as "2d6+3d4-1" or
// "(1d20+5)*2".
//
// Evaluation runs in three stages: Tokenize expands the formula into a
// Sequence in which every NdM term becomes a parenthesised sum of N single
// dice, Resolve turns each die into a number (random, maximum or minimum), and
// Calculate applies shunting-yard and postfix evaluation to produce an int32.
package dice

import (
	"fmt"
	"strings"
)

// RollResult holds the full audit trail for one formula evaluation.
//
// Postcondition: Total is the value of the formula after every die in Rolls
// was substituted.
type RollResult struct {
	ID           string // unique per evaluation, used to correlate logs
	Formula      string // formula as given, e.g. "2d6+3"
	Policy       Policy
	Advantage    bool
	Disadvantage bool
	Expanded     Sequence // tokens before dice resolution
	Resolved     Sequence // tokens after dice resolution
	Rolls        []DieRoll
	Total        int32
}

// Values returns the result of every die in formula order.
func (r RollResult) Values() []uint32 {
	out := make([]uint32, len(r.Rolls))
	for i, roll := range r.Rolls {
		out[i] = roll.Result
	}
	return out
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] = 12"
//
// Precondition: r.Formula is non-empty.
func (r RollResult) String() string {
	if r.Formula == "" {
		panic("dice: RollResult.String() precondition violated: Formula must be non-empty")
	}
	var b strings.Builder
	b.WriteString(r.Formula)
	b.WriteString(" → ")
	fmt.Fprintf(&b, "%v", r.Values())
	fmt.Fprintf(&b, " = %d", r.Total)
	return b.String()
}
