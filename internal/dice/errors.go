package dice

import "errors"

// Failure kinds. Every error returned by this package wraps exactly one of
// these; use errors.Is to tell them apart.
var (
	// ErrInvalidInput reports a malformed formula: an empty element, a zero
	// dice or face count, unbalanced parentheses or a token stream that does
	// not reduce to a single value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrElementTooLong reports a run of non-operator characters longer than
	// MaxElementLength.
	ErrElementTooLong = errors.New("element too long")
	// ErrIndexOutOfBounds reports a token replacement outside the sequence.
	// Seeing it from Evaluate indicates a defect.
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	// ErrStackUnderflow reports an operator without two operands during
	// postfix evaluation.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrEmptyResult reports a postfix evaluation that produced no value.
	ErrEmptyResult = errors.New("empty result")
	// ErrTooManyDice reports a formula expanding to more dice than allowed.
	ErrTooManyDice = errors.New("too many dice")
	// ErrOverflow reports a number or intermediate result outside int32.
	ErrOverflow = errors.New("integer overflow")
)
