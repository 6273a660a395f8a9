package dice

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MaxElementLength is the longest run of non-operator characters accepted
	// between two operators.
	MaxElementLength = 15
	// DefaultMaxDice caps the number of dice a single formula may expand to.
	DefaultMaxDice = 10000
)

type tokenizer struct {
	seq     *Sequence
	staged  []byte
	start   int // formula offset of the first staged character
	dice    int
	maxDice int
}

// Tokenize splits formula into a Sequence, expanding every dice term NdM into
// "( dM + dM + ... + dM )" with N dice tokens.
//
// Spaces and tabs are ignored. Within an element only leading digits are
// read: "3x" is the literal 3 and "2d6x" rolls 2d6. An uppercase "D" is
// accepted as the dice separator.
//
// Precondition: maxDice <= 0 selects DefaultMaxDice.
// Postcondition: Returns a Sequence of Number, Dice and Operator tokens, or an
// error wrapping ErrInvalidInput, ErrElementTooLong, ErrTooManyDice,
// ErrOverflow or ErrIndexOutOfBounds.
func Tokenize(formula string, maxDice int) (*Sequence, error) {
	if strings.TrimSpace(formula) == "" {
		return nil, fmt.Errorf("dice: empty formula: %w", ErrInvalidInput)
	}
	if maxDice <= 0 {
		maxDice = DefaultMaxDice
	}
	t := &tokenizer{
		seq:     NewSequence(),
		staged:  make([]byte, 0, MaxElementLength),
		maxDice: maxDice,
	}

	for i := 0; i < len(formula); i++ {
		c := formula[i]
		if c == ' ' || c == '\t' {
			continue
		}

		op := OperatorFromByte(c)
		if op == NotAnOperator {
			if len(t.staged) == 0 {
				t.start = i
			}
			if len(t.staged) >= MaxElementLength {
				return nil, fmt.Errorf("dice: element %q at offset %d exceeds %d characters: %w",
					string(t.staged)+string(c), t.start, MaxElementLength, ErrElementTooLong)
			}
			t.staged = append(t.staged, c)
			continue
		}

		switch op {
		case OpenParen:
			if len(t.staged) > 0 {
				if err := t.flush(); err != nil {
					return nil, err
				}
			}
		default:
			if err := t.flushRequired(i); err != nil {
				return nil, err
			}
		}
		t.seq.Append(OperatorToken(op))
	}

	if err := t.flushRequired(len(formula)); err != nil {
		return nil, err
	}
	return t.seq, nil
}

// flushRequired flushes the staged element before a binary operator, a
// closing parenthesis or the end of input. An empty element is only allowed
// right after a closing parenthesis.
func (t *tokenizer) flushRequired(offset int) error {
	if len(t.staged) > 0 {
		return t.flush()
	}
	if n := t.seq.Len(); n > 0 && t.seq.At(n-1).Operator() == CloseParen {
		return nil
	}
	return fmt.Errorf("dice: empty element before offset %d: %w", offset, ErrInvalidInput)
}

func (t *tokenizer) flush() error {
	run := strings.ToLower(string(t.staged))
	t.staged = t.staged[:0]
	return t.resolveElement(run)
}

func (t *tokenizer) resolveElement(run string) error {
	if run == "" {
		return fmt.Errorf("dice: empty element at offset %d: %w", t.start, ErrInvalidInput)
	}

	dIdx := strings.IndexByte(run, 'd')
	if dIdx < 0 {
		n, err := leadingNumber(run)
		if err != nil {
			return fmt.Errorf("dice: literal %q: %w", run, err)
		}
		t.seq.Append(NumberToken(n))
		return nil
	}

	count, err := leadingNumber(run)
	if err != nil {
		return fmt.Errorf("dice: dice count in %q: %w", run, err)
	}
	faces, err := leadingNumber(run[dIdx+1:])
	if err != nil {
		return fmt.Errorf("dice: face count in %q: %w", run, err)
	}
	if count == 0 {
		return fmt.Errorf("dice: dice count in %q must be >= 1: %w", run, ErrInvalidInput)
	}
	if faces == 0 {
		return fmt.Errorf("dice: face count in %q must be >= 1: %w", run, ErrInvalidInput)
	}
	if uint64(t.dice)+uint64(count) > uint64(t.maxDice) {
		return fmt.Errorf("dice: %q brings the formula to %d dice, limit is %d: %w",
			run, uint64(t.dice)+uint64(count), t.maxDice, ErrTooManyDice)
	}
	t.dice += int(count)

	t.seq.Append(OperatorToken(OpenParen))
	for i := uint32(0); i < count; i++ {
		t.seq.Append(DiceToken(faces))
		t.seq.Append(OperatorToken(Plus))
	}
	// the trailing "+" becomes the closing parenthesis
	return t.seq.Set(t.seq.Len()-1, OperatorToken(CloseParen))
}

// leadingNumber reads the decimal digits at the start of s, stopping at the
// first non-digit. No digits reads as 0.
func leadingNumber(s string) (uint32, error) {
	var n uint64
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + uint64(s[i]-'0')
		if n > math.MaxInt32 {
			return 0, fmt.Errorf("value exceeds %d: %w", math.MaxInt32, ErrOverflow)
		}
	}
	return uint32(n), nil
}
