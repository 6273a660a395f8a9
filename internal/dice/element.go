package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies what a Token's Value means.
type Kind uint8

const (
	KindNone Kind = iota
	KindOperator
	KindNumber
	KindDice
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindOperator:
		return "operator"
	case KindNumber:
		return "number"
	case KindDice:
		return "dice"
	default:
		return "none"
	}
}

// Operator is an arithmetic operator or parenthesis.
//
// NotAnOperator is only produced while classifying characters; it is never
// stored in a Token.
type Operator uint32

const (
	NotAnOperator Operator = iota
	Plus
	Minus
	Times
	OpenParen
	CloseParen
)

// OperatorFromByte classifies c, returning NotAnOperator for anything other
// than one of "+-*()".
func OperatorFromByte(c byte) Operator {
	switch c {
	case '+':
		return Plus
	case '-':
		return Minus
	case '*':
		return Times
	case '(':
		return OpenParen
	case ')':
		return CloseParen
	default:
		return NotAnOperator
	}
}

// Byte returns the formula character for op, or 0 for NotAnOperator.
func (op Operator) Byte() byte {
	switch op {
	case Plus:
		return '+'
	case Minus:
		return '-'
	case Times:
		return '*'
	case OpenParen:
		return '('
	case CloseParen:
		return ')'
	default:
		return 0
	}
}

// Precedence returns the binding strength of op. OpenParen ranks highest and
// acts as a barrier on the operator stack.
func (op Operator) Precedence() int {
	switch op {
	case Plus, Minus:
		return 1
	case Times:
		return 2
	case OpenParen:
		return 3
	default:
		return 0
	}
}

// String returns the operator character.
func (op Operator) String() string {
	if b := op.Byte(); b != 0 {
		return string(b)
	}
	return "?"
}

// Token is one element of a tokenized formula.
//
// Value holds the Operator for KindOperator, the literal for KindNumber and
// the face count for KindDice.
type Token struct {
	Kind  Kind
	Value uint32
}

// NumberToken returns a KindNumber token holding n.
func NumberToken(n uint32) Token { return Token{Kind: KindNumber, Value: n} }

// DiceToken returns a KindDice token for a single die with the given faces.
func DiceToken(faces uint32) Token { return Token{Kind: KindDice, Value: faces} }

// OperatorToken returns a KindOperator token for op.
func OperatorToken(op Operator) Token { return Token{Kind: KindOperator, Value: uint32(op)} }

// Operator returns the token's operator, or NotAnOperator for other kinds.
func (t Token) Operator() Operator {
	if t.Kind != KindOperator {
		return NotAnOperator
	}
	return Operator(t.Value)
}

// String renders the token as it appears in a trace: "d6", "3" or "+".
func (t Token) String() string {
	switch t.Kind {
	case KindDice:
		return "d" + strconv.FormatUint(uint64(t.Value), 10)
	case KindNumber:
		return strconv.FormatUint(uint64(t.Value), 10)
	case KindOperator:
		return t.Operator().String()
	default:
		return ""
	}
}

const defaultSequenceCapacity = 8

// Sequence is an ordered, growable list of Tokens.
//
// Invariant: indices [0, Len()) are valid and Cap() >= Len().
// A Sequence is created per evaluation and never shared between evaluations.
type Sequence struct {
	tokens []Token
}

// NewSequence returns an empty Sequence.
func NewSequence() *Sequence {
	return &Sequence{tokens: make([]Token, 0, defaultSequenceCapacity)}
}

// SequenceOf returns a Sequence holding a copy of tokens.
func SequenceOf(tokens ...Token) *Sequence {
	s := &Sequence{tokens: make([]Token, len(tokens), max(len(tokens), defaultSequenceCapacity))}
	copy(s.tokens, tokens)
	return s
}

// Len returns the number of tokens.
func (s *Sequence) Len() int { return len(s.tokens) }

// Cap returns the capacity of the backing storage.
func (s *Sequence) Cap() int { return cap(s.tokens) }

// Append adds t at the end, growing the backing storage when needed.
func (s *Sequence) Append(t Token) {
	s.tokens = append(s.tokens, t)
}

// At returns the token at index i.
//
// Precondition: 0 <= i < Len(). Panics otherwise.
func (s *Sequence) At(i int) Token {
	return s.tokens[i]
}

// Set replaces the token at index i.
//
// Postcondition: Len() and every other token are unchanged; returns an error
// wrapping ErrIndexOutOfBounds when i is outside [0, Len()).
func (s *Sequence) Set(i int, t Token) error {
	if i < 0 || i >= len(s.tokens) {
		return fmt.Errorf("dice: set token %d of %d: %w", i, len(s.tokens), ErrIndexOutOfBounds)
	}
	s.tokens[i] = t
	return nil
}

// Tokens returns a copy of the tokens.
func (s *Sequence) Tokens() []Token {
	out := make([]Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Clone returns a deep copy of s.
func (s *Sequence) Clone() Sequence {
	return Sequence{tokens: s.Tokens()}
}

// Count returns the number of tokens of kind k.
func (s *Sequence) Count(k Kind) int {
	n := 0
	for _, t := range s.tokens {
		if t.Kind == k {
			n++
		}
	}
	return n
}

// String renders the tokens separated by spaces, e.g. "( d6 + d6 ) + 3".
func (s *Sequence) String() string {
	parts := make([]string, 0, len(s.tokens))
	for _, t := range s.tokens {
		if str := t.String(); str != "" {
			parts = append(parts, str)
		}
	}
	return strings.Join(parts, " ")
}
