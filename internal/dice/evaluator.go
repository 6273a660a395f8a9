package dice

import (
	"fmt"
	"math"
)

// ToPostfix converts a dice-free sequence to postfix order with the
// shunting-yard algorithm. Operators of equal precedence associate left.
//
// Postcondition: Returns Number and Plus/Minus/Times tokens only, or an error
// wrapping ErrInvalidInput for dice tokens, unknown operators or unbalanced
// parentheses.
func ToPostfix(seq *Sequence) ([]Token, error) {
	out := make([]Token, 0, seq.Len())
	ops := make([]Operator, 0, seq.Len())

	for i := 0; i < seq.Len(); i++ {
		tok := seq.At(i)
		switch tok.Kind {
		case KindNumber:
			out = append(out, tok)

		case KindOperator:
			op := tok.Operator()
			switch op {
			case OpenParen:
				ops = append(ops, op)
			case CloseParen:
				for len(ops) > 0 && ops[len(ops)-1] != OpenParen {
					out = append(out, OperatorToken(ops[len(ops)-1]))
					ops = ops[:len(ops)-1]
				}
				if len(ops) == 0 {
					return nil, fmt.Errorf("dice: unmatched ')' at token %d: %w", i, ErrInvalidInput)
				}
				ops = ops[:len(ops)-1]
			case Plus, Minus, Times:
				for len(ops) > 0 {
					top := ops[len(ops)-1]
					if top == OpenParen || top.Precedence() < op.Precedence() {
						break
					}
					out = append(out, OperatorToken(top))
					ops = ops[:len(ops)-1]
				}
				ops = append(ops, op)
			default:
				return nil, fmt.Errorf("dice: unknown operator %d at token %d: %w", tok.Value, i, ErrInvalidInput)
			}

		default:
			return nil, fmt.Errorf("dice: unexpected %s token at %d: %w", tok.Kind, i, ErrInvalidInput)
		}
	}

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		if top == OpenParen {
			return nil, fmt.Errorf("dice: unmatched '(': %w", ErrInvalidInput)
		}
		out = append(out, OperatorToken(top))
		ops = ops[:len(ops)-1]
	}
	return out, nil
}

// EvaluatePostfix reduces a postfix token list to a single value.
//
// Arithmetic is checked: any value outside int32 fails with ErrOverflow
// instead of wrapping.
//
// Postcondition: Returns the value, or an error wrapping ErrStackUnderflow
// (operator with fewer than two operands), ErrEmptyResult (no value),
// ErrInvalidInput (more than one value or a foreign token) or ErrOverflow.
func EvaluatePostfix(postfix []Token) (int32, error) {
	stack := make([]int64, 0, len(postfix))

	for i, tok := range postfix {
		switch tok.Kind {
		case KindNumber:
			if tok.Value > math.MaxInt32 {
				return 0, fmt.Errorf("dice: number %d at token %d: %w", tok.Value, i, ErrOverflow)
			}
			stack = append(stack, int64(tok.Value))

		case KindOperator:
			if len(stack) < 2 {
				return 0, fmt.Errorf("dice: %s at token %d needs two operands, have %d: %w",
					tok.Operator(), i, len(stack), ErrStackUnderflow)
			}
			rhs := stack[len(stack)-1]
			lhs := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			v, err := apply(tok.Operator(), lhs, rhs)
			if err != nil {
				return 0, fmt.Errorf("dice: token %d: %w", i, err)
			}
			stack = append(stack, v)

		default:
			return 0, fmt.Errorf("dice: unexpected %s token in postfix at %d: %w", tok.Kind, i, ErrInvalidInput)
		}
	}

	switch len(stack) {
	case 0:
		return 0, fmt.Errorf("dice: expression produced no value: %w", ErrEmptyResult)
	case 1:
		return int32(stack[0]), nil
	default:
		return 0, fmt.Errorf("dice: expression left %d values, missing operator: %w", len(stack), ErrInvalidInput)
	}
}

// Calculate evaluates a dice-free sequence.
func Calculate(seq *Sequence) (int32, error) {
	postfix, err := ToPostfix(seq)
	if err != nil {
		return 0, err
	}
	return EvaluatePostfix(postfix)
}

// apply computes lhs op rhs. Operands are int32 values widened to int64, so
// the raw result cannot overflow int64.
func apply(op Operator, lhs, rhs int64) (int64, error) {
	var v int64
	switch op {
	case Plus:
		v = lhs + rhs
	case Minus:
		v = lhs - rhs
	case Times:
		v = lhs * rhs
	default:
		return 0, fmt.Errorf("operator %s is not binary: %w", op, ErrInvalidInput)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%d %s %d = %d: %w", lhs, op, rhs, v, ErrOverflow)
	}
	return v, nil
}
