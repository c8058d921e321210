package dice

import (
	"errors"
	"fmt"
)

// EngineError is implemented by every error the notation engine returns for a
// notation: *LexError, *ParseError and *EvalError. Programming errors such as
// ErrNilExpression and ErrNilRandomSource are plain sentinels instead.
type EngineError interface {
	error
	// Position returns the byte offset in the notation the error refers to,
	// or -1 when the error is not tied to a location.
	Position() int
	engineError()
}

// LexError reports a malformed character stream.
type LexError struct {
	Pos  int
	Char rune
	// Number is set when the error is a malformed numeric literal.
	Number string
}

func (e *LexError) Error() string {
	if e.Number != "" {
		return fmt.Sprintf("invalid number %q at position %d", e.Number, e.Pos)
	}
	return fmt.Sprintf("unexpected character %q at position %d", e.Char, e.Pos)
}

// Position returns the byte offset of the offending character.
func (e *LexError) Position() int { return e.Pos }

func (*LexError) engineError() {}

// ParseError reports notation that does not match the grammar.
type ParseError struct {
	Pos      int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expected %s at position %d, found %s", e.Expected, e.Pos, e.Found)
}

// Position returns the byte offset of the unexpected token.
func (e *ParseError) Position() int { return e.Pos }

func (*ParseError) engineError() {}

// EvalReason classifies evaluation failures.
type EvalReason int

const (
	ReasonTooManyDice EvalReason = iota + 1
	ReasonTooManySides
	ReasonDivisionByZero
	ReasonOverflow
)

func (r EvalReason) String() string {
	switch r {
	case ReasonTooManyDice:
		return "too many dice"
	case ReasonTooManySides:
		return "too many sides"
	case ReasonDivisionByZero:
		return "division by zero"
	case ReasonOverflow:
		return "integer overflow"
	default:
		return "unknown"
	}
}

var (
	// ErrTooManyDice matches an *EvalError raised when a term exceeds Limits.MaxDice.
	ErrTooManyDice = errors.New("dice count exceeds limit")
	// ErrTooManySides matches an *EvalError raised when a term exceeds Limits.MaxSides.
	ErrTooManySides = errors.New("die sides exceed limit")
	// ErrDivisionByZero matches an *EvalError raised when dividing by zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOverflow matches an *EvalError raised when arithmetic overflows.
	ErrOverflow = errors.New("integer overflow")
)

var (
	// ErrNilExpression is returned when Evaluate is called without an expression.
	ErrNilExpression = errors.New("expression is required")
	// ErrNilRandomSource is returned when Evaluate is called without a random source.
	ErrNilRandomSource = errors.New("random source is required")
)

var reasonSentinels = map[EvalReason]error{
	ReasonTooManyDice:    ErrTooManyDice,
	ReasonTooManySides:   ErrTooManySides,
	ReasonDivisionByZero: ErrDivisionByZero,
	ReasonOverflow:       ErrOverflow,
}

// EvalError reports a failure only detectable while evaluating.
type EvalError struct {
	Reason EvalReason
	Pos    int
	// Limit and Got are set for ceiling violations.
	Limit int
	Got   int
}

func (e *EvalError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("%s at position %d: %d exceeds limit of %d", e.Reason, e.Pos, e.Got, e.Limit)
	}
	return fmt.Sprintf("%s at position %d", e.Reason, e.Pos)
}

// Position returns the byte offset of the term or operator that failed.
func (e *EvalError) Position() int { return e.Pos }

// Is matches the sentinel error for the failure reason.
func (e *EvalError) Is(target error) bool {
	return reasonSentinels[e.Reason] == target
}

func (*EvalError) engineError() {}
