package errors

import (
	stderrors "errors"
	"strconv"

	"github.com/louisbranch/rollbot/internal/core/dice"
	"github.com/louisbranch/rollbot/internal/random"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata for i18n templating.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithMetadata creates a domain error with both metadata and a cause.
func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
		Cause:    cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}

// FromDice converts notation engine and seed errors into domain errors. Errors
// that are already domain errors pass through; anything else is wrapped as
// CodeUnknown. A nil err returns nil.
func FromDice(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return err
	}

	if stderrors.Is(err, random.ErrSeedOutOfRange()) {
		return Wrap(CodeSeedOutOfRange, err.Error(), err)
	}

	var lexErr *dice.LexError
	if stderrors.As(err, &lexErr) {
		metadata := map[string]string{"Position": strconv.Itoa(lexErr.Pos)}
		if lexErr.Number != "" {
			metadata["Number"] = lexErr.Number
			return WrapWithMetadata(CodeDiceLexInvalidNum, err.Error(), metadata, err)
		}
		metadata["Char"] = string(lexErr.Char)
		return WrapWithMetadata(CodeDiceLexInvalidChar, err.Error(), metadata, err)
	}

	var parseErr *dice.ParseError
	if stderrors.As(err, &parseErr) {
		return WrapWithMetadata(CodeDiceParseUnexpected, err.Error(), map[string]string{
			"Position": strconv.Itoa(parseErr.Pos),
			"Expected": parseErr.Expected,
			"Found":    parseErr.Found,
		}, err)
	}

	var evalErr *dice.EvalError
	if stderrors.As(err, &evalErr) {
		metadata := map[string]string{"Position": strconv.Itoa(evalErr.Pos)}
		if evalErr.Limit > 0 {
			metadata["Limit"] = strconv.Itoa(evalErr.Limit)
			metadata["Got"] = strconv.Itoa(evalErr.Got)
		}
		return WrapWithMetadata(evalCode(evalErr.Reason), err.Error(), metadata, err)
	}

	return Wrap(CodeUnknown, err.Error(), err)
}

func evalCode(reason dice.EvalReason) Code {
	switch reason {
	case dice.ReasonTooManyDice:
		return CodeDiceEvalTooManyDice
	case dice.ReasonTooManySides:
		return CodeDiceEvalTooManySides
	case dice.ReasonDivisionByZero:
		return CodeDiceEvalDivisionByZero
	case dice.ReasonOverflow:
		return CodeDiceEvalOverflow
	default:
		return CodeUnknown
	}
}
