// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Notation errors
	CodeNotationEmpty       Code = "NOTATION_EMPTY"
	CodeDiceLexInvalidChar  Code = "DICE_LEX_INVALID_CHAR"
	CodeDiceLexInvalidNum   Code = "DICE_LEX_INVALID_NUMBER"
	CodeDiceParseUnexpected Code = "DICE_PARSE_UNEXPECTED"

	// Evaluation errors
	CodeDiceEvalTooManyDice    Code = "DICE_EVAL_TOO_MANY_DICE"
	CodeDiceEvalTooManySides   Code = "DICE_EVAL_TOO_MANY_SIDES"
	CodeDiceEvalDivisionByZero Code = "DICE_EVAL_DIVISION_BY_ZERO"
	CodeDiceEvalOverflow       Code = "DICE_EVAL_OVERFLOW"

	// Random/seed errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"

	// History errors
	CodeHistoryInvalidFilter    Code = "HISTORY_INVALID_FILTER"
	CodeHistoryInvalidPageToken Code = "HISTORY_INVALID_PAGE_TOKEN"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Category groups codes by how a caller should react to them.
type Category string

const (
	// CategoryInvalidArgument marks input the caller must fix.
	CategoryInvalidArgument Category = "invalid_argument"
	// CategoryNotFound marks a missing record.
	CategoryNotFound Category = "not_found"
	// CategoryInternal marks failures the caller cannot fix.
	CategoryInternal Category = "internal"
)

// Category maps domain codes to a caller-facing category.
func (c Code) Category() Category {
	switch c {
	// InvalidArgument - bad notation, seed, or query
	case CodeNotationEmpty,
		CodeDiceLexInvalidChar,
		CodeDiceLexInvalidNum,
		CodeDiceParseUnexpected,
		CodeDiceEvalTooManyDice,
		CodeDiceEvalTooManySides,
		CodeDiceEvalDivisionByZero,
		CodeDiceEvalOverflow,
		CodeSeedOutOfRange,
		CodeHistoryInvalidFilter,
		CodeHistoryInvalidPageToken:
		return CategoryInvalidArgument

	case CodeNotFound:
		return CategoryNotFound

	default:
		return CategoryInternal
	}
}
