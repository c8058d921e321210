// Package dice parses and evaluates tabletop dice notation such as "4d6kh3",
// "3d6!" or "(1d4+1)*2".
//
// Evaluation is a pipeline: Tokenize, Parse, then Evaluate with an injected
// RandomSource. Nothing is shared between calls, so the package is safe for
// concurrent use as long as callers do not share a non thread-safe source.
package dice

import (
	"fmt"

	"github.com/louisbranch/rollbot/internal/random"
)

// Roll evaluates a notation with a freshly seeded random source.
//
// Errors are *LexError, *ParseError or *EvalError (all EngineError), except
// for the unlikely failure to read a seed from the operating system.
//
// Example:
//
//	result, err := dice.Roll("4d6kh3")
//	// result.Breakdown == "4d6kh3[~~1~~,4,4,6]=14"
func Roll(notation string) (Result, error) {
	seed, err := random.NewSeed()
	if err != nil {
		return Result{}, fmt.Errorf("seed dice roll: %w", err)
	}
	return RollSeeded(notation, seed)
}

// RollSeeded evaluates a notation with a math/rand source seeded with seed.
// The same notation and seed always produce the same Result.
func RollSeeded(notation string, seed int64) (Result, error) {
	return RollWithRng(random.NewRand(seed), notation)
}

// RollWithRng evaluates a notation using a provided random source.
// This is useful when you want to control the RNG directly.
func RollWithRng(rng RandomSource, notation string) (Result, error) {
	return Evaluator{Limits: DefaultLimits}.Roll(notation, rng)
}

// Roll parses and evaluates a notation under the evaluator's limits.
func (e Evaluator) Roll(notation string, rng RandomSource) (Result, error) {
	expr, err := ParseNotation(notation)
	if err != nil {
		return Result{}, err
	}
	result, err := e.Evaluate(expr, rng)
	if err != nil {
		return Result{}, err
	}
	result.Notation = notation
	return result, nil
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(rng RandomSource, sides int) int {
	return rng.Intn(sides) + 1
}
