// Package check compares a roll against a difficulty.
package check

import "github.com/louisbranch/rollbot/internal/core/dice"

// Natural marks a roll decided by a single die showing an extreme face.
type Natural string

const (
	NaturalNone Natural = ""
	// NaturalMax is a single kept die showing its highest face.
	NaturalMax Natural = "max"
	// NaturalMin is a single kept die showing a 1.
	NaturalMin Natural = "min"
)

// Result represents the outcome of a difficulty check.
type Result struct {
	Difficulty int
	Success    bool
	// Margin is positive on success and negative on failure.
	Margin  int
	Natural Natural
}

// MeetsDifficulty returns true if total >= difficulty.
func MeetsDifficulty(total, difficulty int) bool {
	return total >= difficulty
}

// Margin calculates the margin of success or failure.
func Margin(total, difficulty int) int {
	return total - difficulty
}

// Against checks an evaluated roll against difficulty.
func Against(result dice.Result, difficulty int) Result {
	return Result{
		Difficulty: difficulty,
		Success:    MeetsDifficulty(result.Total, difficulty),
		Margin:     Margin(result.Total, difficulty),
		Natural:    natural(result.Traces),
	}
}

// natural reports the extreme face when exactly one die was kept across
// the whole roll.
func natural(traces []dice.RollTrace) Natural {
	var kept []int
	sides := 0
	for _, trace := range traces {
		for _, value := range trace.Kept() {
			kept = append(kept, value)
			sides = trace.Sides
		}
	}
	if len(kept) != 1 {
		return NaturalNone
	}
	switch kept[0] {
	case sides:
		return NaturalMax
	case 1:
		return NaturalMin
	default:
		return NaturalNone
	}
}
