package dice

// DieDraw is one face value drawn for one die of a term.
type DieDraw struct {
	Value    int  `json:"value"`
	Kept     bool `json:"kept"`
	Rerolled bool `json:"rerolled,omitempty"`
	Exploded bool `json:"exploded,omitempty"`
}

// RollTrace records how a single dice term was evaluated.
type RollTrace struct {
	// Spec is the canonical notation of the term, e.g. "4d6kh3".
	Spec  string `json:"spec"`
	Count int    `json:"count"`
	Sides int    `json:"sides"`
	// Draws are in draw order; rerolls follow the draw they replaced and
	// explosions are appended at the end.
	Draws []DieDraw `json:"draws"`
	// Total is the sum of the kept draws.
	Total int `json:"total"`
}

// Kept returns the values of the kept draws in draw order.
func (t RollTrace) Kept() []int {
	values := make([]int, 0, len(t.Draws))
	for _, draw := range t.Draws {
		if draw.Kept {
			values = append(values, draw.Value)
		}
	}
	return values
}

// Result is the outcome of evaluating a notation.
type Result struct {
	Notation string `json:"notation"`
	Total    int    `json:"total"`
	// Traces hold one entry per dice term, left to right.
	Traces    []RollTrace `json:"traces"`
	Breakdown string      `json:"breakdown"`
}
