package check

import (
	"testing"

	"github.com/louisbranch/rollbot/internal/core/dice"
)

func TestMeetsDifficulty(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		difficulty int
		want       bool
	}{
		{"exact match", 10, 10, true},
		{"above", 15, 10, true},
		{"below", 9, 10, false},
		{"zero total zero difficulty", 0, 0, true},
		{"negative total", -5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeetsDifficulty(tt.total, tt.difficulty)
			if got != tt.want {
				t.Errorf("MeetsDifficulty(%d, %d) = %v, want %v", tt.total, tt.difficulty, got, tt.want)
			}
		})
	}
}

func TestMargin(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		difficulty int
		want       int
	}{
		{"exact match", 10, 10, 0},
		{"above by 5", 15, 10, 5},
		{"below by 5", 5, 10, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Margin(tt.total, tt.difficulty)
			if got != tt.want {
				t.Errorf("Margin(%d, %d) = %v, want %v", tt.total, tt.difficulty, got, tt.want)
			}
		})
	}
}

func d20(face int, extra ...dice.RollTrace) dice.Result {
	traces := append([]dice.RollTrace{{
		Spec:  "1d20",
		Count: 1,
		Sides: 20,
		Draws: []dice.DieDraw{{Value: face, Kept: true}},
		Total: face,
	}}, extra...)
	total := 0
	for _, trace := range traces {
		total += trace.Total
	}
	return dice.Result{Total: total, Traces: traces}
}

func TestAgainst(t *testing.T) {
	advantage := dice.Result{
		Total: 20,
		Traces: []dice.RollTrace{{
			Spec:  "2d20kh1",
			Count: 2,
			Sides: 20,
			Draws: []dice.DieDraw{{Value: 20, Kept: true}, {Value: 4}},
			Total: 20,
		}},
	}
	flat := dice.Result{Total: 12}

	tests := []struct {
		name       string
		result     dice.Result
		difficulty int
		want       Result
	}{
		{"success with margin", d20(15), 10, Result{Difficulty: 10, Success: true, Margin: 5}},
		{"exact success", d20(10), 10, Result{Difficulty: 10, Success: true, Margin: 0}},
		{"failure", d20(5), 10, Result{Difficulty: 10, Success: false, Margin: -5}},
		{"natural max", d20(20), 25, Result{Difficulty: 25, Success: false, Margin: -5, Natural: NaturalMax}},
		{"natural min", d20(1), 1, Result{Difficulty: 1, Success: true, Margin: 0, Natural: NaturalMin}},
		{"dropped dice do not count", advantage, 15, Result{Difficulty: 15, Success: true, Margin: 5, Natural: NaturalMax}},
		{
			name:       "two kept dice are never natural",
			result:     d20(20, dice.RollTrace{Spec: "1d4", Count: 1, Sides: 4, Draws: []dice.DieDraw{{Value: 1, Kept: true}}, Total: 1}),
			difficulty: 10,
			want:       Result{Difficulty: 10, Success: true, Margin: 11},
		},
		{"no dice", flat, 12, Result{Difficulty: 12, Success: true, Margin: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Against(tt.result, tt.difficulty)
			if got != tt.want {
				t.Errorf("Against(%d, %d) = %+v, want %+v", tt.result.Total, tt.difficulty, got, tt.want)
			}
		})
	}
}
