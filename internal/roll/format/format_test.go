package format

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/rollbot/internal/core/check"
	"github.com/louisbranch/rollbot/internal/core/dice"
	apperrors "github.com/louisbranch/rollbot/internal/platform/errors"
	"github.com/louisbranch/rollbot/internal/random"
	"github.com/louisbranch/rollbot/internal/roll"
	"github.com/louisbranch/rollbot/internal/roll/storage"
)

func testOutcome() roll.Outcome {
	return roll.Outcome{
		ID:      3,
		ActorID: "alice",
		Result: dice.Result{
			Notation:  "4d6kh3",
			Total:     14,
			Breakdown: "4d6kh3[~~1~~,4,4,6]=14",
		},
		Seed:       42,
		SeedSource: random.SeedSourceClient,
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{locale: "en-US", want: "alice rolled 4d6kh3: 4d6kh3[~~1~~,4,4,6]=14"},
		{locale: "pt-BR", want: "alice rolou 4d6kh3: 4d6kh3[~~1~~,4,4,6]=14"},
		{locale: "de-DE", want: "alice rolled 4d6kh3: 4d6kh3[~~1~~,4,4,6]=14"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := New(tt.locale).Outcome(testOutcome()); got != tt.want {
				t.Fatalf("Outcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	if got := New("en-US").Seed(testOutcome()); got != "Seed: 42 (client)" {
		t.Fatalf("Seed() = %q", got)
	}
	if got := New("pt-BR").Seed(testOutcome()); got != "Semente: 42 (client)" {
		t.Fatalf("Seed() = %q", got)
	}
	large := testOutcome()
	large.Seed = 1234567890123
	large.SeedSource = random.SeedSourceServer
	if got := New("en-US").Seed(large); got != "Seed: 1234567890123 (server)" {
		t.Fatalf("Seed() = %q, want digits without grouping", got)
	}
}

func TestHistory(t *testing.T) {
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	f := New("en-US")

	if diff := cmp.Diff([]string{"No rolls recorded."}, f.History(roll.HistoryPage{})); diff != "" {
		t.Fatalf("empty history mismatch (-want +got):\n%s", diff)
	}

	page := roll.HistoryPage{
		Rolls: []storage.RollRecord{
			{Seq: 2, ActorID: "bob", Breakdown: "1d20[17]+5=22", RolledAt: at},
			{Seq: 1, ActorID: "alice", Breakdown: "2d6[3,5]=8", RolledAt: at},
		},
		NextPageToken: "abc",
	}
	want := []string{
		"#2 2026-10-19T12:00:00Z bob: 1d20[17]+5=22",
		"#1 2026-10-19T12:00:00Z alice: 2d6[3,5]=8",
		"More rolls: -page-token abc",
	}
	if diff := cmp.Diff(want, f.History(page)); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryEntryKeepsIDUngrouped(t *testing.T) {
	record := storage.RollRecord{
		Seq:       1234,
		ActorID:   "ana",
		Breakdown: "1d4[2]=2",
		RolledAt:  time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
	for _, locale := range []string{"en-US", "pt-BR"} {
		want := "#1234 2026-10-19T12:00:00Z ana: 1d4[2]=2"
		if got := New(locale).HistoryEntry(record); got != want {
			t.Errorf("%s HistoryEntry() = %q, want %q", locale, got, want)
		}
	}
}

func TestError(t *testing.T) {
	_, err := dice.RollSeeded("2d6/0", 1)
	converted := apperrors.FromDice(err)

	if got := New("en-US").Error(converted); got != "Division by zero at position 3." {
		t.Fatalf("Error() = %q", got)
	}
	if got := New("pt-BR").Error(converted); got != "Divisão por zero na posição 3." {
		t.Fatalf("Error() = %q", got)
	}
	if got := New("en-US").Error(errors.New("boom")); got != "Something went wrong while rolling." {
		t.Fatalf("Error() = %q", got)
	}
}

func TestLocale(t *testing.T) {
	if got := New("pt-BR").Locale(); got != "pt-BR" {
		t.Fatalf("Locale() = %q, want pt-BR", got)
	}
	if got := New("xx").Locale(); got != "en-US" {
		t.Fatalf("Locale() = %q, want en-US", got)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		check  *check.Result
		want   string
	}{
		{name: "no difficulty", locale: "en-US", want: ""},
		{
			name:   "success",
			locale: "en-US",
			check:  &check.Result{Difficulty: 12, Success: true, Margin: 2},
			want:   "Success against 12 (margin 2).",
		},
		{
			name:   "failure",
			locale: "en-US",
			check:  &check.Result{Difficulty: 15, Margin: -1},
			want:   "Failure against 15 (margin -1).",
		},
		{
			name:   "natural max",
			locale: "pt-BR",
			check:  &check.Result{Difficulty: 10, Success: true, Margin: 10, Natural: check.NaturalMax},
			want:   "Sucesso contra 10 (margem 10). Máximo natural.",
		},
		{
			name:   "natural min",
			locale: "en-US",
			check:  &check.Result{Difficulty: 5, Margin: -4, Natural: check.NaturalMin},
			want:   "Failure against 5 (margin -4). Natural 1.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := testOutcome()
			outcome.Check = tt.check
			if got := New(tt.locale).Check(outcome); got != tt.want {
				t.Fatalf("Check() = %q, want %q", got, tt.want)
			}
		})
	}
}
