package shared

import (
	"context"
	"errors"
	"flag"
	"path/filepath"
	"testing"

	"github.com/louisbranch/rollbot/internal/core/dice"
	"github.com/louisbranch/rollbot/internal/platform/config"
	"github.com/louisbranch/rollbot/internal/roll"
)

func TestRollConfigDefaults(t *testing.T) {
	var cfg RollConfig
	if err := config.ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	want := RollConfig{DBPath: "data/rolls.db", MaxDice: 1000, MaxSides: 1000, MaxIterations: 100, Locale: "en-US"}
	if cfg != want {
		t.Fatalf("defaults = %+v, want %+v", cfg, want)
	}
}

func TestRollConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ROLLBOT_MAX_DICE", "50")
	t.Setenv("ROLLBOT_LOCALE", "pt-BR")

	var cfg RollConfig
	if err := config.ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	BindFlags(fs, &cfg)
	if err := fs.Parse([]string{"-max-sides", "20", "-db", ""}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	want := dice.Limits{MaxDice: 50, MaxSides: 20, MaxIterations: 100}
	if got := cfg.Limits(); got != want {
		t.Fatalf("Limits() = %+v, want %+v", got, want)
	}
	if cfg.Locale != "pt-BR" {
		t.Fatalf("Locale = %q, want pt-BR", cfg.Locale)
	}
	if cfg.DBPath != "" {
		t.Fatalf("DBPath = %q, want empty", cfg.DBPath)
	}
}

func TestOpenRollServiceWithoutHistory(t *testing.T) {
	svc, closeFn, err := OpenRollService(context.Background(), RollConfig{MaxDice: 2})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeFn()

	outcome, err := svc.Roll(context.Background(), roll.Request{Notation: "2d6"})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if outcome.ID != 0 {
		t.Fatalf("ID = %d, want 0 without history", outcome.ID)
	}
	if _, err := svc.Roll(context.Background(), roll.Request{Notation: "3d6"}); !errors.Is(err, dice.ErrTooManyDice) {
		t.Fatalf("roll 3d6 error = %v, want %v", err, dice.ErrTooManyDice)
	}
}

func TestOpenRollServiceCreatesHistoryDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "rolls.db")
	svc, closeFn, err := OpenRollService(context.Background(), RollConfig{DBPath: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()

	outcome, err := svc.Roll(context.Background(), roll.Request{Notation: "1d20"})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if outcome.ID == 0 {
		t.Fatal("expected a recorded roll")
	}
}

func TestOpenRollServiceRejectsNegativeLimits(t *testing.T) {
	if _, _, err := OpenRollService(context.Background(), RollConfig{MaxSides: -1}); err == nil {
		t.Fatal("expected error for negative limit")
	}
}
