// Package shared holds the roll service wiring used by every rollbot command.
package shared

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/rollbot/internal/core/dice"
	"github.com/louisbranch/rollbot/internal/roll"
	"github.com/louisbranch/rollbot/internal/roll/storage/sqlite"
)

// RollConfig configures the roll engine and its history store.
type RollConfig struct {
	// DBPath is the SQLite history file. Empty disables history.
	DBPath        string `env:"ROLLBOT_DB_PATH"        envDefault:"data/rolls.db"`
	MaxDice       int    `env:"ROLLBOT_MAX_DICE"       envDefault:"1000"`
	MaxSides      int    `env:"ROLLBOT_MAX_SIDES"      envDefault:"1000"`
	MaxIterations int    `env:"ROLLBOT_MAX_ITERATIONS" envDefault:"100"`
	Locale        string `env:"ROLLBOT_LOCALE"         envDefault:"en-US"`
}

// BindFlags registers flags that override the environment values in cfg.
func BindFlags(fs *flag.FlagSet, cfg *RollConfig) {
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "roll history database path (empty disables history)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for messages, e.g. en-US or pt-BR")
	fs.IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "maximum dice per term")
	fs.IntVar(&cfg.MaxSides, "max-sides", cfg.MaxSides, "maximum sides per die")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "maximum rerolls or explosions per die")
}

// Limits returns the evaluator limits described by cfg.
func (cfg RollConfig) Limits() dice.Limits {
	return dice.Limits{
		MaxDice:       cfg.MaxDice,
		MaxSides:      cfg.MaxSides,
		MaxIterations: cfg.MaxIterations,
	}
}

// Validate reports configuration values that cannot work.
func (cfg RollConfig) Validate() error {
	if cfg.MaxDice < 0 || cfg.MaxSides < 0 || cfg.MaxIterations < 0 {
		return fmt.Errorf("roll limits must not be negative")
	}
	return nil
}

// OpenRollService opens the history store and builds the roll service. The
// returned close function releases the store.
func OpenRollService(ctx context.Context, cfg RollConfig, opts ...roll.Option) (*roll.Service, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	opts = append([]roll.Option{roll.WithLimits(cfg.Limits())}, opts...)

	path := strings.TrimSpace(cfg.DBPath)
	if path == "" {
		return roll.NewService(nil, opts...), func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("open roll history: %w", err)
	}
	return roll.NewService(store, opts...), store.Close, nil
}
