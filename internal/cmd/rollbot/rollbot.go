// Package rollbot implements the rollbot command line: roll notations given
// as arguments or read from stdin, or list the roll history.
package rollbot

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/louisbranch/rollbot/internal/cmd/shared"
	entrypoint "github.com/louisbranch/rollbot/internal/platform/cmd"
	"github.com/louisbranch/rollbot/internal/roll"
	"github.com/louisbranch/rollbot/internal/roll/format"
)

// ErrReported is returned when a roll or history request failed and the
// localized reason has already been written to the error output.
var ErrReported = errors.New("rollbot: failure reported")

// Config holds rollbot command configuration.
type Config struct {
	shared.RollConfig
	ActorID string `env:"ROLLBOT_ACTOR_ID" envDefault:"cli"`

	// Seed makes every roll of this run reproducible when set.
	Seed    *int64
	Verbose bool
	// Difficulty checks each total against a target number when set.
	Difficulty *int

	History   bool
	Filter    string
	PageSize  int
	PageToken string

	// Notations are the positional arguments.
	Notations []string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	shared.BindFlags(fs, &cfg.RollConfig)
	fs.StringVar(&cfg.ActorID, "actor", cfg.ActorID, "actor recorded with each roll")
	fs.Func("seed", "non-negative seed for reproducible rolls", func(value string) error {
		seed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q", value)
		}
		cfg.Seed = &seed
		return nil
	})
	fs.Func("dc", "difficulty to check each total against", func(value string) error {
		difficulty, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid difficulty %q", value)
		}
		cfg.Difficulty = &difficulty
		return nil
	})
	fs.BoolVar(&cfg.Verbose, "v", false, "print the seed of each roll")
	fs.BoolVar(&cfg.History, "history", false, "list recorded rolls instead of rolling")
	fs.StringVar(&cfg.Filter, "filter", "", `history filter, e.g. total >= 15 AND notation = "1d20"`)
	fs.IntVar(&cfg.PageSize, "page-size", 0, "history page size (default 20, max 100)")
	fs.StringVar(&cfg.PageToken, "page-token", "", "history page token from a previous listing")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Notations = fs.Args()
	return cfg, nil
}

// Run executes the rollbot command. Notations come from cfg.Notations, or
// one per line from in when there are none.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRollbot, func(ctx context.Context) error {
		svc, closeStore, err := shared.OpenRollService(ctx, cfg.RollConfig)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeStore(); err != nil {
				log.Printf("close roll history: %v", err)
			}
		}()

		r := runner{svc: svc, cfg: cfg, formatter: format.New(cfg.Locale), out: out, errOut: errOut}
		if cfg.History {
			return r.history(ctx)
		}
		return r.rollAll(ctx, in)
	})
}

type runner struct {
	svc       *roll.Service
	cfg       Config
	formatter format.Formatter
	out       io.Writer
	errOut    io.Writer
}

func (r runner) history(ctx context.Context) error {
	page, err := r.svc.History(ctx, roll.HistoryQuery{
		Filter:    r.cfg.Filter,
		PageSize:  r.cfg.PageSize,
		PageToken: r.cfg.PageToken,
	})
	if err != nil {
		fmt.Fprintln(r.errOut, r.formatter.Error(err))
		return ErrReported
	}
	for _, line := range r.formatter.History(page) {
		fmt.Fprintln(r.out, line)
	}
	return nil
}

func (r runner) rollAll(ctx context.Context, in io.Reader) error {
	failed := false
	rollOne := func(notation string) {
		outcome, err := r.svc.Roll(ctx, roll.Request{
			Notation:   notation,
			ActorID:    r.cfg.ActorID,
			Seed:       r.cfg.Seed,
			Difficulty: r.cfg.Difficulty,
		})
		if err != nil {
			failed = true
			fmt.Fprintln(r.errOut, r.formatter.Error(err))
			return
		}
		fmt.Fprintln(r.out, r.formatter.Outcome(outcome))
		if line := r.formatter.Check(outcome); line != "" {
			fmt.Fprintln(r.out, line)
		}
		if r.cfg.Verbose {
			fmt.Fprintln(r.out, r.formatter.Seed(outcome))
		}
	}

	if len(r.cfg.Notations) > 0 {
		for _, notation := range r.cfg.Notations {
			rollOne(notation)
		}
	} else {
		if in == nil {
			return errors.New("no notation given and no input to read")
		}
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			rollOne(line)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read notations: %w", err)
		}
	}

	if failed {
		return ErrReported
	}
	return nil
}
