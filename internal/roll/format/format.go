// Package format renders roll outcomes and errors for people, using the
// embedded locale catalogs.
package format

import (
	"strconv"
	"time"

	"golang.org/x/text/message"

	"github.com/louisbranch/rollbot/internal/core/check"
	errori18n "github.com/louisbranch/rollbot/internal/platform/errors/i18n"
	"github.com/louisbranch/rollbot/internal/platform/i18n/catalog"
	"github.com/louisbranch/rollbot/internal/roll"
	"github.com/louisbranch/rollbot/internal/roll/storage"
)

// Formatter renders user-facing text in one locale.
type Formatter struct {
	locale  string
	printer *message.Printer
}

// New returns a Formatter for locale. Unsupported locales fall back to
// catalog.BaseLocale.
func New(locale string) Formatter {
	bundle := catalog.Default()
	return Formatter{
		locale:  bundle.Match(locale).String(),
		printer: bundle.Printer(locale),
	}
}

// Locale returns the resolved locale.
func (f Formatter) Locale() string {
	return f.locale
}

// Outcome renders "{actor} rolled {notation}: {breakdown}".
func (f Formatter) Outcome(outcome roll.Outcome) string {
	return f.printer.Sprintf("roll.outcome", outcome.ActorID, outcome.Result.Notation, outcome.Result.Breakdown)
}

// Seed renders the seed line used to reproduce an outcome. The seed is not
// localized so it can be pasted back into -seed.
func (f Formatter) Seed(outcome roll.Outcome) string {
	return f.printer.Sprintf("roll.seed", strconv.FormatInt(outcome.Seed, 10), string(outcome.SeedSource))
}

// Check renders the difficulty check of an outcome, or "" when the roll
// had no difficulty.
func (f Formatter) Check(outcome roll.Outcome) string {
	result := outcome.Check
	if result == nil {
		return ""
	}
	key := "roll.check.failure"
	if result.Success {
		key = "roll.check.success"
	}
	line := f.printer.Sprintf(key, result.Difficulty, result.Margin)
	switch result.Natural {
	case check.NaturalMax:
		line += " " + f.printer.Sprintf("roll.check.natural_max")
	case check.NaturalMin:
		line += " " + f.printer.Sprintf("roll.check.natural_min")
	}
	return line
}

// HistoryEntry renders one history line. The id is printed without digit
// grouping so it can be passed back to roll_get.
func (f Formatter) HistoryEntry(record storage.RollRecord) string {
	return f.printer.Sprintf("roll.history.entry",
		strconv.FormatUint(record.Seq, 10), record.RolledAt.Format(time.RFC3339), record.ActorID, record.Breakdown)
}

// History renders a history page, one line per roll.
func (f Formatter) History(page roll.HistoryPage) []string {
	if len(page.Rolls) == 0 {
		return []string{f.printer.Sprintf("roll.history.empty")}
	}
	lines := make([]string, 0, len(page.Rolls)+1)
	for _, record := range page.Rolls {
		lines = append(lines, f.HistoryEntry(record))
	}
	if page.NextPageToken != "" {
		lines = append(lines, f.printer.Sprintf("roll.history.next", page.NextPageToken))
	}
	return lines
}

// Error renders the localized message for err.
func (f Formatter) Error(err error) string {
	return errori18n.GetCatalog(f.locale).Message(err)
}
