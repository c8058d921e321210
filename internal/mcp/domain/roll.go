package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/rollbot/internal/core/dice"
	"github.com/louisbranch/rollbot/internal/platform/timeouts"
	"github.com/louisbranch/rollbot/internal/roll"
	"github.com/louisbranch/rollbot/internal/roll/format"
	"github.com/louisbranch/rollbot/internal/roll/storage"
)

// RollService is the part of roll.Service the tools call.
type RollService interface {
	Roll(ctx context.Context, req roll.Request) (roll.Outcome, error)
	History(ctx context.Context, query roll.HistoryQuery) (roll.HistoryPage, error)
	Get(ctx context.Context, id uint64) (storage.RollRecord, error)
}

// RollDiceInput represents the MCP tool input for rolling dice.
type RollDiceInput struct {
	Notation   string  `json:"notation" jsonschema:"dice notation such as 4d6kh3 or 1d20+5"`
	Seed       *int64  `json:"seed,omitempty" jsonschema:"optional non-negative seed for a reproducible roll"`
	ActorID    string  `json:"actor_id,omitempty" jsonschema:"optional name recorded as the roller"`
	Locale     *string `json:"locale,omitempty" jsonschema:"optional locale for the rendered text, e.g. pt-BR"`
	Difficulty *int    `json:"difficulty,omitempty" jsonschema:"optional target number to check the total against"`
}

// CheckResult reports a difficulty check.
type CheckResult struct {
	Difficulty int    `json:"difficulty" jsonschema:"target number"`
	Success    bool   `json:"success" jsonschema:"whether the total meets the difficulty"`
	Margin     int    `json:"margin" jsonschema:"total minus difficulty"`
	Natural    string `json:"natural,omitempty" jsonschema:"max or min when a single kept die shows an extreme face"`
}

// DrawResult is one die face in a trace.
type DrawResult struct {
	Value    int  `json:"value" jsonschema:"face value drawn"`
	Kept     bool `json:"kept" jsonschema:"whether the face counts toward the total"`
	Rerolled bool `json:"rerolled" jsonschema:"whether the face was replaced by a reroll"`
	Exploded bool `json:"exploded" jsonschema:"whether the face triggered an extra die"`
}

// TraceResult describes how one dice term was rolled.
type TraceResult struct {
	Spec  string       `json:"spec" jsonschema:"canonical notation of the dice term"`
	Count int          `json:"count" jsonschema:"number of dice requested"`
	Sides int          `json:"sides" jsonschema:"number of sides per die"`
	Draws []DrawResult `json:"draws" jsonschema:"faces in draw order"`
	Total int          `json:"total" jsonschema:"sum of the kept faces"`
}

// RollDiceResult represents the MCP tool output for rolling dice.
type RollDiceResult struct {
	ID         uint64        `json:"id" jsonschema:"history id, zero when history is disabled"`
	ActorID    string        `json:"actor_id" jsonschema:"who rolled"`
	Notation   string        `json:"notation" jsonschema:"notation as submitted"`
	Total      int           `json:"total" jsonschema:"final value of the expression"`
	Breakdown  string        `json:"breakdown" jsonschema:"rendered expression with every face"`
	Traces     []TraceResult `json:"traces" jsonschema:"one entry per dice term, left to right"`
	Seed       int64         `json:"seed" jsonschema:"seed that reproduces this roll"`
	SeedSource string        `json:"seed_source" jsonschema:"client or server"`
	RolledAt   string        `json:"rolled_at" jsonschema:"RFC 3339 timestamp"`
	Check      *CheckResult  `json:"check,omitempty" jsonschema:"difficulty check, when requested"`
	Text       string        `json:"text" jsonschema:"localized summary"`
}

// RollHistoryInput represents the MCP tool input for listing past rolls.
type RollHistoryInput struct {
	ActorID   string `json:"actor_id,omitempty" jsonschema:"optional roller to restrict the history to"`
	Filter    string `json:"filter,omitempty" jsonschema:"optional AIP-160 filter over actor_id, notation, seed_source, total and rolled_at"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"optional page size, default 20, max 100"`
	PageToken string `json:"page_token,omitempty" jsonschema:"optional token from a previous page"`
}

// RollRecordResult is one past roll.
type RollRecordResult struct {
	ID         uint64        `json:"id" jsonschema:"history id"`
	ActorID    string        `json:"actor_id" jsonschema:"who rolled"`
	Notation   string        `json:"notation" jsonschema:"notation as submitted"`
	Total      int           `json:"total" jsonschema:"final value of the expression"`
	Breakdown  string        `json:"breakdown" jsonschema:"rendered expression with every face"`
	Traces     []TraceResult `json:"traces" jsonschema:"one entry per dice term"`
	Seed       int64         `json:"seed" jsonschema:"seed that reproduces this roll"`
	SeedSource string        `json:"seed_source" jsonschema:"client or server"`
	RolledAt   string        `json:"rolled_at" jsonschema:"RFC 3339 timestamp"`
}

// RollHistoryResult represents the MCP tool output for listing past rolls.
type RollHistoryResult struct {
	Rolls         []RollRecordResult `json:"rolls" jsonschema:"past rolls, newest first"`
	NextPageToken string             `json:"next_page_token" jsonschema:"token for the next page, empty on the last page"`
}

// RollGetInput represents the MCP tool input for fetching one past roll.
type RollGetInput struct {
	ID uint64 `json:"id" jsonschema:"history id returned by roll_dice"`
}

// RollDiceTool defines the MCP tool schema for rolling dice.
func RollDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls a dice notation expression such as 4d6kh3, 3d6! or (1d4+1)*2",
	}
}

// RollHistoryTool defines the MCP tool schema for listing past rolls.
func RollHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_history",
		Description: "Lists recorded rolls, newest first",
	}
}

// RollGetTool defines the MCP tool schema for fetching one past roll.
func RollGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_get",
		Description: "Returns a recorded roll by id",
	}
}

// RollDiceHandler evaluates a notation and records it in the history.
func RollDiceHandler(svc RollService, formatter format.Formatter) mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		f := formatterFor(formatter, input.Locale)
		ctx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		outcome, err := svc.Roll(ctx, roll.Request{
			Notation:   input.Notation,
			ActorID:    input.ActorID,
			Seed:       input.Seed,
			Difficulty: input.Difficulty,
		})
		if err != nil {
			return nil, RollDiceResult{}, toolError(f, err)
		}

		text := f.Outcome(outcome)
		var checked *CheckResult
		if outcome.Check != nil {
			checked = &CheckResult{
				Difficulty: outcome.Check.Difficulty,
				Success:    outcome.Check.Success,
				Margin:     outcome.Check.Margin,
				Natural:    string(outcome.Check.Natural),
			}
			text += "\n" + f.Check(outcome)
		}

		return nil, RollDiceResult{
			ID:         outcome.ID,
			ActorID:    outcome.ActorID,
			Notation:   outcome.Result.Notation,
			Total:      outcome.Result.Total,
			Breakdown:  outcome.Result.Breakdown,
			Traces:     traceResults(outcome.Result.Traces),
			Seed:       outcome.Seed,
			SeedSource: string(outcome.SeedSource),
			RolledAt:   outcome.RolledAt.Format(time.RFC3339Nano),
			Check:      checked,
			Text:       text,
		}, nil
	}
}

// RollHistoryHandler lists past rolls.
func RollHistoryHandler(svc RollService, formatter format.Formatter) mcp.ToolHandlerFor[RollHistoryInput, RollHistoryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollHistoryInput) (*mcp.CallToolResult, RollHistoryResult, error) {
		ctx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		page, err := svc.History(ctx, roll.HistoryQuery{
			ActorID:   input.ActorID,
			Filter:    input.Filter,
			PageSize:  input.PageSize,
			PageToken: strings.TrimSpace(input.PageToken),
		})
		if err != nil {
			return nil, RollHistoryResult{}, toolError(formatter, err)
		}

		rolls := make([]RollRecordResult, 0, len(page.Rolls))
		for _, record := range page.Rolls {
			rolls = append(rolls, recordResult(record))
		}
		return nil, RollHistoryResult{Rolls: rolls, NextPageToken: page.NextPageToken}, nil
	}
}

// RollGetHandler returns one past roll.
func RollGetHandler(svc RollService, formatter format.Formatter) mcp.ToolHandlerFor[RollGetInput, RollRecordResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollGetInput) (*mcp.CallToolResult, RollRecordResult, error) {
		ctx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		record, err := svc.Get(ctx, input.ID)
		if err != nil {
			return nil, RollRecordResult{}, toolError(formatter, err)
		}
		return nil, recordResult(record), nil
	}
}

// toolError turns a service error into the error text shown to the client.
func toolError(f format.Formatter, err error) error {
	return errors.New(f.Error(err))
}

func formatterFor(base format.Formatter, locale *string) format.Formatter {
	if locale == nil || strings.TrimSpace(*locale) == "" {
		return base
	}
	return format.New(*locale)
}

func recordResult(record storage.RollRecord) RollRecordResult {
	return RollRecordResult{
		ID:         record.Seq,
		ActorID:    record.ActorID,
		Notation:   record.Notation,
		Total:      record.Total,
		Breakdown:  record.Breakdown,
		Traces:     traceResults(record.Traces),
		Seed:       record.Seed,
		SeedSource: string(record.SeedSource),
		RolledAt:   record.RolledAt.Format(time.RFC3339Nano),
	}
}

func traceResults(traces []dice.RollTrace) []TraceResult {
	out := make([]TraceResult, 0, len(traces))
	for _, trace := range traces {
		draws := make([]DrawResult, 0, len(trace.Draws))
		for _, draw := range trace.Draws {
			draws = append(draws, DrawResult{
				Value:    draw.Value,
				Kept:     draw.Kept,
				Rerolled: draw.Rerolled,
				Exploded: draw.Exploded,
			})
		}
		out = append(out, TraceResult{
			Spec:  trace.Spec,
			Count: trace.Count,
			Sides: trace.Sides,
			Draws: draws,
			Total: trace.Total,
		})
	}
	return out
}
