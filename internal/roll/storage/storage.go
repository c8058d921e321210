// Package storage defines the persistence contract for roll history.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/rollbot/internal/core/dice"
	"github.com/louisbranch/rollbot/internal/random"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// RollRecord is one persisted roll.
type RollRecord struct {
	// Seq is assigned by the store and increases with every roll.
	Seq        uint64
	ActorID    string
	Notation   string
	Seed       int64
	SeedSource random.SeedSource
	Total      int
	Breakdown  string
	Traces     []dice.RollTrace
	RolledAt   time.Time
}

// ListRollsRequest selects one page of history, newest first.
type ListRollsRequest struct {
	// ActorID restricts the page to one actor when set.
	ActorID string
	// BeforeSeq restricts the page to rows with seq < BeforeSeq when set.
	BeforeSeq uint64
	// FilterClause and FilterParams are an extra SQL condition produced by
	// the filter package.
	FilterClause string
	FilterParams []any
	PageSize     int
}

// RollPage is a page of roll records.
type RollPage struct {
	Records []RollRecord
	// HasMore reports whether older rows match the request.
	HasMore bool
}

// RollStore persists roll history.
type RollStore interface {
	PutRoll(ctx context.Context, record RollRecord) (RollRecord, error)
	GetRoll(ctx context.Context, seq uint64) (RollRecord, error)
	ListRolls(ctx context.Context, req ListRollsRequest) (RollPage, error)
}
