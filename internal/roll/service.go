// Package roll evaluates dice notation on behalf of an actor and records the
// outcome in the roll history.
package roll

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/rollbot/internal/core/check"
	"github.com/louisbranch/rollbot/internal/core/dice"
	apperrors "github.com/louisbranch/rollbot/internal/platform/errors"
	"github.com/louisbranch/rollbot/internal/platform/filter"
	"github.com/louisbranch/rollbot/internal/random"
	"github.com/louisbranch/rollbot/internal/roll/storage"
	"github.com/louisbranch/rollbot/internal/storage/cursor"
)

const (
	tracerName = "github.com/louisbranch/rollbot/internal/roll"

	// DefaultActorID is recorded when a request names no actor.
	DefaultActorID = "anonymous"
)

// Request asks for one roll.
type Request struct {
	Notation string
	ActorID  string
	// Seed makes the roll reproducible when set. It must be non-negative.
	Seed *int64
	// Difficulty, when set, checks the total against a target number.
	Difficulty *int
}

// Outcome is the result of a roll together with how it was produced.
type Outcome struct {
	// ID is the history sequence number, or zero when history is disabled.
	ID         uint64
	ActorID    string
	Result     dice.Result
	Seed       int64
	SeedSource random.SeedSource
	RolledAt   time.Time
	// Check is set when the request named a difficulty.
	Check *check.Result
}

// HistoryQuery selects a page of past rolls, newest first.
type HistoryQuery struct {
	ActorID string
	// Filter is an AIP-160 expression over actor_id, notation, seed_source,
	// total and rolled_at.
	Filter    string
	PageSize  int
	PageToken string
}

// HistoryPage is one page of past rolls.
type HistoryPage struct {
	Rolls         []storage.RollRecord
	NextPageToken string
}

// Service rolls dice and keeps the roll history.
type Service struct {
	store     storage.RollStore
	evaluator dice.Evaluator
	now       func() time.Time
	newSeed   func() (int64, error)
	tracer    trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithLimits sets the evaluation limits. Zero fields keep the defaults.
func WithLimits(limits dice.Limits) Option {
	return func(s *Service) {
		s.evaluator = dice.Evaluator{Limits: limits}
	}
}

// WithClock overrides the time source used for RolledAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSeedGenerator overrides the generator used when a request has no seed.
func WithSeedGenerator(generate func() (int64, error)) Option {
	return func(s *Service) {
		if generate != nil {
			s.newSeed = generate
		}
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *Service) {
		if provider != nil {
			s.tracer = provider.Tracer(tracerName)
		}
	}
}

// NewService builds a roll service. A nil store disables history: rolls are
// not recorded and History returns empty pages.
func NewService(store storage.RollStore, opts ...Option) *Service {
	s := &Service{
		store:     store,
		evaluator: dice.Evaluator{Limits: dice.DefaultLimits},
		now:       time.Now,
		newSeed:   random.NewSeed,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Roll evaluates the request notation and records the outcome.
//
// Errors are *errors.Error values from the platform errors package; notation
// failures keep the engine error in their chain.
func (s *Service) Roll(ctx context.Context, req Request) (outcome Outcome, err error) {
	ctx, span := s.tracer.Start(ctx, "roll.Roll")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
		}
		span.End()
	}()

	notation := strings.TrimSpace(req.Notation)
	span.SetAttributes(attribute.String("roll.notation", notation))
	if notation == "" {
		return Outcome{}, apperrors.New(apperrors.CodeNotationEmpty, "notation is required")
	}

	seed, source, err := random.ResolveSeed(req.Seed, s.newSeed)
	if err != nil {
		return Outcome{}, apperrors.FromDice(err)
	}

	result, err := s.evaluator.Roll(notation, random.NewRand(seed))
	if err != nil {
		return Outcome{}, apperrors.FromDice(err)
	}

	actorID := strings.TrimSpace(req.ActorID)
	if actorID == "" {
		actorID = DefaultActorID
	}
	outcome = Outcome{
		ActorID:    actorID,
		Result:     result,
		Seed:       seed,
		SeedSource: source,
		RolledAt:   s.now().UTC(),
	}
	span.SetAttributes(
		attribute.Int("roll.total", result.Total),
		attribute.String("roll.seed_source", string(source)),
		attribute.String("roll.rng", random.Algorithm),
		attribute.Int("roll.trace_count", len(result.Traces)),
	)
	if req.Difficulty != nil {
		checked := check.Against(result, *req.Difficulty)
		outcome.Check = &checked
		span.SetAttributes(attribute.Bool("roll.check.success", checked.Success))
	}

	if s.store == nil {
		return outcome, nil
	}
	record, err := s.store.PutRoll(ctx, storage.RollRecord{
		ActorID:    outcome.ActorID,
		Notation:   result.Notation,
		Seed:       seed,
		SeedSource: source,
		Total:      result.Total,
		Breakdown:  result.Breakdown,
		Traces:     result.Traces,
		RolledAt:   outcome.RolledAt,
	})
	if err != nil {
		log.Printf("record roll: %v", err)
		return Outcome{}, apperrors.Wrap(apperrors.CodeUnknown, "record roll", err)
	}
	outcome.ID = record.Seq
	span.SetAttributes(attribute.Int64("roll.id", int64(record.Seq)))
	return outcome, nil
}

// History lists past rolls, newest first.
func (s *Service) History(ctx context.Context, query HistoryQuery) (HistoryPage, error) {
	if s.store == nil {
		return HistoryPage{}, nil
	}

	actorID := strings.TrimSpace(query.ActorID)
	filterText := strings.TrimSpace(query.Filter)
	cond, err := filter.ParseRollFilter(filterText)
	if err != nil {
		return HistoryPage{}, apperrors.WrapWithMetadata(apperrors.CodeHistoryInvalidFilter,
			"invalid history filter", map[string]string{"Reason": err.Error()}, err)
	}

	req := storage.ListRollsRequest{
		ActorID:      actorID,
		FilterClause: cond.Clause,
		FilterParams: cond.Params,
		PageSize:     query.PageSize,
	}
	if query.PageToken != "" {
		c, err := cursor.Decode(query.PageToken)
		if err == nil {
			err = cursor.Validate(c, actorID, filterText)
		}
		if err != nil {
			return HistoryPage{}, apperrors.Wrap(apperrors.CodeHistoryInvalidPageToken, "invalid page token", err)
		}
		req.BeforeSeq = c.Seq
	}

	page, err := s.store.ListRolls(ctx, req)
	if err != nil {
		log.Printf("list rolls: %v", err)
		return HistoryPage{}, apperrors.Wrap(apperrors.CodeUnknown, "list rolls", err)
	}

	out := HistoryPage{Rolls: page.Records}
	if page.HasMore && len(page.Records) > 0 {
		last := page.Records[len(page.Records)-1]
		token, err := cursor.Encode(cursor.New(last.Seq, actorID, filterText))
		if err != nil {
			return HistoryPage{}, apperrors.Wrap(apperrors.CodeUnknown, "encode page token", err)
		}
		out.NextPageToken = token
	}
	return out, nil
}

// Get returns a recorded roll by id.
func (s *Service) Get(ctx context.Context, id uint64) (storage.RollRecord, error) {
	if s.store == nil {
		return storage.RollRecord{}, apperrors.New(apperrors.CodeNotFound, "roll history is disabled")
	}
	record, err := s.store.GetRoll(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.RollRecord{}, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("roll %d not found", id), map[string]string{"ID": fmt.Sprint(id)})
	}
	if err != nil {
		return storage.RollRecord{}, apperrors.Wrap(apperrors.CodeUnknown, "get roll", err)
	}
	return record, nil
}
