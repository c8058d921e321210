package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/rollbot/internal/core/dice"
	"github.com/louisbranch/rollbot/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/rollbot/internal/platform/timeouts"
	"github.com/louisbranch/rollbot/internal/random"
	"github.com/louisbranch/rollbot/internal/roll/storage"
	"github.com/louisbranch/rollbot/internal/roll/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const (
	// DefaultPageSize is used when a list request does not set a page size.
	DefaultPageSize = 20
	// MaxPageSize caps the page size of a list request.
	MaxPageSize = 100
)

const rollColumns = "seq, actor_id, notation, seed, seed_source, total, breakdown, traces_json, rolled_at"

func toNanos(value time.Time) int64 {
	return value.UTC().UnixNano()
}

func fromNanos(value int64) time.Time {
	return time.Unix(0, value).UTC()
}

// Store implements roll history persistence over SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.RollStore = (*Store)(nil)

// Open opens a roll history store at path and applies bundled migrations.
// Missing parent directories are not created.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cleanPath, timeouts.SQLiteBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutRoll appends a roll and returns it with its assigned sequence number.
func (s *Store) PutRoll(ctx context.Context, record storage.RollRecord) (storage.RollRecord, error) {
	if strings.TrimSpace(record.Notation) == "" {
		return storage.RollRecord{}, fmt.Errorf("notation is required")
	}
	traces := record.Traces
	if traces == nil {
		traces = []dice.RollTrace{}
	}
	tracesJSON, err := json.Marshal(traces)
	if err != nil {
		return storage.RollRecord{}, fmt.Errorf("marshal traces: %w", err)
	}

	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO rolls (actor_id, notation, seed, seed_source, total, breakdown, traces_json, rolled_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ActorID,
		record.Notation,
		record.Seed,
		string(record.SeedSource),
		record.Total,
		record.Breakdown,
		string(tracesJSON),
		toNanos(record.RolledAt),
	)
	if err != nil {
		return storage.RollRecord{}, fmt.Errorf("insert roll: %w", err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return storage.RollRecord{}, fmt.Errorf("read roll seq: %w", err)
	}

	record.Seq = uint64(seq)
	record.RolledAt = fromNanos(toNanos(record.RolledAt))
	return record, nil
}

// GetRoll fetches a roll by sequence number.
func (s *Store) GetRoll(ctx context.Context, seq uint64) (storage.RollRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+rollColumns+" FROM rolls WHERE seq = ?", seq)
	record, err := scanRoll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.RollRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.RollRecord{}, fmt.Errorf("get roll %d: %w", seq, err)
	}
	return record, nil
}

// ListRolls returns one page of rolls, newest first.
func (s *Store) ListRolls(ctx context.Context, req storage.ListRollsRequest) (storage.RollPage, error) {
	plan := buildListRollsSQLPlan(req)
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+rollColumns+" FROM rolls WHERE "+plan.whereClause+" ORDER BY seq DESC "+plan.limitClause,
		plan.params...,
	)
	if err != nil {
		return storage.RollPage{}, fmt.Errorf("list rolls: %w", err)
	}
	defer rows.Close()

	var page storage.RollPage
	for rows.Next() {
		record, err := scanRoll(rows)
		if err != nil {
			return storage.RollPage{}, fmt.Errorf("scan roll: %w", err)
		}
		page.Records = append(page.Records, record)
	}
	if err := rows.Err(); err != nil {
		return storage.RollPage{}, fmt.Errorf("iterate rolls: %w", err)
	}

	if len(page.Records) > plan.pageSize {
		page.Records = page.Records[:plan.pageSize]
		page.HasMore = true
	}
	return page, nil
}

type listRollsSQLPlan struct {
	whereClause string
	params      []any
	limitClause string
	pageSize    int
}

// buildListRollsSQLPlan fetches one extra row so callers learn whether an
// older page exists.
func buildListRollsSQLPlan(req storage.ListRollsRequest) listRollsSQLPlan {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, MaxPageSize)

	conditions := []string{"1 = 1"}
	var params []any
	if req.ActorID != "" {
		conditions = append(conditions, "actor_id = ?")
		params = append(params, req.ActorID)
	}
	if req.BeforeSeq > 0 {
		conditions = append(conditions, "seq < ?")
		params = append(params, req.BeforeSeq)
	}
	if req.FilterClause != "" {
		conditions = append(conditions, req.FilterClause)
		params = append(params, req.FilterParams...)
	}

	return listRollsSQLPlan{
		whereClause: strings.Join(conditions, " AND "),
		params:      params,
		limitClause: fmt.Sprintf("LIMIT %d", pageSize+1),
		pageSize:    pageSize,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoll(scanner rowScanner) (storage.RollRecord, error) {
	var (
		record     storage.RollRecord
		seedSource string
		tracesJSON string
		rolledAt   int64
	)
	if err := scanner.Scan(
		&record.Seq,
		&record.ActorID,
		&record.Notation,
		&record.Seed,
		&seedSource,
		&record.Total,
		&record.Breakdown,
		&tracesJSON,
		&rolledAt,
	); err != nil {
		return storage.RollRecord{}, err
	}
	if err := json.Unmarshal([]byte(tracesJSON), &record.Traces); err != nil {
		return storage.RollRecord{}, fmt.Errorf("decode traces: %w", err)
	}
	record.SeedSource = random.SeedSource(seedSource)
	record.RolledAt = fromNanos(rolledAt)
	return record, nil
}
