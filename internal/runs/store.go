// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runs persists query executions and their result envelopes.
// Implements: run log (record, list, get) and YAML/JSON export.
package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/rag-compare/pkg/types"
)

const (
	dbFile           = "runs.db"
	defaultListLimit = 20

	// createdAtLayout has fixed-width fractional seconds so stored
	// timestamps sort lexically.
	createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded query execution.
type Run struct {
	ID          string             `json:"id" yaml:"id"`
	Query       string             `json:"query" yaml:"query"`
	SourceCount int                `json:"source_count" yaml:"source_count"`
	CreatedAt   time.Time          `json:"created_at" yaml:"created_at"`
	Results     types.QueryResults `json:"results" yaml:"results"`
}

// Store manages the run log SQLite database.
type Store struct {
	db    *sql.DB
	dir   string
	now   func() time.Time
	newID func() string
}

// NewStore opens or creates dir/runs.db and its schema.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:    db,
		dir:   cfg.Dir,
		now:   time.Now,
		newID: uuid.NewString,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			source_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS envelopes (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			backend TEXT NOT NULL,
			response TEXT,
			elapsed REAL,
			error TEXT,
			PRIMARY KEY (run_id, backend)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one query execution and returns it with its new ID.
func (s *Store) Record(ctx context.Context, query string, sourceCount int, results types.QueryResults) (Run, error) {
	run := Run{
		ID:          s.newID(),
		Query:       query,
		SourceCount: sourceCount,
		CreatedAt:   s.now().UTC(),
		Results:     results,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, query, source_count, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Query, run.SourceCount, run.CreatedAt.Format(createdAtLayout),
	); err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO envelopes (run_id, backend, response, elapsed, error) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, backend := range sortedBackends(results) {
		env := results[backend]

		var response, elapsed, errText any
		if env.OK() {
			data, err := json.Marshal(env.Response)
			if err != nil {
				return Run{}, fmt.Errorf("encoding %s response: %w", backend, err)
			}
			response = string(data)
			if env.Time != nil {
				elapsed = *env.Time
			}
		} else {
			errText = env.Error
		}

		if _, err := stmt.ExecContext(ctx, run.ID, backend, response, elapsed, errText); err != nil {
			return Run{}, fmt.Errorf("inserting %s envelope: %w", backend, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// ListOptions filters List.
type ListOptions struct {
	// Query matches runs whose query text contains this substring.
	Query string

	// Limit caps the result count. Zero uses the default of 20.
	Limit int
}

// List returns recorded runs, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, query, source_count, created_at FROM runs WHERE 1=1`)
	if opts.Query != "" {
		qb.WriteString(` AND instr(query, ?) > 0`)
		args = append(args, opts.Query)
	}
	qb.WriteString(` ORDER BY created_at DESC, id LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}

	var list []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range list {
		results, err := s.loadResults(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Results = results
	}
	return list, nil
}

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, source_count, created_at FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return Run{}, err
	}
	run.Results, err = s.loadResults(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run       Run
		createdAt string
	)
	if err := sc.Scan(&run.ID, &run.Query, &run.SourceCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t
	return run, nil
}

func (s *Store) loadResults(ctx context.Context, runID string) (types.QueryResults, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT backend, response, elapsed, error FROM envelopes WHERE run_id = ? ORDER BY backend`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying envelopes: %w", err)
	}
	defer rows.Close()

	results := types.QueryResults{}
	for rows.Next() {
		var (
			backend  string
			response sql.NullString
			elapsed  sql.NullFloat64
			errText  sql.NullString
		)
		if err := rows.Scan(&backend, &response, &elapsed, &errText); err != nil {
			return nil, fmt.Errorf("scanning envelope: %w", err)
		}

		var env types.ResultEnvelope
		if errText.Valid && errText.String != "" {
			env.Error = errText.String
		} else {
			if response.Valid {
				if err := json.Unmarshal([]byte(response.String), &env.Response); err != nil {
					return nil, fmt.Errorf("decoding %s response: %w", backend, err)
				}
			}
			if elapsed.Valid {
				v := elapsed.Float64
				env.Time = &v
			}
		}
		results[backend] = env
	}
	return results, rows.Err()
}

func sortedBackends(results types.QueryResults) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
