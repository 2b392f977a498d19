// Package sqlite implements a SQLite-backed storage.Repository on the pure-Go
// modernc.org/sqlite driver. Batches are written with multi-row INSERTs inside
// one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"flightetl/internal/storage"
)

// DefaultTable is used when no table is configured.
const DefaultTable = "schedule"

// maxParams matches SQLITE_MAX_VARIABLE_NUMBER on older builds.
const maxParams = 999

// Config holds SQLite repository configuration.
type Config struct {
	// DSN is a file path or URI, e.g. "flights.db", "file:flights.db?_pragma=busy_timeout(5000)"
	// or ":memory:".
	DSN string

	// Table is the target table, e.g. "schedule" or "main.schedule".
	Table string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// Open opens a SQLite database and verifies it with a ping. An in-memory
// database is pinned to one connection so every statement sees the same data.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return db, nil
}

// New wraps an open database.
func New(db *sql.DB, table string) *Repository {
	if strings.TrimSpace(table) == "" {
		table = DefaultTable
	}
	return &Repository{db: db, cfg: Config{Table: table}}
}

// NewRepository opens cfg.DSN and returns a Repository plus a close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := Open(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

	r := New(db, cfg.Table)
	r.cfg.DSN = cfg.DSN
	return r, func() { _ = db.Close() }, nil
}

// CopyFrom inserts rows in a single transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	n, err := storage.InsertTx(ctx, r.db, storage.SQLInsert{
		Table:       storage.QuoteWith(r.cfg.Table, quoteIdent),
		Columns:     storage.QuoteAll(columns, quoteIdent),
		Placeholder: storage.QuestionMark,
		MaxParams:   maxParams,
	}, rows)
	if err != nil {
		return 0, fmt.Errorf("sqlite: %w", err)
	}
	return n, nil
}

// Exec executes a single statement, typically DDL.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// Count returns the number of rows in the target table.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + storage.QuoteWith(r.cfg.Table, quoteIdent)
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count: %w", err)
	}
	return n, nil
}

func quoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
