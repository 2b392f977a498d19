// Package postgres implements a Postgres repository using pgx v5. A batch is
// loaded with COPY inside a single transaction, so a failing row rolls back
// the whole batch.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"flightetl/internal/storage"
)

// DefaultTable is used when no table is configured.
const DefaultTable = "public.schedule"

// Config holds Postgres repository configuration.
type Config struct {
	DSN   string // connection string for pgxpool
	Table string // possibly schema-qualified target table, e.g. "public.schedule"

	// MaxConns caps the pool; 0 keeps the pgxpool default.
	MaxConns int32
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		cfg.Table = DefaultTable
	}

	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: parse DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, pool.Close, nil
}

// CopyFrom COPYs rows into the target table in one transaction. Date and time
// columns arrive as strings and are converted to their pgx types first.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	conv, err := storage.TemporalRows(columns, rows, pgClock)
	if err != nil {
		return 0, fmt.Errorf("postgres: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.CopyFrom(ctx, splitFQN(r.cfg.Table), columns, pgx.CopyFromRows(conv))
	if err != nil {
		return 0, pgErr("copy", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, pgErr("commit", err)
	}
	return n, nil
}

// Exec implements storage.Repository.Exec for Postgres.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return pgErr("exec", err)
	}
	return nil
}

// pgErr surfaces the server's detail and SQLSTATE when available.
func pgErr(op string, err error) error {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		if pe.Detail != "" {
			return fmt.Errorf("postgres: %s: %s: %s (%s): %w", op, pe.Message, pe.Detail, pe.SQLState(), err)
		}
		return fmt.Errorf("postgres: %s: %s (%s): %w", op, pe.Message, pe.SQLState(), err)
	}
	return fmt.Errorf("postgres: %s: %w", op, err)
}

// pgClock encodes a time of day for a TIME column.
func pgClock(d time.Duration) any {
	return pgtype.Time{Microseconds: d.Microseconds(), Valid: true}
}

// pgIdent quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			id = append(id, p)
		}
	}
	return id
}
