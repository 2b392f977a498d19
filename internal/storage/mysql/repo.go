// Package mysql implements a MySQL-backed storage.Repository on
// go-sql-driver/mysql. Batches are written with multi-row INSERTs inside one
// InnoDB transaction.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"flightetl/internal/storage"
)

// DefaultTable is used when no table is configured.
const DefaultTable = "schedule"

// maxParams is the protocol limit on placeholders per prepared statement.
const maxParams = 65535

// Config holds MySQL repository configuration.
type Config struct {
	DSN   string // go-sql-driver DSN, e.g. "user:pass@tcp(localhost:3306)/flights"
	Table string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository validates the DSN, opens a pool and pings it.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	mc, err := driver.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	if mc.DBName == "" {
		return nil, nil, fmt.Errorf("mysql dsn: database name is required")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		cfg.Table = DefaultTable
	}

	connector, err := driver.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// CopyFrom inserts rows in a single transaction. MySQL accepts ISO date and
// time strings for DATE and TIME columns, so values are bound as-is.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	n, err := storage.InsertTx(ctx, r.db, storage.SQLInsert{
		Table:       storage.QuoteWith(r.cfg.Table, quoteIdent),
		Columns:     storage.QuoteAll(columns, quoteIdent),
		Placeholder: storage.QuestionMark,
		MaxParams:   maxParams,
	}, rows)
	if err != nil {
		return 0, myErr("insert", err)
	}
	return n, nil
}

// Exec executes a single statement, typically DDL.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return myErr("exec", err)
	}
	return nil
}

// myErr surfaces the server error number when available.
func myErr(op string, err error) error {
	var me *driver.MySQLError
	if errors.As(err, &me) {
		return fmt.Errorf("mysql: %s: error %d: %s: %w", op, me.Number, me.Message, err)
	}
	return fmt.Errorf("mysql: %s: %w", op, err)
}

func quoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }
