// Package clickhouse implements a ClickHouse-backed storage.Repository on
// clickhouse-go/v2. A batch is sent as one native INSERT block, which
// ClickHouse applies atomically.
package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"flightetl/internal/storage"
)

// DefaultTable is used when no table is configured.
const DefaultTable = "schedule"

// Config holds ClickHouse repository configuration.
type Config struct {
	// DSN is a clickhouse-go DSN, e.g.
	// "clickhouse://default:@localhost:9000/flights?dial_timeout=10s".
	DSN   string
	Table string
}

// Repository is a ClickHouse-backed implementation of storage.Repository.
type Repository struct {
	conn driver.Conn
	cfg  Config
}

// NewRepository parses the DSN, opens a connection and pings it.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("clickhouse: DSN must not be empty")
	}
	opts, err := clickhouse.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse dsn: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 10 * time.Second
	}
	if strings.TrimSpace(cfg.Table) == "" {
		cfg.Table = DefaultTable
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("open clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return &Repository{conn: conn, cfg: cfg}, func() { _ = conn.Close() }, nil
}

// CopyFrom appends rows to one batch and sends it. Date columns are bound as
// time.Time; times of day are stored as strings.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("clickhouse: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	conv, err := storage.TemporalRows(columns, rows, nil)
	if err != nil {
		return 0, fmt.Errorf("clickhouse: %w", err)
	}

	batch, err := r.conn.PrepareBatch(ctx, insertSQL(r.cfg.Table, columns))
	if err != nil {
		return 0, fmt.Errorf("clickhouse: prepare batch: %w", err)
	}
	for i, row := range conv {
		if err := batch.Append(row...); err != nil {
			_ = batch.Abort()
			return 0, fmt.Errorf("clickhouse: append row %d: %w", i, err)
		}
	}
	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("clickhouse: send batch: %w", err)
	}
	return int64(len(conv)), nil
}

// Exec runs a single statement. The native protocol rejects a trailing
// semicolon, so it is stripped.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	sql = strings.TrimSuffix(strings.TrimSpace(sql), ";")
	if sql == "" {
		return nil
	}
	if err := r.conn.Exec(ctx, sql); err != nil {
		return fmt.Errorf("clickhouse: exec: %w", err)
	}
	return nil
}

func insertSQL(table string, columns []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s)",
		storage.QuoteWith(table, quoteIdent),
		strings.Join(storage.QuoteAll(columns, quoteIdent), ", "))
}

func quoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "\\`") + "`" }
