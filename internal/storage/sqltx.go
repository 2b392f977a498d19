package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLInsert describes a database/sql multi-row INSERT target.
type SQLInsert struct {
	Table       string   // quoted table name
	Columns     []string // quoted column names
	Placeholder Placeholder
	MaxParams   int // driver bind-parameter limit per statement
}

// InsertTx inserts rows with multi-row INSERT statements inside a single
// transaction. Rows are chunked to respect MaxParams; any failure rolls back
// every chunk already sent.
func InsertTx(ctx context.Context, db *sql.DB, ins SQLInsert, rows [][]any) (int64, error) {
	if len(ins.Columns) == 0 {
		return 0, fmt.Errorf("columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	chunks, err := ChunkRows(rows, len(ins.Columns), ins.MaxParams)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Chunks share one statement shape except possibly the last.
	stmts := map[int]*sql.Stmt{}
	defer func() {
		for _, s := range stmts {
			_ = s.Close()
		}
	}()

	var inserted int64
	for _, chunk := range chunks {
		stmt, ok := stmts[len(chunk)]
		if !ok {
			stmt, err = tx.PrepareContext(ctx, InsertSQL(ins.Table, ins.Columns, len(chunk), ins.Placeholder))
			if err != nil {
				return 0, fmt.Errorf("prepare insert: %w", err)
			}
			stmts[len(chunk)] = stmt
		}
		res, err := stmt.ExecContext(ctx, Flatten(chunk)...)
		if err != nil {
			return 0, fmt.Errorf("insert: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		} else {
			inserted += int64(len(chunk))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}
