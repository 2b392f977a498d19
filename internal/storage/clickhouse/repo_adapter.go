package clickhouse

import (
	"context"
	"fmt"

	"flightetl/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("clickhouse", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("clickhouse", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		sql, err := CreateTableSQL(cfg.Table)
		if err != nil {
			return fmt.Errorf("build DDL: %w", err)
		}
		return repo.Exec(ctx, sql)
	})
}
