package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DDLBootstrapper creates the destination table for one backend if it does
// not exist yet, via repo.Exec. It must be idempotent.
type DDLBootstrapper func(ctx context.Context, repo Repository, cfg Config) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the bootstrapper for kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureSchema creates the destination table when absent. Running it against
// an existing table is a no-op. Failures are returned as *LoadError.
func EnsureSchema(ctx context.Context, repo Repository, cfg Config) error {
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return &LoadError{Op: "ensure schema", Err: fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", cfg.Kind)}
	}
	if err := fn(ctx, repo, cfg); err != nil {
		return &LoadError{Op: "ensure schema", Err: err}
	}
	return nil
}
