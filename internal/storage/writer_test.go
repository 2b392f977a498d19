package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"flightetl/pkg/records"
)

func TestWriteBatch(t *testing.T) {
	t.Parallel()

	rec := records.Loadable{FlightIATA: "FR1", Status: records.StatusLanded, DepDate: "2024-01-09"}
	boom := errors.New("constraint violated")

	tests := []struct {
		name     string
		repo     *fakeRepo
		batch    []records.Loadable
		wantN    int64
		wantErr  bool
		wantRows int
	}{
		{name: "empty batch never touches the sink", repo: &fakeRepo{err: boom}, batch: nil},
		{name: "writes every record", repo: &fakeRepo{}, batch: []records.Loadable{rec, rec}, wantN: 2, wantRows: 2},
		{name: "failure is a LoadError", repo: &fakeRepo{err: boom}, batch: []records.Loadable{rec}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := WriteBatch(context.Background(), tt.repo, tt.batch)
			if tt.wantErr {
				var le *LoadError
				if !errors.As(err, &le) {
					t.Fatalf("err = %v, want *LoadError", err)
				}
				if le.Rows != len(tt.batch) || !errors.Is(err, boom) {
					t.Fatalf("LoadError = %+v", le)
				}
				if n != 0 {
					t.Fatalf("n = %d, want 0 on failure", n)
				}
				return
			}
			if err != nil {
				t.Fatalf("WriteBatch: %v", err)
			}
			if n != tt.wantN || len(tt.repo.rows) != tt.wantRows {
				t.Fatalf("n = %d rows = %d, want %d/%d", n, len(tt.repo.rows), tt.wantN, tt.wantRows)
			}
			if tt.wantRows > 0 && len(tt.repo.columns) != len(records.Columns) {
				t.Fatalf("columns = %v", tt.repo.columns)
			}
		})
	}
}

func TestWriteBatch_NilRepo(t *testing.T) {
	t.Parallel()

	_, err := WriteBatch(context.Background(), nil, []records.Loadable{{FlightIATA: "FR1"}})
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()

	RegisterDDL("ddlfake", func(ctx context.Context, repo Repository, cfg Config) error {
		return repo.Exec(ctx, "CREATE TABLE IF NOT EXISTS "+cfg.Table)
	})

	repo := &fakeRepo{}
	if err := EnsureSchema(context.Background(), repo, Config{Kind: "DDLFake", Table: "t"}); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if len(repo.execs) != 1 || repo.execs[0] != "CREATE TABLE IF NOT EXISTS t" {
		t.Fatalf("execs = %v", repo.execs)
	}

	failing := &fakeRepo{err: errors.New("permission denied")}
	err := EnsureSchema(context.Background(), failing, Config{Kind: "ddlfake", Table: "t"})
	var le *LoadError
	if !errors.As(err, &le) || le.Op != "ensure schema" {
		t.Fatalf("err = %v, want ensure schema LoadError", err)
	}

	err = EnsureSchema(context.Background(), repo, Config{Kind: "nobody"})
	if err == nil || !strings.Contains(err.Error(), "no DDL bootstrapper") {
		t.Fatalf("err = %v, want missing bootstrapper", err)
	}
}

func TestLoadError_Message(t *testing.T) {
	t.Parallel()

	err := &LoadError{Op: "write batch", Rows: 3, Err: errors.New("boom")}
	if got, want := err.Error(), "load: write batch (3 rows): boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	err = &LoadError{Op: "ensure schema", Err: errors.New("boom")}
	if got, want := err.Error(), "load: ensure schema: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
