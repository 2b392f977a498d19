package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"flightetl/pkg/records"
)

// WriteBatch appends every record to the destination table in one atomic
// bulk insert. On failure nothing from the batch is visible and the error is
// a *LoadError. An empty batch is a no-op that never touches the sink.
func WriteBatch(ctx context.Context, repo Repository, batch []records.Loadable) (int64, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	if repo == nil {
		return 0, &LoadError{Op: "write batch", Rows: len(batch), Err: fmt.Errorf("repository is nil")}
	}

	start := time.Now()
	n, err := repo.CopyFrom(ctx, records.Columns, records.Rows(batch))
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("sink: write failed rows=%d elapsed=%s err=%v", len(batch), elapsed.Truncate(time.Millisecond), err)
		return 0, &LoadError{Op: "write batch", Rows: len(batch), Err: err}
	}

	rps := float64(0)
	if elapsed > 0 {
		rps = float64(n) / elapsed.Seconds()
	}
	log.Printf("sink: committed inserted=%d rps=%.0f elapsed=%s", n, rps, elapsed.Truncate(time.Millisecond))
	return n, nil
}
