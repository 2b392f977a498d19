// Package file implements a schedule source that replays a captured AirLabs
// /schedules response from the local disk. It lets a saved window be loaded
// again, for backfills or offline runs, through the same transform and sink
// path as a live fetch.
package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"flightetl/internal/datasource/airlabs"
	"flightetl/pkg/records"
)

// maxBody matches the live fetcher's cap.
const maxBody = 64 << 20

// Replay reads one captured response body per Fetch.
type Replay struct{ path string }

// NewReplay returns a Replay bound to path. The file is opened on every
// Fetch, so it may be replaced between runs.
func NewReplay(path string) *Replay { return &Replay{path: path} }

// Fetch decodes the captured body. The API key is ignored. Failures are
// *airlabs.ExtractionError, as for a live fetch.
//
// If ctx is already done, Fetch returns its error without touching the
// filesystem.
func (r *Replay) Fetch(ctx context.Context, _ string) ([]records.Schedule, error) {
	select {
	case <-ctx.Done():
		return nil, &airlabs.ExtractionError{Op: "replay", Err: ctx.Err()}
	default:
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, &airlabs.ExtractionError{Op: "replay", Err: fmt.Errorf("open %s: %w", r.path, err)}
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, maxBody))
	if err != nil {
		return nil, &airlabs.ExtractionError{Op: "replay", Err: fmt.Errorf("read %s: %w", r.path, err)}
	}
	return airlabs.Decode(body)
}
