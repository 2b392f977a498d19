package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"flightetl/internal/datasource/airlabs"
)

// TestReplayFetch covers success, missing file, bad body and a pre-canceled
// context.
func TestReplayFetch(t *testing.T) {
	t.Parallel()

	type tc struct {
		name      string
		body      string // empty means the file is not created
		cancel    bool
		wantErrIs error
		wantN     int
	}

	cases := []tc{
		{
			name:  "success_decodes_response",
			body:  `{"request":{},"response":[{"flight_iata":"FR1","status":"landed"},{"flight_iata":"FR2","status":"active"}]}`,
			wantN: 2,
		},
		{
			name:      "missing_file_errors_with_wrapping",
			wantErrIs: os.ErrNotExist,
		},
		{
			name:      "bad_shape",
			body:      `{"data":[]}`,
			wantErrIs: airlabs.ErrShape,
		},
		{
			name:      "pre_canceled_context_short_circuits",
			body:      `{"response":[]}`,
			cancel:    true,
			wantErrIs: context.Canceled,
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "schedules.json")
			if c.body != "" {
				if err := os.WriteFile(path, []byte(c.body), 0o644); err != nil {
					t.Fatalf("write test file: %v", err)
				}
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if c.cancel {
				cancel()
			}

			got, err := NewReplay(path).Fetch(ctx, "")
			if c.wantErrIs != nil {
				if !errors.Is(err, c.wantErrIs) {
					t.Fatalf("err = %v, want errors.Is %v", err, c.wantErrIs)
				}
				var ee *airlabs.ExtractionError
				if !errors.As(err, &ee) {
					t.Fatalf("err = %T, want *airlabs.ExtractionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if len(got) != c.wantN {
				t.Fatalf("records = %d, want %d", len(got), c.wantN)
			}
			if got[0].FlightIATA != "FR1" {
				t.Fatalf("first record = %+v", got[0])
			}
		})
	}
}
