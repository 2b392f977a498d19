// Package pipeline runs one extract-transform-load pass over the airline's
// current schedule window:
//
//	fetch -> enrich -> normalize -> filter landed -> write
//
// Every run is independent. The runner holds no state between runs, never
// retries a failed run, and reports the outcome through the returned error,
// metrics and an optional notifier.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"flightetl/internal/airports"
	"flightetl/internal/datasource"
	"flightetl/internal/metrics"
	"flightetl/internal/notify"
	"flightetl/internal/storage"
	"flightetl/internal/transformer"
	"flightetl/pkg/records"
)

// Runner wires the stages to one source and one sink.
type Runner struct {
	Job      string
	APIKey   string
	Source   datasource.ScheduleSource
	Airports *airports.Directory
	Repo     storage.Repository

	// Storage selects the DDL bootstrapper when AutoCreate is set.
	Storage    storage.Config
	AutoCreate bool

	// Notifier receives one event per run; nil disables notifications.
	Notifier notify.Notifier
}

// Summary reports what a run did.
type Summary struct {
	RunID      string
	Fetched    int
	Rejected   int
	NotLanded  int
	Loadable   int
	Duplicates int
	Inserted   int64
	Elapsed    time.Duration
}

// newRunID is a test seam.
var newRunID = func() string { return uuid.NewString() }

// Run executes one pass. A fetch or write failure aborts the run and is
// returned; per-record normalization failures are logged and counted.
func (r *Runner) Run(ctx context.Context) (sum Summary, err error) {
	if r.Source == nil {
		return Summary{}, errors.New("pipeline: no schedule source configured")
	}
	if r.Repo == nil {
		return Summary{}, errors.New("pipeline: no repository configured")
	}

	start := time.Now()
	sum.RunID = newRunID()
	defer func() {
		sum.Elapsed = time.Since(start)
		metrics.RecordRun(r.Job, err, sum.Elapsed)
		r.publish(ctx, sum, start, err)
		if err != nil {
			log.Printf("run: job=%s run_id=%s status=failed elapsed=%s err=%v",
				r.Job, sum.RunID, sum.Elapsed.Truncate(time.Millisecond), err)
			return
		}
		log.Printf("run: job=%s run_id=%s status=finished fetched=%d rejected=%d loadable=%d inserted=%d elapsed=%s",
			r.Job, sum.RunID, sum.Fetched, sum.Rejected, sum.Loadable, sum.Inserted, sum.Elapsed.Truncate(time.Millisecond))
	}()

	log.Printf("extract: job=%s run_id=%s fetching schedules", r.Job, sum.RunID)
	t0 := time.Now()
	raw, err := r.Source.Fetch(ctx, r.APIKey)
	metrics.RecordStage(r.Job, "fetch", err, time.Since(t0))
	if err != nil {
		return sum, err
	}
	sum.Fetched = len(raw)
	metrics.RecordRecords(r.Job, "fetched", sum.Fetched)
	log.Printf("extract: run_id=%s fetched=%d elapsed=%s", sum.RunID, sum.Fetched, time.Since(t0).Truncate(time.Millisecond))

	log.Printf("transform: run_id=%s enriching and normalizing", sum.RunID)
	t0 = time.Now()
	enriched := airports.Enrich(raw, r.Airports)
	metrics.RecordStage(r.Job, "enrich", nil, time.Since(t0))

	t0 = time.Now()
	normalized, rejects := transformer.Normalize(enriched)
	var normErr error
	if len(rejects) > 0 {
		normErr = rejects[0]
	}
	metrics.RecordStage(r.Job, "normalize", normErr, time.Since(t0))
	for _, rej := range rejects {
		log.Printf("transform: run_id=%s rejected: %v", sum.RunID, rej)
	}
	sum.Rejected = len(rejects)
	metrics.RecordRecords(r.Job, "rejected", sum.Rejected)

	t0 = time.Now()
	loadable := transformer.FilterLoadable(normalized)
	metrics.RecordStage(r.Job, "filter", nil, time.Since(t0))
	sum.Loadable = len(loadable)
	sum.NotLanded = len(normalized) - len(loadable)
	sum.Duplicates = records.CountDuplicates(loadable)
	metrics.RecordRecords(r.Job, "not_landed", sum.NotLanded)
	metrics.RecordRecords(r.Job, "loadable", sum.Loadable)
	metrics.RecordRecords(r.Job, "duplicates", sum.Duplicates)
	log.Printf("transform: run_id=%s normalized=%d rejected=%d landed=%d duplicates=%d",
		sum.RunID, len(normalized), sum.Rejected, sum.Loadable, sum.Duplicates)

	log.Printf("load: run_id=%s kind=%s table=%s rows=%d", sum.RunID, r.Storage.Kind, r.Storage.Table, sum.Loadable)
	if r.AutoCreate {
		t0 = time.Now()
		serr := storage.EnsureSchema(ctx, r.Repo, r.Storage)
		metrics.RecordStage(r.Job, "ensure_schema", serr, time.Since(t0))
		if serr != nil {
			// Not fatal: the write fails on its own when the table is missing.
			log.Printf("load: run_id=%s ensure schema failed, continuing: %v", sum.RunID, serr)
		}
	}

	t0 = time.Now()
	n, err := storage.WriteBatch(ctx, r.Repo, loadable)
	metrics.RecordStage(r.Job, "write", err, time.Since(t0))
	if err != nil {
		return sum, err
	}
	sum.Inserted = n
	metrics.RecordRecords(r.Job, "inserted", int(n))
	if n > 0 {
		metrics.RecordBatches(r.Job, 1)
	}
	return sum, nil
}

func (r *Runner) publish(ctx context.Context, sum Summary, start time.Time, runErr error) {
	if r.Notifier == nil {
		return
	}
	ev := notify.Event{
		RunID:      sum.RunID,
		Job:        r.Job,
		Status:     notify.StatusSuccess,
		Fetched:    sum.Fetched,
		Rejected:   sum.Rejected,
		Loadable:   sum.Loadable,
		Duplicates: sum.Duplicates,
		Inserted:   sum.Inserted,
		StartedAt:  start.UTC(),
		DurationMS: sum.Elapsed.Milliseconds(),
	}
	if runErr != nil {
		ev.Status = notify.StatusFailed
		ev.Error = runErr.Error()
	}
	// A cancelled run still reports its outcome.
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.Notifier.Notify(nctx, ev); err != nil {
		log.Printf("notify: run_id=%s publish outcome: %v", sum.RunID, err)
	}
}
