// Package metrics records operational metrics for pipeline runs.
//
// Callers use the package-level helpers (RecordStage, RecordRecords,
// RecordBatches, RecordRun); a pluggable Backend turns them into Prometheus
// or Datadog series. The default backend is a no-op, so instrumentation is
// always safe to call.
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by every backend.
const (
	StageTotal    = "flightetl_stage_total"
	StageDuration = "flightetl_stage_duration_seconds"
	RecordsTotal  = "flightetl_records_total"
	BatchesTotal  = "flightetl_batches_total"
	RunsTotal     = "flightetl_runs_total"
	RunDuration   = "flightetl_run_duration_seconds"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration-style observation.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b and returns the previous backend. Passing nil keeps
// the existing backend.
func SetBackend(b Backend) Backend {
	mu.Lock()
	defer mu.Unlock()
	prev := backend
	if b != nil {
		backend = b
	}
	return prev
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordStage measures one pipeline stage (fetch, enrich, normalize, filter,
// ensure_schema, write).
func RecordStage(job, stage string, err error, d time.Duration) {
	lbls := Labels{"job": job, "stage": stage, "status": status(err)}
	b := current()
	b.IncCounter(StageTotal, 1, lbls)
	b.ObserveHistogram(StageDuration, d.Seconds(), lbls)
}

// RecordRecords counts records by kind: fetched, rejected, not_landed,
// loadable, duplicates, inserted. Non-positive deltas are ignored.
func RecordRecords(job, kind string, delta int) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches counts committed write batches.
func RecordBatches(job string, delta int) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}

// RecordRun records the terminal status of a whole run.
func RecordRun(job string, err error, d time.Duration) {
	lbls := Labels{"job": job, "status": status(err)}
	b := current()
	b.IncCounter(RunsTotal, 1, lbls)
	b.ObserveHistogram(RunDuration, d.Seconds(), lbls)
}
