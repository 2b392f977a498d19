package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

// fakeBackend is an in-memory Backend for tests.
type fakeBackend struct {
	mu         sync.Mutex
	counters   []counterCall
	histograms []histCall
	flushes    int
	flushErr   error
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histograms = append(f.histograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return f.flushErr
}

// install swaps in a fake backend for the duration of the test. Tests using
// it must not run in parallel.
func install(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	prev := SetBackend(fb)
	t.Cleanup(func() { SetBackend(prev) })
	return fb
}

func TestRecordStage_SuccessAndFailure(t *testing.T) {
	fb := install(t)

	RecordStage("ryanair", "fetch", nil, 2*time.Second)
	RecordStage("ryanair", "write", errors.New("boom"), 1500*time.Millisecond)

	if len(fb.counters) != 2 || len(fb.histograms) != 2 {
		t.Fatalf("got %d counters, %d histograms; want 2 and 2", len(fb.counters), len(fb.histograms))
	}

	c0 := fb.counters[0]
	if c0.name != StageTotal || c0.delta != 1 {
		t.Fatalf("counter[0] = %#v", c0)
	}
	if c0.labels["job"] != "ryanair" || c0.labels["stage"] != "fetch" || c0.labels["status"] != "success" {
		t.Fatalf("counter[0].labels = %v", c0.labels)
	}
	if h := fb.histograms[0]; h.name != StageDuration || h.value < 1.999 || h.value > 2.001 {
		t.Fatalf("hist[0] = %#v", h)
	}
	if got := fb.counters[1].labels["status"]; got != "failure" {
		t.Fatalf("counter[1] status = %q, want failure", got)
	}
	if h := fb.histograms[1]; h.value < 1.499 || h.value > 1.501 {
		t.Fatalf("hist[1].value = %v, want ~1.5", h.value)
	}
}

func TestRecordRecords_IgnoresNonPositive(t *testing.T) {
	fb := install(t)

	RecordRecords("ryanair", "fetched", 0)
	RecordRecords("ryanair", "fetched", -3)
	RecordRecords("ryanair", "inserted", 42)

	if len(fb.counters) != 1 {
		t.Fatalf("expected 1 counter call, got %d", len(fb.counters))
	}
	c := fb.counters[0]
	if c.name != RecordsTotal || c.delta != 42 || c.labels["kind"] != "inserted" {
		t.Fatalf("counter = %#v", c)
	}
}

func TestRecordBatchesAndRun(t *testing.T) {
	fb := install(t)

	RecordBatches("ryanair", 0)
	RecordBatches("ryanair", 1)
	RecordRun("ryanair", nil, time.Second)

	if len(fb.counters) != 2 {
		t.Fatalf("expected 2 counters, got %#v", fb.counters)
	}
	if fb.counters[0].name != BatchesTotal {
		t.Fatalf("counter[0] = %#v", fb.counters[0])
	}
	if fb.counters[1].name != RunsTotal || fb.counters[1].labels["status"] != "success" {
		t.Fatalf("counter[1] = %#v", fb.counters[1])
	}
	if len(fb.histograms) != 1 || fb.histograms[0].name != RunDuration {
		t.Fatalf("histograms = %#v", fb.histograms)
	}
}

func TestSetBackend_NilKeepsCurrent(t *testing.T) {
	fb := install(t)

	if prev := SetBackend(nil); prev != fb {
		t.Fatalf("SetBackend(nil) returned %v, want installed fake", prev)
	}
	fb.flushErr = errors.New("push failed")
	if err := Flush(); err == nil {
		t.Fatalf("expected Flush to return backend error")
	}
	if fb.flushes != 1 {
		t.Fatalf("flushes = %d, want 1", fb.flushes)
	}
}

func TestNopBackend(t *testing.T) {
	var b nopBackend
	b.IncCounter("x", 1, nil)
	b.ObserveHistogram("x", 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("nop Flush: %v", err)
	}
}
