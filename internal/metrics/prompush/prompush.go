// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. A pipeline run is a short-lived batch job, so metrics are
// pushed at the end of each run instead of being scraped.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"flightetl/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend. The pipeline job name
// is the Pushgateway grouping key, so it is not repeated as a label.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec // stage, status
	stageDuration *prometheus.SummaryVec // stage, status
	recordCounter *prometheus.CounterVec // kind
	batchCounter  prometheus.Counter
	runCounter    *prometheus.CounterVec // status
	lastRun       *prometheus.GaugeVec   // status; duration of the last run
}

// NewBackend constructs a Pushgateway backend. An empty jobName defaults to
// "flightetl".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "flightetl"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		stageCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StageTotal,
			Help: "Pipeline stage executions by stage and status.",
		}, []string{"stage", "status"}),
		stageDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StageDuration,
			Help:       "Pipeline stage duration in seconds by stage and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"stage", "status"}),
		recordCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Schedule records by kind (fetched, rejected, not_landed, loadable, duplicates, inserted).",
		}, []string{"kind"}),
		batchCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Committed write batches.",
		}),
		runCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RunsTotal,
			Help: "Pipeline runs by terminal status.",
		}, []string{"status"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metrics.RunDuration,
			Help: "Duration of the most recent run in seconds.",
		}, []string{"status"}),
	}

	for name, c := range map[string]prometheus.Collector{
		"stage counter":  b.stageCounter,
		"stage summary":  b.stageDuration,
		"record counter": b.recordCounter,
		"batch counter":  b.batchCounter,
		"run counter":    b.runCounter,
		"run gauge":      b.lastRun,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StageTotal:
		if b.stageCounter != nil {
			b.stageCounter.WithLabelValues(labels["stage"], labels["status"]).Add(delta)
		}
	case metrics.RecordsTotal:
		if b.recordCounter != nil {
			b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)
		}
	case metrics.BatchesTotal:
		if b.batchCounter != nil {
			b.batchCounter.Add(delta)
		}
	case metrics.RunsTotal:
		if b.runCounter != nil {
			b.runCounter.WithLabelValues(labels["status"]).Add(delta)
		}
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	switch name {
	case metrics.StageDuration:
		if b.stageDuration != nil {
			b.stageDuration.WithLabelValues(labels["stage"], labels["status"]).Observe(value)
		}
	case metrics.RunDuration:
		if b.lastRun != nil {
			b.lastRun.WithLabelValues(labels["status"]).Set(value)
		}
	}
}

// Flush pushes the registry to the Pushgateway, replacing the job's group.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}
