package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"flightetl/internal/config"
	"flightetl/internal/metrics"
	"flightetl/internal/metrics/datadog"
	"flightetl/internal/metrics/prompush"
	"flightetl/internal/pipeline"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "flightetl/internal/storage/all"
)

// main is the entry point for the ETL binary. It loads the pipeline config,
// optionally initializes a metrics backend, and runs the pipeline once or on a
// fixed cadence.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
		every             time.Duration
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON path (defaults plus FLIGHTETL_* env when empty)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use: none, prometheus, datadog (overrides config)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides config)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.DurationVar(&every, "every", 0, "run repeatedly at this interval, e.g. 3m (overrides config; 0 runs once)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "metrics-backend":
			p.Metrics.Backend = metricsBackendFlg
		case "pushgateway-url":
			p.Metrics.PushgatewayURL = pushGatewayURLFlg
		case "every":
			p.Schedule.Every = every
		}
	})

	warnings, err := config.Check(p)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", w.Severity, w.Path, w.Message)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	closeMetrics := setupMetrics(p, *verbose)
	defer closeMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, closeRunner, err := pipeline.FromConfig(ctx, p)
	if err != nil {
		fatalf("%v", err)
	}
	defer closeRunner()

	if *verbose {
		log.Printf("pipeline: job=%s source=%s airline=%s storage=%s table=%s every=%s",
			p.Job, p.Source.Kind, p.Source.AirLabs.AirlineIATA, p.Storage.Kind, p.Storage.DB.Table, p.Schedule.Every)
	}

	stopShutdownLog := context.AfterFunc(ctx, func() {
		log.Printf("shutdown: signal received, waiting for the current run")
	})
	defer stopShutdownLog()

	err = loop(ctx, p.Schedule.Every, func(ctx context.Context) error {
		_, err := runner.Run(ctx)
		return err
	}, flushMetrics)
	if err != nil {
		closeRunner()
		closeMetrics()
		fatalf("%v", err)
	}
}

// setupMetrics installs the configured backend and returns its cleanup.
func setupMetrics(p config.Pipeline, verbose bool) func() {
	jobName := p.Job
	if jobName == "" {
		jobName = "flightetl"
	}

	switch backendName := strings.ToLower(p.Metrics.Backend); backendName {
	case "prometheus", "pushgateway":
		b, err := prompush.NewBackend(jobName, p.Metrics.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return func() {}
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v", p.Metrics.PushgatewayURL, backendName, jobName)
		metrics.SetBackend(b)
		return flushMetrics

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       p.Metrics.DatadogAddr,
			GlobalTags: []string{"job:" + jobName},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return func() {}
		}
		log.Printf("metrics: addr=%v, backend=%v, job_name=%v", p.Metrics.DatadogAddr, backendName, jobName)
		metrics.SetBackend(b)
		return func() {
			flushMetrics()
			_ = b.Close()
		}

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}
		return func() {}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
		return func() {}
	}
}

func flushMetrics() {
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
