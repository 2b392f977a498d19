package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"flightetl/internal/airports"
	"flightetl/internal/config"
	"flightetl/internal/pipeline"
	"flightetl/internal/probe"
)

// main fetches one schedule window, runs it through enrichment,
// normalization and the landed filter, and prints a JSON report of what a
// load would write. Nothing is written to storage.
//
// With -save the fetched window is stored in the upstream envelope so that
// it can be replayed later with source.kind=file.
func main() {
	var (
		flagConfig = flag.String(
			"config",
			"",
			"Path to a pipeline config (JSON/YAML/TOML); defaults plus FLIGHTETL_* env when empty",
		)
		flagReplay = flag.String(
			"replay",
			"",
			"Read the window from a saved response file instead of the API",
		)
		flagAirline = flag.String(
			"airline",
			"",
			"Override source.airlabs.airline_iata",
		)
		flagSave = flag.String(
			"save",
			"",
			"Write the fetched window to this file for later replay",
		)
		flagPretty = flag.Bool(
			"pretty",
			true,
			"Pretty-print JSON output",
		)
		flagTimeout = flag.Duration(
			"timeout",
			60*time.Second,
			"Overall deadline for the probe",
		)
	)
	flag.Parse()

	p, err := config.Load(*flagConfig)
	if err != nil {
		fatalf("config: %v", err)
	}
	if *flagReplay != "" {
		p.Source.Kind = "file"
		p.Source.File.Path = *flagReplay
	}
	if *flagAirline != "" {
		p.Source.AirLabs.AirlineIATA = *flagAirline
	}

	src, err := pipeline.NewSource(p)
	if err != nil {
		fatalf("%v", err)
	}
	dir, err := airports.Open(p.Airports.Path)
	if err != nil {
		fatalf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()

	recs, err := src.Fetch(ctx, p.Source.AirLabs.APIKey)
	if err != nil {
		fatalf("fetch: %v", err)
	}
	log.Printf("probe: fetched=%d source=%s", len(recs), p.Source.Kind)

	if *flagSave != "" {
		f, err := os.Create(*flagSave)
		if err != nil {
			fatalf("save: %v", err)
		}
		if err := probe.Save(f, recs); err != nil {
			_ = f.Close()
			fatalf("%v", err)
		}
		if err := f.Close(); err != nil {
			fatalf("save: %v", err)
		}
		log.Printf("probe: saved path=%s", *flagSave)
	}

	rep := probe.Inspect(recs, dir)

	var out []byte
	if *flagPretty {
		out, err = json.MarshalIndent(rep, "", "  ")
	} else {
		out, err = json.Marshal(rep)
	}
	if err != nil {
		fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
