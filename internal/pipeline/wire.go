package pipeline

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"flightetl/internal/airports"
	"flightetl/internal/config"
	"flightetl/internal/datasource"
	"flightetl/internal/datasource/airlabs"
	"flightetl/internal/datasource/file"
	"flightetl/internal/notify"
	"flightetl/internal/storage"
)

// Seams for tests; production code points at the real constructors.
var (
	newRepositoryFn = storage.New
	dialNotifierFn  = func(url, subject string) (notify.Notifier, error) { return notify.Dial(url, subject) }
)

// FromConfig builds a Runner from a validated pipeline config. The airport
// directory, repository and notifier are opened concurrently; if any of them
// fails, the ones that did open are released. The returned close function
// releases the repository and notifier.
func FromConfig(ctx context.Context, p config.Pipeline) (*Runner, func(), error) {
	src, err := NewSource(p)
	if err != nil {
		return nil, nil, err
	}

	scfg := storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DB.DSN, Table: p.Storage.DB.Table}
	var (
		dir  *airports.Directory
		repo storage.Repository
		n    notify.Notifier = notify.Nop{}
	)

	var g errgroup.Group
	g.Go(func() error {
		d, err := airports.Open(p.Airports.Path)
		if err != nil {
			return fmt.Errorf("pipeline: airports: %w", err)
		}
		log.Printf("airports: loaded=%d path=%q", d.Len(), p.Airports.Path)
		dir = d
		return nil
	})
	g.Go(func() error {
		r, err := newRepositoryFn(ctx, scfg)
		if err != nil {
			return fmt.Errorf("pipeline: storage: %w", err)
		}
		repo = r
		return nil
	})
	if p.Notify.NATSURL != "" {
		g.Go(func() error {
			nt, err := dialNotifierFn(p.Notify.NATSURL, p.Notify.Subject)
			if err != nil {
				return fmt.Errorf("pipeline: %w", err)
			}
			n = nt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		n.Close()
		if repo != nil {
			repo.Close()
		}
		return nil, nil, err
	}

	r := &Runner{
		Job:        p.Job,
		APIKey:     p.Source.AirLabs.APIKey,
		Source:     src,
		Airports:   dir,
		Repo:       repo,
		Storage:    scfg,
		AutoCreate: p.Storage.DB.AutoCreateTable,
		Notifier:   n,
	}
	return r, func() {
		n.Close()
		repo.Close()
	}, nil
}

// NewSource returns the schedule source selected by p.Source.Kind.
func NewSource(p config.Pipeline) (datasource.ScheduleSource, error) {
	if p.Source.Kind == "file" {
		return file.NewReplay(p.Source.File.Path), nil
	}
	a := p.Source.AirLabs
	fetcher, err := airlabs.NewFetcher(airlabs.Config{
		BaseURL:            a.BaseURL,
		AirlineIATA:        a.AirlineIATA,
		Fields:             a.Fields,
		Timeout:            a.Timeout,
		MaxRetries:         a.MaxRetries,
		MinInterval:        a.MinInterval,
		InsecureSkipVerify: a.InsecureSkipVerify,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: fetcher: %w", err)
	}
	return fetcher, nil
}
